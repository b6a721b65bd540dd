package payments

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"brickblock-backend/internal/domain"
	"brickblock-backend/internal/infrastructure/database"
	"brickblock-backend/internal/stablecoin"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "whsec_test"

func setupWebhook(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	wh := &WebhookHandler{DB: db, WebhookSecret: testSecret}
	app := fiber.New()
	app.Post("/api/v1/stablecoin/webhook", wh.HandleWebhook)
	return app, db
}

func signPayload(payload []byte, secret string, ts time.Time) string {
	t := fmt.Sprintf("%d", ts.Unix())
	return fmt.Sprintf("t=%s,v1=%s", t, Sign(payload, t, secret))
}

func post(t *testing.T, app *fiber.App, body []byte, sig string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/stablecoin/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set(SignatureHeader, sig)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func depositPayload(eventID, address string, amount int64) []byte {
	return []byte(fmt.Sprintf(`{"id":%q,"type":"deposit.succeeded","data":{"object":{"address":%q,"amount":%d,"status":"succeeded"}}}`,
		eventID, address, amount))
}

func balance(t *testing.T, db *gorm.DB, addr string) int64 {
	t.Helper()
	b, err := stablecoin.NewLedger(db).BalanceOf(context.Background(), addr)
	require.NoError(t, err)
	return b
}

func TestWebhook_MissingSignature_Returns400(t *testing.T) {
	app, _ := setupWebhook(t)
	code, body := post(t, app, depositPayload("evt_1", "0xalice", 100), "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, body, "Webhook Error")
}

func TestWebhook_InvalidSignature_Returns400(t *testing.T) {
	app, db := setupWebhook(t)
	payload := depositPayload("evt_1", "0xalice", 100)
	code, _ := post(t, app, payload, signPayload(payload, "wrong_secret", time.Now()))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, int64(0), balance(t, db, "0xalice"))
}

func TestWebhook_StaleTimestamp_Returns400(t *testing.T) {
	app, _ := setupWebhook(t)
	payload := depositPayload("evt_1", "0xalice", 100)
	code, body := post(t, app, payload, signPayload(payload, testSecret, time.Now().Add(-10*time.Minute)))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, body, "timestamp too old")
}

func TestWebhook_ValidDeposit_CreditsOnce(t *testing.T) {
	app, db := setupWebhook(t)
	payload := depositPayload("evt_42", "0xalice", 2_500_000)

	code, body := post(t, app, payload, signPayload(payload, testSecret, time.Now()))
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ok", body)
	assert.Equal(t, int64(2_500_000), balance(t, db, "0xalice"))

	// redelivery of the same event
	code, _ = post(t, app, payload, signPayload(payload, testSecret, time.Now()))
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, int64(2_500_000), balance(t, db, "0xalice"))

	var deposits []domain.Deposit
	require.NoError(t, db.Find(&deposits).Error)
	require.Len(t, deposits, 1)
	assert.Equal(t, "evt_42", deposits[0].EventID)
	assert.Equal(t, "credited", deposits[0].Status)

	transfers, err := stablecoin.NewLedger(db).Transfers(context.Background(), "0xalice", 10)
	require.NoError(t, err)
	assert.Len(t, transfers, 1)
}

func TestWebhook_UnknownTypeAcknowledged(t *testing.T) {
	app, db := setupWebhook(t)
	payload := []byte(`{"id":"evt_9","type":"withdrawal.created","data":{"object":{}}}`)
	code, body := post(t, app, payload, signPayload(payload, testSecret, time.Now()))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ok", body)
	var n int64
	require.NoError(t, db.Model(&domain.Deposit{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestWebhook_MalformedDepositIgnored(t *testing.T) {
	app, db := setupWebhook(t)
	payload := depositPayload("evt_7", "0xalice", -5)
	code, body := post(t, app, payload, signPayload(payload, testSecret, time.Now()))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ignored", body)
	assert.Equal(t, int64(0), balance(t, db, "0xalice"))
}

func TestWebhook_DepositPastBalanceLimitIgnored(t *testing.T) {
	app, db := setupWebhook(t)
	first := depositPayload("evt_big", "0xwhale", math.MaxInt64-10)
	code, _ := post(t, app, first, signPayload(first, testSecret, time.Now()))
	require.Equal(t, fiber.StatusOK, code)

	over := depositPayload("evt_over", "0xwhale", 11)
	code, body := post(t, app, over, signPayload(over, testSecret, time.Now()))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ignored", body)
	assert.Equal(t, int64(math.MaxInt64-10), balance(t, db, "0xwhale"))

	var n int64
	require.NoError(t, db.Model(&domain.Deposit{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Unix(1_700_000_000, 0)
	good := signPayload(payload, testSecret, now)

	assert.NoError(t, verifySignature(payload, good, testSecret, now.Add(time.Minute)))
	assert.Error(t, verifySignature(payload, good, "", now))
	assert.Error(t, verifySignature(payload, "garbage", testSecret, now))
	assert.Error(t, verifySignature([]byte(`{"x":1}`), good, testSecret, now))
	assert.Error(t, verifySignature(payload, good, testSecret, now.Add(6*time.Minute)))
}
