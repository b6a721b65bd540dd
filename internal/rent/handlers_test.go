package rent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"brickblock-backend/internal/infrastructure/database"
	"brickblock-backend/internal/rental"
	"brickblock-backend/internal/stablecoin"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	custody = "brickblock:custody"
	unit    = int64(1_000_000)
)

func newApp(svc *rental.Service, user map[string]interface{}) *fiber.App {
	h := &Handlers{Ledger: svc}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", user)
		return c.Next()
	})
	app.Post("/api/v1/rent/submit-rent", h.SubmitRent)
	app.Post("/api/v1/rent/distribute-rent", h.DistributeRent)
	app.Get("/api/v1/rent/payouts", h.Payouts)
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestSubmitAndDistributeRent(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	svc := rental.NewService(db, custody, []string{"https://"})
	ctx := context.Background()
	l := stablecoin.NewLedger(db)
	for _, who := range []string{"0xadmin", "0xalice", "0xbob"} {
		require.NoError(t, l.Credit(ctx, who, 5000*unit))
		require.NoError(t, l.Approve(ctx, who, custody, 5000*unit))
	}
	p, err := svc.AddProperty(ctx, rental.Actor{Address: "0xadmin", Admin: true}, rental.NewProperty{MetadataURI: "https://meta.brickblock.io/r.json", Price: 1000})
	require.NoError(t, err)
	_, err = svc.Mint(ctx, rental.Actor{Address: "0xalice"}, p.PropertyID, 5)
	require.NoError(t, err)
	_, err = svc.Mint(ctx, rental.Actor{Address: "0xbob"}, p.PropertyID, 10)
	require.NoError(t, err)

	adminApp := newApp(svc, map[string]interface{}{"address": "0xadmin", "role": "admin"})
	aliceApp := newApp(svc, map[string]interface{}{"address": "0xalice", "role": "investor"})

	code, _ := call(t, aliceApp, "POST", "/api/v1/rent/submit-rent", map[string]interface{}{"property_id": p.PropertyID, "amount": 1500 * unit})
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = call(t, aliceApp, "POST", "/api/v1/rent/distribute-rent", map[string]interface{}{"property_id": p.PropertyID})
	assert.Equal(t, fiber.StatusConflict, code)

	code, out := call(t, adminApp, "POST", "/api/v1/rent/submit-rent", map[string]interface{}{"property_id": p.PropertyID, "amount": 1500 * unit})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, float64(1500*unit), out["data"].(map[string]interface{})["rent_pool"])

	code, out = call(t, aliceApp, "POST", "/api/v1/rent/distribute-rent", map[string]interface{}{"property_id": p.PropertyID})
	require.Equal(t, fiber.StatusOK, code)
	payouts := out["data"].(map[string]interface{})["payouts"].([]interface{})
	require.Len(t, payouts, 2)
	assert.Equal(t, float64(75*unit), payouts[0].(map[string]interface{})["amount"])
	assert.Equal(t, float64(150*unit), payouts[1].(map[string]interface{})["amount"])

	code, out = call(t, aliceApp, "GET", "/api/v1/rent/payouts", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, out["data"].(map[string]interface{})["payouts"], 1)
}

func TestSubmitRent_Validation(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	svc := rental.NewService(db, custody, []string{"https://"})
	adminApp := newApp(svc, map[string]interface{}{"address": "0xadmin", "role": "admin"})

	code, _ := call(t, adminApp, "POST", "/api/v1/rent/submit-rent", map[string]interface{}{"property_id": 1})
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = call(t, adminApp, "POST", "/api/v1/rent/submit-rent", map[string]interface{}{"property_id": 1, "amount": 10})
	assert.Equal(t, fiber.StatusNotFound, code)
	code, _ = call(t, adminApp, "POST", "/api/v1/rent/distribute-rent", map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, code)
}
