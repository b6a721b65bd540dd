package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"brickblock-backend/internal/domain"
	"brickblock-backend/internal/infrastructure/database"
	"brickblock-backend/internal/pkg/validation"
	"brickblock-backend/internal/stablecoin"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SignatureHeader       = "X-Rail-Signature"
	EventDepositSucceeded = "deposit.succeeded"
	signatureTolerance    = 300 // seconds
)

// WebhookHandler receives signed deposit notifications from the stablecoin rail.
type WebhookHandler struct {
	DB            *gorm.DB
	WebhookSecret string
}

type railEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type depositObject struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
	Status  string `json:"status"`
}

// HandleWebhook POST /api/v1/stablecoin/webhook: raw body, signature verification, then process.
func (wh *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	rawBody := c.BodyRaw()
	sig := c.Get(SignatureHeader)

	if len(rawBody) == 0 {
		log.Warn().Msg("rail webhook received empty body")
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: empty body")
	}
	if err := verifySignature(rawBody, sig, wh.WebhookSecret, time.Now()); err != nil {
		log.Warn().Err(err).Bool("has_sig", sig != "").Bool("has_secret", wh.WebhookSecret != "").Msg("rail webhook signature verification failed")
		return c.Status(fiber.StatusBadRequest).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	var event railEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}
	if event.Type != EventDepositSucceeded {
		return c.Status(fiber.StatusOK).SendString("ok")
	}

	var dep depositObject
	if err := json.Unmarshal(event.Data.Object, &dep); err != nil || event.ID == "" ||
		dep.Amount <= 0 || !validation.IsValidAddress(dep.Address) {
		// acknowledged so the rail stops retrying a payload that can never apply
		log.Warn().Str("event_id", event.ID).Msg("rail webhook deposit ignored: malformed object")
		return c.Status(fiber.StatusOK).SendString("ignored")
	}

	if err := wh.recordDeposit(c.UserContext(), event.ID, dep, rawBody); err != nil {
		if errors.Is(err, stablecoin.ErrBalanceOverflow) {
			log.Warn().Err(err).Str("event_id", event.ID).Msg("rail webhook deposit ignored: balance limit")
			return c.Status(fiber.StatusOK).SendString("ignored")
		}
		log.Error().Err(err).Str("event_id", event.ID).Msg("rail webhook deposit failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Webhook Error: processing failed")
	}
	return c.Status(fiber.StatusOK).SendString("ok")
}

// recordDeposit stores the deposit and credits the balance once per event id.
func (wh *WebhookHandler) recordDeposit(ctx context.Context, eventID string, dep depositObject, raw []byte) error {
	err := wh.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Deposit
		err := tx.Where("event_id = ?", eventID).First(&existing).Error
		if err == nil {
			return stablecoin.ErrDepositAlreadyRecorded
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&domain.Deposit{
			EventID:    eventID,
			Address:    dep.Address,
			Amount:     dep.Amount,
			Status:     "credited",
			RawPayload: datatypes.JSON(raw),
		}).Error; err != nil {
			return err
		}
		return stablecoin.NewLedger(tx).Credit(ctx, dep.Address, dep.Amount)
	})
	if errors.Is(err, stablecoin.ErrDepositAlreadyRecorded) || database.IsUniqueViolation(err) {
		log.Info().Str("event_id", eventID).Msg("rail webhook deposit already recorded")
		return nil
	}
	if err == nil {
		log.Info().Str("event_id", eventID).Str("address", dep.Address).Int64("amount", dep.Amount).Msg("deposit credited")
	}
	return err
}

// verifySignature checks "t=<unix>,v1=<hex hmac-sha256(t.body)>" against secret.
func verifySignature(payload []byte, sigHeader, secret string, now time.Time) error {
	if sigHeader == "" || secret == "" {
		return errors.New("missing signature or secret")
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return errors.New("invalid signature format")
	}

	expected := Sign(payload, timestamp, secret)
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			ts, err := strconv.ParseInt(timestamp, 10, 64)
			if err != nil {
				return errors.New("invalid timestamp")
			}
			diff := now.Unix() - ts
			if diff < 0 {
				diff = -diff
			}
			if diff > signatureTolerance {
				return errors.New("timestamp too old")
			}
			return nil
		}
	}
	return errors.New("signature mismatch")
}

// Sign returns the hex HMAC the rail puts in the v1 field.
func Sign(payload []byte, timestamp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "." + string(payload)))
	return hex.EncodeToString(mac.Sum(nil))
}
