package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"brickblock-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	idempotencyPrefix = "idem:"
	// how long an in-flight request holds its key
	provisionalLockTTL = 60 * time.Second
	maxIdempotencyKey  = 128
)

type idempEntry struct {
	InProgress bool      `json:"in_progress"`
	Code       int       `json:"code"`
	Body       []byte    `json:"body"`
	BodySHA256 string    `json:"body_sha256"`
	CreatedAt  time.Time `json:"created_at"`
}

// Idempotency replays the stored response of a mutating request that carries an
// Idempotency-Key already seen for the same caller and route. Requests without the
// header pass through untouched.
func Idempotency(rdb *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		reqKey := strings.TrimSpace(c.Get(IdempotencyHeader))
		if reqKey == "" {
			return c.Next()
		}
		if len(reqKey) > maxIdempotencyKey {
			return response.Error(c, "Idempotency-Key is too long", fiber.StatusBadRequest, nil)
		}

		caller := "anonymous"
		if a := GetActor(c); a != nil {
			caller = a.Address
		}
		key := buildIdempotencyKey(c.Method(), c.Path(), caller, reqKey)
		bhash := bodyHash(c.Body())

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		ok, err := provisionalSet(ctx, rdb, key, idempEntry{InProgress: true, BodySHA256: bhash, CreatedAt: time.Now().UTC()})
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("idempotency store unavailable")
			return response.Error(c, "Idempotency store unavailable", fiber.StatusServiceUnavailable, nil)
		}
		if !ok {
			cur, err := loadEntry(ctx, rdb, key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("idempotency entry load failed")
			}
			if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
				return response.Error(c, "Idempotency-Key reused with different body", fiber.StatusConflict, nil)
			}
			if !cur.InProgress && cur.Code != 0 {
				c.Set("Idempotent-Replayed", "true")
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return c.Status(cur.Code).Send(cur.Body)
			}
			return response.Error(c, "Request is already in progress", fiber.StatusConflict, nil)
		}

		if err := c.Next(); err != nil {
			// let the error handler render, then forget the key so the client may retry
			_ = rdb.Del(context.Background(), key).Err()
			return err
		}

		code := c.Response().StatusCode()
		if code >= fiber.StatusInternalServerError {
			_ = rdb.Del(context.Background(), key).Err()
			return nil
		}
		final := idempEntry{
			Code:       code,
			Body:       append([]byte(nil), c.Response().Body()...),
			BodySHA256: bhash,
			CreatedAt:  time.Now().UTC(),
		}
		if err := saveFinal(context.Background(), rdb, key, final, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("idempotency entry save failed")
		}
		return nil
	}
}

func buildIdempotencyKey(method, path, caller, reqKey string) string {
	return idempotencyPrefix + method + ":" + path + ":" + caller + ":" + reqKey
}

func bodyHash(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func provisionalSet(ctx context.Context, rdb *redis.Client, key string, e idempEntry) (bool, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return rdb.SetNX(ctx, key, b, provisionalLockTTL).Result()
}

func loadEntry(ctx context.Context, rdb *redis.Client, key string) (idempEntry, error) {
	var e idempEntry
	b, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(b, &e)
	return e, err
}

func saveFinal(ctx context.Context, rdb *redis.Client, key string, e idempEntry, ttl time.Duration) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err()
}
