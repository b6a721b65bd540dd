package auth

import (
	"context"
	"errors"

	"brickblock-backend/internal/middleware"
	"brickblock-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const accountSessionsPrefix = "account_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Accounts AccountStore
	Rdb      *redis.Client
	Config   middleware.SessionConfig
}

// Login POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req Credentials
	if err := c.BodyParser(&req); err != nil || req.Address == "" || req.Password == "" {
		return response.Error(c, ErrAddressPasswordRequired.Error(), fiber.StatusBadRequest, nil)
	}
	acct, err := h.Accounts.Login(req.Address, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrAddressPasswordRequired):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, ErrInvalidAddress), errors.Is(err, ErrIncorrectPassword):
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			return response.Fail(c, fiber.StatusInternalServerError, err)
		}
	}
	if err := h.startSession(c, acct.Address, acct.Role); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, err)
	}
	return response.Success(c, "Login successful", fiber.Map{
		"user": SessionUserShape{Address: acct.Address, Role: acct.Role},
	}, nil)
}

// Register POST /api/v1/auth/register creates an investor account and signs it in.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req Credentials
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, ErrAddressPasswordRequired.Error(), fiber.StatusBadRequest, nil)
	}
	acct, err := h.Accounts.Register(req.Address, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrAddressTaken):
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		case errors.Is(err, ErrAddressPasswordRequired), errors.Is(err, ErrInvalidAddress),
			errors.Is(err, ErrWeakPassword), errors.Is(err, ErrReservedAddress):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Fail(c, fiber.StatusInternalServerError, err)
		}
	}
	if err := h.startSession(c, acct.Address, acct.Role); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, err)
	}
	return response.SuccessCreated(c, "Registration successful", fiber.Map{
		"user": SessionUserShape{Address: acct.Address, Role: acct.Role},
	}, nil)
}

func (h *Handlers) startSession(c *fiber.Ctx, address, role string) error {
	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{Address: address, Role: role})
	if err := h.Rdb.SAdd(context.Background(), accountSessionsPrefix+address, sessionID).Err(); err != nil {
		return err
	}
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)
	return nil
}

// Me GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := VerifyUser(middleware.GetUser(c))
	if err != nil {
		log.Debug().Bool("session_id_present", middleware.GetSessionID(c) != "").Msg("auth/me: not authenticated")
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	ctx := context.Background()

	if actor := middleware.GetActor(c); actor != nil && sessionID != "" {
		_ = h.Rdb.SRem(ctx, accountSessionsPrefix+actor.Address, sessionID).Err()
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
