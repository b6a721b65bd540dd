package stablecoin

import (
	"errors"

	"brickblock-backend/internal/middleware"
	"brickblock-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *Service
}

// Info GET /api/v1/stablecoin/info
func (h *Handlers) Info(c *fiber.Ctx) error {
	return response.Success(c, "Stablecoin info fetched successfully", h.Service.Info(), nil)
}

// Balance GET /api/v1/stablecoin/balance
func (h *Handlers) Balance(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	data, err := h.Service.Balance(c.Context(), actor.Address)
	if err != nil {
		log.Error().Err(err).Str("address", actor.Address).Msg("stablecoin balance lookup failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Balance fetched successfully", data, nil)
}

// Approve POST /api/v1/stablecoin/approve
func (h *Handlers) Approve(c *fiber.Ctx) error {
	var body struct {
		Amount *int64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil || body.Amount == nil {
		return response.Error(c, "amount is required", fiber.StatusBadRequest, nil)
	}
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.ApproveCustody(c.Context(), actor.Address, *body.Amount); err != nil {
		if errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrInvalidAddress) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		log.Error().Err(err).Str("address", actor.Address).Msg("stablecoin approve failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Allowance updated successfully", fiber.Map{
		"owner":   actor.Address,
		"spender": h.Service.Custody,
		"amount":  *body.Amount,
	}, nil)
}

// Transfers GET /api/v1/stablecoin/transfers
func (h *Handlers) Transfers(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.Transfers(c.Context(), actor.Address, c.QueryInt("limit", 100))
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Transfers fetched successfully", fiber.Map{"transfers": out}, nil)
}
