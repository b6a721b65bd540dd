package admin

import (
	"brickblock-backend/internal/middleware"
	"brickblock-backend/internal/pkg/response"
	"brickblock-backend/internal/rental"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Ledger *rental.Service
}

// Pause POST /api/v1/admin/pause {"paused": bool}
func (h *Handlers) Pause(c *fiber.Ctx) error {
	var body struct {
		Paused *bool `json:"paused"`
	}
	if err := c.BodyParser(&body); err != nil || body.Paused == nil {
		return response.Error(c, "paused is required", fiber.StatusBadRequest, nil)
	}
	a := middleware.GetActor(c)
	if a == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	state, err := h.Ledger.Pause(c.Context(), rental.Actor{Address: a.Address, Admin: a.IsAdmin()}, *body.Paused)
	if err != nil {
		return response.Fail(c, rental.StatusCode(err), err)
	}
	msg := "Minting resumed"
	if state.MintingPaused {
		msg = "Minting paused"
	}
	return response.Success(c, msg, state, nil)
}

// State GET /api/v1/admin/state
func (h *Handlers) State(c *fiber.Ctx) error {
	state, err := h.Ledger.State(c.Context())
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, err)
	}
	return response.Success(c, "Ledger state fetched successfully", state, nil)
}
