package holdings

import (
	"brickblock-backend/internal/middleware"
	"brickblock-backend/internal/pkg/response"
	"brickblock-backend/internal/rental"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles holdings handlers.
type Handlers struct {
	Ledger *rental.Service
}

// ViewHoldings GET /api/v1/holdings/view-holdings
func (h *Handlers) ViewHoldings(c *fiber.Ctx) error {
	a := middleware.GetActor(c)
	if a == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	holdings, err := h.Ledger.HoldingsOf(c.Context(), a.Address)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, err)
	}
	total := 0
	for _, hd := range holdings {
		total += hd.PercentOwned
	}
	return response.Success(c, "Holdings fetched successfully", fiber.Map{"holdings": holdings}, fiber.Map{
		"count":         len(holdings),
		"total_percent": total,
	})
}

// Holding GET /api/v1/holdings/:property_id
func (h *Handlers) Holding(c *fiber.Ctx) error {
	id, err := c.ParamsInt("property_id")
	if err != nil || id <= 0 {
		return response.Error(c, "Invalid property ID", fiber.StatusBadRequest, nil)
	}
	a := middleware.GetActor(c)
	if a == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	holding, err := h.Ledger.GetHolding(c.Context(), uint64(id), a.Address)
	if err != nil {
		return response.Fail(c, rental.StatusCode(err), err)
	}
	return response.Success(c, "Holding fetched successfully", holding, nil)
}
