package rent

import (
	"brickblock-backend/internal/middleware"
	"brickblock-backend/internal/pkg/response"
	"brickblock-backend/internal/rental"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Ledger *rental.Service
}

type submitRentRequest struct {
	PropertyID uint64 `json:"property_id"`
	Amount     *int64 `json:"amount"`
}

type distributeRequest struct {
	PropertyID uint64 `json:"property_id"`
}

// SubmitRent POST /api/v1/rent/submit-rent (admin)
func (h *Handlers) SubmitRent(c *fiber.Ctx) error {
	var req submitRentRequest
	if err := c.BodyParser(&req); err != nil || req.PropertyID == 0 || req.Amount == nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	a := middleware.GetActor(c)
	if a == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	p, err := h.Ledger.SubmitRent(c.Context(), rental.Actor{Address: a.Address, Admin: a.IsAdmin()}, req.PropertyID, *req.Amount)
	if err != nil {
		return response.Fail(c, rental.StatusCode(err), err)
	}
	return response.Success(c, "Rent submitted successfully", fiber.Map{
		"property_id": p.PropertyID,
		"rent_pool":   p.RentPool,
	}, nil)
}

// DistributeRent POST /api/v1/rent/distribute-rent, open to any signed-in account.
func (h *Handlers) DistributeRent(c *fiber.Ctx) error {
	var req distributeRequest
	if err := c.BodyParser(&req); err != nil || req.PropertyID == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	a := middleware.GetActor(c)
	if a == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	d, err := h.Ledger.DistributeRent(c.Context(), rental.Actor{Address: a.Address, Admin: a.IsAdmin()}, req.PropertyID)
	if err != nil {
		return response.Fail(c, rental.StatusCode(err), err)
	}
	return response.Success(c, "Rent distributed successfully", d, nil)
}

// Payouts GET /api/v1/rent/payouts
func (h *Handlers) Payouts(c *fiber.Ctx) error {
	a := middleware.GetActor(c)
	if a == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	payouts, err := h.Ledger.PayoutsOf(c.Context(), a.Address, c.QueryInt("limit", 100))
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, err)
	}
	return response.Success(c, "Rent payouts fetched successfully", fiber.Map{"payouts": payouts}, nil)
}
