package trading

import (
	"brickblock-backend/internal/middleware"
	"brickblock-backend/internal/pkg/response"
	"brickblock-backend/internal/rental"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Ledger *rental.Service
}

type mintRequest struct {
	PropertyID uint64 `json:"property_id"`
	Percent    *int   `json:"percent"`
}

type installmentRequest struct {
	PropertyID   uint64 `json:"property_id"`
	Percent      *int   `json:"percent"`
	FirstPayment *int64 `json:"first_payment"`
}

type payInstallmentRequest struct {
	PropertyID uint64 `json:"property_id"`
}

func actor(c *fiber.Ctx) (rental.Actor, bool) {
	a := middleware.GetActor(c)
	if a == nil {
		return rental.Actor{}, false
	}
	return rental.Actor{Address: a.Address, Admin: a.IsAdmin()}, true
}

// Mint POST /api/v1/trading/mint buys percent of a property with full payment.
func (h *Handlers) Mint(c *fiber.Ctx) error {
	var req mintRequest
	if err := c.BodyParser(&req); err != nil || req.PropertyID == 0 || req.Percent == nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	holding, err := h.Ledger.Mint(c.Context(), a, req.PropertyID, *req.Percent)
	if err != nil {
		return response.Fail(c, rental.StatusCode(err), err)
	}
	return response.SuccessCreated(c, "Shares minted successfully", fiber.Map{"holding": holding}, nil)
}

// MintInstallment POST /api/v1/trading/mint-installment opens an installment plan on an off-plan property.
func (h *Handlers) MintInstallment(c *fiber.Ctx) error {
	var req installmentRequest
	if err := c.BodyParser(&req); err != nil || req.PropertyID == 0 || req.Percent == nil || req.FirstPayment == nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	plan, err := h.Ledger.MintWithInstallment(c.Context(), a, req.PropertyID, *req.Percent, *req.FirstPayment)
	if err != nil {
		return response.Fail(c, rental.StatusCode(err), err)
	}
	return response.SuccessCreated(c, "Installment plan opened successfully", fiber.Map{
		"plan":     plan,
		"next_due": plan.NextDue(),
	}, nil)
}

// PayInstallment POST /api/v1/trading/pay-installment
func (h *Handlers) PayInstallment(c *fiber.Ctx) error {
	var req payInstallmentRequest
	if err := c.BodyParser(&req); err != nil || req.PropertyID == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	plan, paid, err := h.Ledger.PayInstallment(c.Context(), a, req.PropertyID)
	if err != nil {
		return response.Fail(c, rental.StatusCode(err), err)
	}
	return response.Success(c, "Installment paid successfully", fiber.Map{
		"plan":     plan,
		"paid":     paid,
		"next_due": plan.NextDue(),
	}, nil)
}

// Plans GET /api/v1/trading/plans
func (h *Handlers) Plans(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	plans, err := h.Ledger.PlansOf(c.Context(), a.Address)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, err)
	}
	return response.Success(c, "Installment plans fetched successfully", fiber.Map{"plans": plans}, nil)
}

// Plan GET /api/v1/trading/plans/:property_id
func (h *Handlers) Plan(c *fiber.Ctx) error {
	id, err := c.ParamsInt("property_id")
	if err != nil || id <= 0 {
		return response.Error(c, "Invalid property ID", fiber.StatusBadRequest, nil)
	}
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	plan, err := h.Ledger.GetPlan(c.Context(), uint64(id), a.Address)
	if err != nil {
		return response.Fail(c, rental.StatusCode(err), err)
	}
	return response.Success(c, "Installment plan fetched successfully", fiber.Map{
		"plan":     plan,
		"next_due": plan.NextDue(),
	}, nil)
}
