package listingevents

import (
	"errors"

	"brickblock-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/listing-events?type=&limit=
func (h *Handlers) Recent(c *fiber.Ctx) error {
	events, err := h.Service.Recent(c.Context(), c.Query("type"), c.QueryInt("limit", defaultLimit))
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, err)
	}
	return response.Success(c, "Listing events fetched successfully", fiber.Map{"events": events}, nil)
}

// GET /api/v1/listing-events/:property_id?type=
func (h *Handlers) PropertyEvents(c *fiber.Ctx) error {
	id, err := c.ParamsInt("property_id")
	if err != nil || id <= 0 {
		return response.Error(c, "Invalid property ID", fiber.StatusBadRequest, nil)
	}
	events, err := h.Service.PropertyEvents(c.Context(), uint64(id), c.Query("type"))
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Fail(c, fiber.StatusInternalServerError, err)
	}
	return response.Success(c, "Listing events fetched successfully", fiber.Map{"events": events}, nil)
}
