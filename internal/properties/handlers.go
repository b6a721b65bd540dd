package properties

import (
	"errors"

	"brickblock-backend/internal/domain"
	"brickblock-backend/internal/middleware"
	"brickblock-backend/internal/pkg/response"
	"brickblock-backend/internal/rental"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles property registry handlers.
type Handlers struct {
	Ledger *rental.Service
}

// PropertyView is the public shape of a property: the metadata pointer is exposed
// under normal_uri or offplan_uri depending on the listing kind.
type PropertyView struct {
	domain.Property
	NormalURI       string `json:"normal_uri,omitempty"`
	OffplanURI      string `json:"offplan_uri,omitempty"`
	RemainingSupply int    `json:"remaining_supply"`
}

func viewOf(p *domain.Property) PropertyView {
	return PropertyView{
		Property:        *p,
		NormalURI:       p.NormalURI(),
		OffplanURI:      p.OffplanURI(),
		RemainingSupply: p.RemainingSupply(),
	}
}

type addPropertyRequest struct {
	MetadataURI string `json:"metadata_uri"`
	Price       int64  `json:"price"`
	Seed        int64  `json:"seed"`
	IsOffplan   bool   `json:"is_offplan"`
}

// AddProperty POST /api/v1/properties/add-property
func (h *Handlers) AddProperty(c *fiber.Ctx) error {
	var req addPropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	p, err := h.Ledger.AddProperty(c.Context(), rental.Actor{Address: actor.Address, Admin: actor.IsAdmin()}, rental.NewProperty{
		MetadataURI: req.MetadataURI,
		Price:       req.Price,
		Seed:        req.Seed,
		IsOffplan:   req.IsOffplan,
	})
	if err != nil {
		if errors.Is(err, rental.ErrInvalidMetadata) {
			return response.Error(c, "Please place a valid URI", fiber.StatusBadRequest, nil)
		}
		return response.Fail(c, rental.StatusCode(err), err)
	}
	return response.SuccessCreated(c, "Property listed successfully", viewOf(p), nil)
}

// GetAllProperties GET /api/v1/properties/get-all-properties?kind=all|normal|offplan
func (h *Handlers) GetAllProperties(c *fiber.Ctx) error {
	list, err := h.Ledger.ListProperties(c.Context(), c.Query("kind"))
	if err != nil {
		return response.Fail(c, rental.StatusCode(err), err)
	}
	out := make([]PropertyView, 0, len(list))
	for i := range list {
		out = append(out, viewOf(&list[i]))
	}
	return response.Success(c, "Properties fetched successfully", fiber.Map{"properties": out}, fiber.Map{"count": len(out)})
}

// CurrentID GET /api/v1/properties/current-id
func (h *Handlers) CurrentID(c *fiber.Ctx) error {
	id, err := h.Ledger.CurrentPropertyID(c.Context())
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, err)
	}
	return response.Success(c, "Current property ID fetched successfully", fiber.Map{"property_id": id}, nil)
}

// GetProperty GET /api/v1/properties/:id
func (h *Handlers) GetProperty(c *fiber.Ctx) error {
	id, ok := propertyID(c, "id")
	if !ok {
		return response.Error(c, "Invalid property ID", fiber.StatusBadRequest, nil)
	}
	p, err := h.Ledger.GetProperty(c.Context(), id)
	if err != nil {
		return response.Fail(c, rental.StatusCode(err), err)
	}
	return response.Success(c, "Property fetched successfully", viewOf(p), nil)
}

// URI GET /api/v1/properties/:id/uri
func (h *Handlers) URI(c *fiber.Ctx) error {
	id, ok := propertyID(c, "id")
	if !ok {
		return response.Error(c, "Invalid property ID", fiber.StatusBadRequest, nil)
	}
	uri, err := h.Ledger.PropertyURI(c.Context(), id)
	if err != nil {
		return response.Fail(c, rental.StatusCode(err), err)
	}
	return response.Success(c, "Property URI fetched successfully", fiber.Map{"property_id": id, "uri": uri}, nil)
}

// Holders GET /api/v1/properties/:id/holders
func (h *Handlers) Holders(c *fiber.Ctx) error {
	id, ok := propertyID(c, "id")
	if !ok {
		return response.Error(c, "Invalid property ID", fiber.StatusBadRequest, nil)
	}
	holders, err := h.Ledger.Holders(c.Context(), id)
	if err != nil {
		return response.Fail(c, rental.StatusCode(err), err)
	}
	return response.Success(c, "Holders fetched successfully", fiber.Map{"holders": holders}, fiber.Map{"count": len(holders)})
}

func propertyID(c *fiber.Ctx, key string) (uint64, bool) {
	id, err := c.ParamsInt(key)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint64(id), true
}
