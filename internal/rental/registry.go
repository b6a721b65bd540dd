package rental

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"brickblock-backend/internal/domain"
	"brickblock-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

// Listing filters for ListProperties.
const (
	KindAll     = "all"
	KindNormal  = "normal"
	KindOffplan = "offplan"
)

// NewProperty is the input of AddProperty. Price is in whole stablecoin units.
type NewProperty struct {
	MetadataURI string
	Price       int64
	Seed        int64
	IsOffplan   bool
}

// AddProperty lists a new property with zeroed counters and returns it with its id.
func (s *Service) AddProperty(ctx context.Context, actor Actor, in NewProperty) (*domain.Property, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	uri := strings.TrimSpace(in.MetadataURI)
	if !validation.IsValidMetadataURI(uri, s.Schemes) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMetadata, in.MetadataURI)
	}
	if in.Price <= 0 || in.Price > MaxPrice {
		return nil, fmt.Errorf("%w: price must be between 1 and %d", ErrInvalidTerms, MaxPrice)
	}

	var p domain.Property
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		p = domain.Property{
			MetadataURI: uri,
			PriceScaled: in.Price * domain.PriceScale,
			Seed:        in.Seed,
			IsOffplan:   in.IsOffplan,
			CreatedBy:   actor.Address,
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		evt := domain.EventPropertyMinted
		if p.IsOffplan {
			evt = domain.EventOffplanPropertyMinted
		}
		return emit(tx, &p.PropertyID, evt, actor.Address, map[string]interface{}{
			"property_id":  p.PropertyID,
			"is_offplan":   p.IsOffplan,
			"price_scaled": p.PriceScaled,
			"metadata_uri": p.MetadataURI,
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SubmitRent pulls amount from the admin into custody and adds it to the property's rent pool.
func (s *Service) SubmitRent(ctx context.Context, actor Actor, propertyID uint64, amount int64) (*domain.Property, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(propertyID)
	defer unlock()

	var p *domain.Property
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		var err error
		p, err = lockProperty(tx, propertyID)
		if err != nil {
			return err
		}
		if amount <= 0 {
			return fmt.Errorf("%w: rent amount must be positive", ErrInvalidTerms)
		}
		if amount > MaxRentPool-p.RentPool {
			return fmt.Errorf("%w: rent pool would exceed %d", ErrInvalidTerms, int64(MaxRentPool))
		}
		if err := s.requireBalance(ctx, tx, actor.Address, amount); err != nil {
			return err
		}
		if err := s.pull(ctx, tx, actor.Address, amount); err != nil {
			return err
		}
		p.RentPool += amount
		p.UpdatedAt = time.Now()
		if err := tx.Model(&domain.Property{}).Where("property_id = ?", p.PropertyID).
			Updates(map[string]interface{}{"rent_pool": p.RentPool, "updatedAt": p.UpdatedAt}).Error; err != nil {
			return err
		}
		return emit(tx, &p.PropertyID, domain.EventRentSubmitted, actor.Address, map[string]interface{}{
			"property_id": p.PropertyID,
			"amount":      amount,
			"rent_pool":   p.RentPool,
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CurrentPropertyID returns the last allocated property id, 0 before the first listing.
func (s *Service) CurrentPropertyID(ctx context.Context) (uint64, error) {
	var id uint64
	err := s.DB.WithContext(ctx).Model(&domain.Property{}).
		Select("COALESCE(MAX(property_id), 0)").Scan(&id).Error
	return id, err
}

func (s *Service) GetProperty(ctx context.Context, id uint64) (*domain.Property, error) {
	var p domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

// PropertyURI returns the metadata pointer of a property.
func (s *Service) PropertyURI(ctx context.Context, id uint64) (string, error) {
	p, err := s.GetProperty(ctx, id)
	if err != nil {
		return "", err
	}
	return p.MetadataURI, nil
}

// ListProperties returns properties in id order, optionally only normal or off-plan ones.
func (s *Service) ListProperties(ctx context.Context, kind string) ([]domain.Property, error) {
	q := s.DB.WithContext(ctx).Order("property_id ASC")
	switch strings.ToLower(kind) {
	case "", KindAll:
	case KindNormal:
		q = q.Where("is_offplan = ?", false)
	case KindOffplan:
		q = q.Where("is_offplan = ?", true)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidTerms, kind)
	}
	var out []domain.Property
	err := q.Find(&out).Error
	return out, err
}
