package rental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brickblock-backend/internal/domain"

	"gorm.io/gorm"
)

// Mint sells percent of a property to the actor against full payment of
// price_scaled * percent / 100.
func (s *Service) Mint(ctx context.Context, actor Actor, propertyID uint64, percent int) (*domain.Holding, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(propertyID)
	defer unlock()

	var holding *domain.Holding
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		p, err := lockProperty(tx, propertyID)
		if err != nil {
			return err
		}
		if err := checkMintable(tx, p, percent); err != nil {
			return err
		}
		cost := shareCost(p, percent)
		if err := s.requireBalance(ctx, tx, actor.Address, cost); err != nil {
			return err
		}
		if err := s.pull(ctx, tx, actor.Address, cost); err != nil {
			return err
		}
		if err := addSale(tx, p, percent, cost); err != nil {
			return err
		}
		holding, err = creditHolding(tx, propertyID, actor.Address, percent)
		if err != nil {
			return err
		}
		return emit(tx, &propertyID, domain.EventSharesMinted, actor.Address, map[string]interface{}{
			"property_id":   propertyID,
			"holder":        actor.Address,
			"percent":       percent,
			"cost":          cost,
			"amount_minted": p.AmountMinted,
		})
	})
	if err != nil {
		return nil, err
	}
	return holding, nil
}

// checkMintable applies the pause, minimum and supply rules shared by both purchase paths.
func checkMintable(tx *gorm.DB, p *domain.Property, percent int) error {
	paused, err := mintingPaused(tx)
	if err != nil {
		return err
	}
	if paused {
		return ErrMintingPaused
	}
	if percent < 1 {
		return ErrBelowMinimumInvestment
	}
	return checkSupply(p, percent)
}

func checkSupply(p *domain.Property, percent int) error {
	if percent > p.RemainingSupply() {
		return fmt.Errorf("%w: %d percent left", ErrInsufficientSupply, p.RemainingSupply())
	}
	return nil
}

func shareCost(p *domain.Property, percent int) int64 {
	return p.PriceScaled * int64(percent) / domain.MaxPercent
}

// addSale books a sale of percent for paid stablecoin units on the locked property row.
func addSale(tx *gorm.DB, p *domain.Property, percent int, paid int64) error {
	p.AmountMinted += percent
	p.AmountGenerated += paid
	p.UpdatedAt = time.Now()
	return tx.Model(&domain.Property{}).Where("property_id = ?", p.PropertyID).
		Updates(map[string]interface{}{
			"amount_minted":    p.AmountMinted,
			"amount_generated": p.AmountGenerated,
			"updatedAt":        p.UpdatedAt,
		}).Error
}

// creditHolding raises the holder's percent, appending the holder to the property's
// holder list on the first purchase.
func creditHolding(tx *gorm.DB, propertyID uint64, holder string, percent int) (*domain.Holding, error) {
	var h domain.Holding
	err := tx.Where("property_id = ? AND holder = ?", propertyID, holder).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var n int64
		if err := tx.Model(&domain.Holding{}).Where("property_id = ?", propertyID).Count(&n).Error; err != nil {
			return nil, err
		}
		h = domain.Holding{PropertyID: propertyID, Holder: holder, PercentOwned: percent, Seq: int(n) + 1}
		if err := tx.Create(&h).Error; err != nil {
			return nil, err
		}
		return &h, nil
	}
	if err != nil {
		return nil, err
	}
	h.PercentOwned += percent
	if err := tx.Model(&h).Updates(map[string]interface{}{"percent_owned": h.PercentOwned, "updatedAt": time.Now()}).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

// HoldingsOf lists every property the holder owns a share of.
func (s *Service) HoldingsOf(ctx context.Context, holder string) ([]domain.Holding, error) {
	var out []domain.Holding
	err := s.DB.WithContext(ctx).
		Where("holder = ? AND percent_owned > 0", holder).
		Order("property_id ASC").
		Find(&out).Error
	return out, err
}

// GetHolding returns the holder's share of a property; a holder who never bought reads as 0 percent.
func (s *Service) GetHolding(ctx context.Context, propertyID uint64, holder string) (*domain.Holding, error) {
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	var h domain.Holding
	err := s.DB.WithContext(ctx).Where("property_id = ? AND holder = ?", propertyID, holder).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.Holding{PropertyID: propertyID, Holder: holder}, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Holders returns the holder list of a property in first-purchase order.
func (s *Service) Holders(ctx context.Context, propertyID uint64) ([]domain.Holding, error) {
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return holdersOf(s.DB.WithContext(ctx), propertyID)
}

func holdersOf(tx *gorm.DB, propertyID uint64) ([]domain.Holding, error) {
	var out []domain.Holding
	err := tx.Where("property_id = ?", propertyID).Order("seq ASC").Find(&out).Error
	return out, err
}
