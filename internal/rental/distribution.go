package rental

import (
	"context"
	"time"

	"brickblock-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Distribution is the outcome of one DistributeRent call.
type Distribution struct {
	DistributionID uuid.UUID           `json:"distribution_id"`
	PropertyID     uint64              `json:"property_id"`
	Pool           int64               `json:"pool"`
	Distributed    int64               `json:"distributed"`
	Dust           int64               `json:"dust"`
	Payouts        []domain.RentPayout `json:"payouts"`
}

// DistributeRent pays every holder pool * percent / 100 out of custody, in holder list
// order, and empties the pool. Rounding dust stays in custody.
func (s *Service) DistributeRent(ctx context.Context, actor Actor, propertyID uint64) (*Distribution, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(propertyID)
	defer unlock()

	var out *Distribution
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		p, err := lockProperty(tx, propertyID)
		if err != nil {
			return err
		}
		if p.RentPool == 0 {
			return ErrNoRentToDistribute
		}
		holders, err := holdersOf(tx, propertyID)
		if err != nil {
			return err
		}

		out = &Distribution{
			DistributionID: uuid.New(),
			PropertyID:     propertyID,
			Pool:           p.RentPool,
			Payouts:        make([]domain.RentPayout, 0, len(holders)),
		}
		rail := s.rail(tx)
		for _, h := range holders {
			amount := p.RentPool * int64(h.PercentOwned) / domain.MaxPercent
			if amount > 0 && h.Holder != s.Custody {
				if err := rail.Transfer(ctx, s.Custody, h.Holder, amount); err != nil {
					return railErr(err)
				}
			}
			out.Distributed += amount
			out.Payouts = append(out.Payouts, domain.RentPayout{
				DistributionID: out.DistributionID,
				PropertyID:     propertyID,
				Holder:         h.Holder,
				Percent:        h.PercentOwned,
				Amount:         amount,
			})
		}
		out.Dust = out.Pool - out.Distributed

		if len(out.Payouts) > 0 {
			if err := tx.Create(&out.Payouts).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&domain.Property{}).Where("property_id = ?", propertyID).
			Updates(map[string]interface{}{"rent_pool": 0, "updatedAt": time.Now()}).Error; err != nil {
			return err
		}

		payouts := make([]map[string]interface{}, 0, len(out.Payouts))
		for _, po := range out.Payouts {
			payouts = append(payouts, map[string]interface{}{"holder": po.Holder, "percent": po.Percent, "amount": po.Amount})
		}
		return emit(tx, &propertyID, domain.EventRentDistributed, actor.Address, map[string]interface{}{
			"property_id":     propertyID,
			"distribution_id": out.DistributionID,
			"pool":            out.Pool,
			"dust":            out.Dust,
			"payouts":         payouts,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PayoutsOf returns the rent payouts received by holder, newest first.
func (s *Service) PayoutsOf(ctx context.Context, holder string, limit int) ([]domain.RentPayout, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.RentPayout
	err := s.DB.WithContext(ctx).Where("holder = ?", holder).
		Order(`"createdAt" DESC, payout_id DESC`).
		Limit(limit).
		Find(&out).Error
	return out, err
}
