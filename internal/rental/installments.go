package rental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brickblock-backend/internal/domain"

	"gorm.io/gorm"
)

// MintWithInstallment sells percent of an off-plan property against a first payment,
// opening a plan for the rest. The full percent is credited immediately.
func (s *Service) MintWithInstallment(ctx context.Context, actor Actor, propertyID uint64, percent int, firstPayment int64) (*domain.InstallmentPlan, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(propertyID)
	defer unlock()

	var plan domain.InstallmentPlan
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		p, err := lockProperty(tx, propertyID)
		if err != nil {
			return err
		}
		if !p.IsOffplan {
			return fmt.Errorf("%w: property %d is not off-plan", ErrInvalidTerms, propertyID)
		}
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
		existing, err := findPlan(tx, propertyID, actor.Address)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.IsOpen() {
				return ErrAlreadyHasOpenPlan
			}
			return fmt.Errorf("%w: installment plan already completed", ErrInvalidTerms)
		}
		if err := checkSupply(p, percent); err != nil {
			return err
		}
		total := shareCost(p, percent)
		if err := s.requireBalance(ctx, tx, actor.Address, firstPayment); err != nil {
			return err
		}
		if firstPayment <= 0 || firstPayment > total {
			return fmt.Errorf("%w: first payment must be between 1 and %d", ErrInvalidTerms, total)
		}
		if err := s.pull(ctx, tx, actor.Address, firstPayment); err != nil {
			return err
		}

		plan = domain.InstallmentPlan{
			PropertyID:    propertyID,
			Holder:        actor.Address,
			Percent:       percent,
			TotalOwed:     total,
			RemainingOwed: total - firstPayment,
			Status:        domain.PlanOpen,
		}
		if plan.RemainingOwed == 0 {
			now := time.Now()
			plan.Status = domain.PlanCompleted
			plan.CompletedAt = &now
		}
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}
		if err := addSale(tx, p, percent, firstPayment); err != nil {
			return err
		}
		if _, err := creditHolding(tx, propertyID, actor.Address, percent); err != nil {
			return err
		}
		if err := emit(tx, &propertyID, domain.EventInstallmentPlanOpened, actor.Address, map[string]interface{}{
			"property_id":    propertyID,
			"holder":         actor.Address,
			"percent":        percent,
			"total_owed":     total,
			"first_payment":  firstPayment,
			"remaining_owed": plan.RemainingOwed,
		}); err != nil {
			return err
		}
		if plan.Status == domain.PlanCompleted {
			return emitPlanCompleted(tx, &plan)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// PayInstallment collects the next installment of the actor's open plan: a sixth of
// the remaining balance. A zero installment moves no funds but is still counted.
func (s *Service) PayInstallment(ctx context.Context, actor Actor, propertyID uint64) (*domain.InstallmentPlan, int64, error) {
	if err := requireActor(actor); err != nil {
		return nil, 0, err
	}
	unlock := s.locks.Lock(propertyID)
	defer unlock()

	var (
		plan *domain.InstallmentPlan
		due  int64
	)
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		p, err := lockProperty(tx, propertyID)
		if err != nil {
			return err
		}
		plan, err = findPlan(tx, propertyID, actor.Address)
		if err != nil {
			return err
		}
		if plan == nil || !plan.IsOpen() {
			return ErrNoOpenPlan
		}
		due = plan.NextDue()
		if due > 0 {
			if err := s.requireBalance(ctx, tx, actor.Address, due); err != nil {
				return err
			}
			if err := s.pull(ctx, tx, actor.Address, due); err != nil {
				return err
			}
		}

		now := time.Now()
		plan.RemainingOwed -= due
		plan.InstallmentsPaid++
		updates := map[string]interface{}{
			"remaining_owed":    plan.RemainingOwed,
			"installments_paid": plan.InstallmentsPaid,
			"updatedAt":         now,
		}
		if plan.RemainingOwed == 0 {
			plan.Status = domain.PlanCompleted
			plan.CompletedAt = &now
			updates["status"] = string(plan.Status)
			updates["completed_at"] = now
		}
		if err := tx.Model(plan).Updates(updates).Error; err != nil {
			return err
		}
		if err := addSale(tx, p, 0, due); err != nil {
			return err
		}
		if err := emit(tx, &propertyID, domain.EventInstallmentPaid, actor.Address, map[string]interface{}{
			"property_id":       propertyID,
			"holder":            actor.Address,
			"amount":            due,
			"remaining_owed":    plan.RemainingOwed,
			"installments_paid": plan.InstallmentsPaid,
		}); err != nil {
			return err
		}
		if plan.Status == domain.PlanCompleted {
			return emitPlanCompleted(tx, plan)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return plan, due, nil
}

// GetPlan returns the holder's plan on a property, open or completed.
func (s *Service) GetPlan(ctx context.Context, propertyID uint64, holder string) (*domain.InstallmentPlan, error) {
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	plan, err := findPlan(s.DB.WithContext(ctx), propertyID, holder)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNoOpenPlan
	}
	return plan, nil
}

// PlansOf lists every installment plan of the holder.
func (s *Service) PlansOf(ctx context.Context, holder string) ([]domain.InstallmentPlan, error) {
	var out []domain.InstallmentPlan
	err := s.DB.WithContext(ctx).Where("holder = ?", holder).Order("property_id ASC").Find(&out).Error
	return out, err
}

func findPlan(tx *gorm.DB, propertyID uint64, holder string) (*domain.InstallmentPlan, error) {
	var plan domain.InstallmentPlan
	err := tx.Where("property_id = ? AND holder = ?", propertyID, holder).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func emitPlanCompleted(tx *gorm.DB, plan *domain.InstallmentPlan) error {
	return emit(tx, &plan.PropertyID, domain.EventInstallmentPlanCompleted, plan.Holder, map[string]interface{}{
		"property_id":       plan.PropertyID,
		"holder":            plan.Holder,
		"total_owed":        plan.TotalOwed,
		"installments_paid": plan.InstallmentsPaid,
	})
}
