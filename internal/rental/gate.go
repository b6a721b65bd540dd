package rental

import (
	"context"
	"errors"
	"time"

	"brickblock-backend/internal/domain"

	"gorm.io/gorm"
)

// Pause switches minting off (true) or back on (false). Installment payments and rent
// flows are not gated.
func (s *Service) Pause(ctx context.Context, actor Actor, paused bool) (*domain.LedgerState, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	var state domain.LedgerState
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		state = domain.LedgerState{ID: domain.LedgerStateID}
		if err := tx.Where(domain.LedgerState{ID: domain.LedgerStateID}).FirstOrCreate(&state).Error; err != nil {
			return err
		}
		state.MintingPaused = paused
		state.UpdatedBy = actor.Address
		state.UpdatedAt = time.Now()
		if err := tx.Save(&state).Error; err != nil {
			return err
		}
		evt := domain.EventMintingResumed
		if paused {
			evt = domain.EventMintingPaused
		}
		return emit(tx, nil, evt, actor.Address, map[string]interface{}{"paused": paused})
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Paused reports whether minting is currently switched off.
func (s *Service) Paused(ctx context.Context) (bool, error) {
	return mintingPaused(s.DB.WithContext(ctx))
}

// State returns the ledger state row; a missing row reads as the zero state.
func (s *Service) State(ctx context.Context) (*domain.LedgerState, error) {
	var state domain.LedgerState
	err := s.DB.WithContext(ctx).Where("id = ?", domain.LedgerStateID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.LedgerState{ID: domain.LedgerStateID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func mintingPaused(tx *gorm.DB) (bool, error) {
	var state domain.LedgerState
	err := tx.Where("id = ?", domain.LedgerStateID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return state.MintingPaused, nil
}
