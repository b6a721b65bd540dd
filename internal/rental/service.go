package rental

import (
	"context"
	"errors"
	"fmt"
	"math"

	"brickblock-backend/internal/domain"
	"brickblock-backend/internal/infrastructure/database"
	"brickblock-backend/internal/stablecoin"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Accounting bounds: every amount multiplied by a percent must stay inside int64.
const (
	MaxPrice    = math.MaxInt64 / (domain.PriceScale * domain.MaxPercent)
	MaxRentPool = math.MaxInt64 / domain.MaxPercent
)

// Actor is the caller of a ledger operation.
type Actor struct {
	Address string
	Admin   bool
}

// Service is the rental ledger: property registry, share ledger, installment plans,
// rent distribution and the minting gate. Every mutating call runs in one database
// transaction together with its stablecoin movements.
type Service struct {
	DB      *gorm.DB
	Custody string
	Schemes []string
	// Rail binds the stablecoin rail to a transaction. Defaults to the database ledger.
	Rail func(tx *gorm.DB) stablecoin.Rail

	locks keyedMutex
}

func NewService(db *gorm.DB, custody string, schemes []string) *Service {
	return &Service{DB: db, Custody: custody, Schemes: schemes}
}

func (s *Service) rail(tx *gorm.DB) stablecoin.Rail {
	if s.Rail != nil {
		return s.Rail(tx)
	}
	return stablecoin.NewLedger(tx)
}

func (s *Service) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return database.WithRetry(ctx, func() error {
		return s.DB.WithContext(ctx).Transaction(fn)
	})
}

// lockProperty loads the property row, taking a row lock where the database supports it.
func lockProperty(tx *gorm.DB, id uint64) (*domain.Property, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p domain.Property
	if err := q.Where("property_id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

func requireActor(actor Actor) error {
	if actor.Address == "" {
		return ErrUnauthorized
	}
	return nil
}

func requireAdmin(actor Actor) error {
	if actor.Address == "" || !actor.Admin {
		return ErrUnauthorized
	}
	return nil
}

func (s *Service) requireBalance(ctx context.Context, tx *gorm.DB, holder string, amount int64) error {
	bal, err := s.rail(tx).BalanceOf(ctx, holder)
	if err != nil {
		return err
	}
	if bal < amount {
		return fmt.Errorf("%w: balance %d, need %d", ErrInsufficientBalance, bal, amount)
	}
	return nil
}

// pull moves amount from holder into custody using the allowance holder granted custody.
func (s *Service) pull(ctx context.Context, tx *gorm.DB, holder string, amount int64) error {
	return railErr(s.rail(tx).TransferFrom(ctx, s.Custody, holder, s.Custody, amount))
}

func railErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, stablecoin.ErrInsufficientBalance) || errors.Is(err, stablecoin.ErrInsufficientAllowance) {
		return fmt.Errorf("%w: %v", ErrInsufficientBalance, err)
	}
	return err
}
