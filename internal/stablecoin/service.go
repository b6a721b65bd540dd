package stablecoin

import (
	"context"

	"brickblock-backend/internal/domain"

	"gorm.io/gorm"
)

// Service exposes the database ledger to investors: balances, approvals, history.
type Service struct {
	DB      *gorm.DB
	Custody string
	Symbol  string
}

// Info describes the token the rental ledger settles in.
type Info struct {
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	Custody  string `json:"custody_address"`
}

func (s *Service) Info() Info {
	return Info{Symbol: s.Symbol, Decimals: 6, Custody: s.Custody}
}

// Balance returns the balance of address and what the custody account may pull from it.
func (s *Service) Balance(ctx context.Context, address string) (map[string]interface{}, error) {
	l := NewLedger(s.DB)
	bal, err := l.BalanceOf(ctx, address)
	if err != nil {
		return nil, err
	}
	allowance, err := l.Allowance(ctx, address, s.Custody)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"address":   address,
		"balance":   bal,
		"allowance": allowance,
		"spender":   s.Custody,
	}, nil
}

// ApproveCustody authorizes the custody account to pull up to amount from owner.
func (s *Service) ApproveCustody(ctx context.Context, owner string, amount int64) error {
	return NewLedger(s.DB).Approve(ctx, owner, s.Custody, amount)
}

func (s *Service) Transfers(ctx context.Context, address string, limit int) ([]domain.TokenTransfer, error) {
	return NewLedger(s.DB).Transfers(ctx, address, limit)
}
