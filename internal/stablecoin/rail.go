package stablecoin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"brickblock-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Rail is the fungible-token interface the rental ledger settles through.
type Rail interface {
	BalanceOf(ctx context.Context, holder string) (int64, error)
	Allowance(ctx context.Context, owner, spender string) (int64, error)
	Approve(ctx context.Context, owner, spender string, amount int64) error
	Transfer(ctx context.Context, from, to string, amount int64) error
	TransferFrom(ctx context.Context, spender, from, to string, amount int64) error
}

// Ledger is a Rail kept in the application database. Binding it to a transaction
// makes token movements commit or roll back together with the caller's bookkeeping.
type Ledger struct {
	db *gorm.DB
}

var _ Rail = (*Ledger)(nil)

func NewLedger(db *gorm.DB) *Ledger { return &Ledger{db: db} }

// Models lists the tables owned by the ledger, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{&domain.TokenBalance{}, &domain.TokenAllowance{}, &domain.TokenTransfer{}, &domain.Deposit{}}
}

func (l *Ledger) BalanceOf(ctx context.Context, holder string) (int64, error) {
	var b domain.TokenBalance
	err := l.db.WithContext(ctx).Where("address = ?", holder).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return b.Balance, nil
}

func (l *Ledger) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	var a domain.TokenAllowance
	err := l.db.WithContext(ctx).Where("owner = ? AND spender = ?", owner, spender).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return a.Amount, nil
}

// Approve sets (not adds to) the allowance of spender over owner's balance.
func (l *Ledger) Approve(ctx context.Context, owner, spender string, amount int64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	if err := validAddress(owner); err != nil {
		return err
	}
	if err := validAddress(spender); err != nil {
		return err
	}
	return l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}, {Name: "spender"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updatedAt"}),
	}).Create(&domain.TokenAllowance{Owner: owner, Spender: spender, Amount: amount, UpdatedAt: time.Now()}).Error
}

func (l *Ledger) Transfer(ctx context.Context, from, to string, amount int64) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := &Ledger{db: tx}
		if err := inner.move(ctx, from, to, amount); err != nil {
			return err
		}
		return inner.record(ctx, domain.TransferKindTransfer, &from, to, nil, amount)
	})
}

// TransferFrom moves amount from `from` to `to`, spending spender's allowance. The
// allowance is decremented in place only while it still covers amount, so two pulls
// racing on the same allowance cannot both spend it.
func (l *Ledger) TransferFrom(ctx context.Context, spender, from, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.TokenAllowance{}).
			Where("owner = ? AND spender = ? AND amount >= ?", from, spender, amount).
			Updates(map[string]interface{}{"amount": gorm.Expr("amount - ?", amount), "updatedAt": time.Now()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: need %d", ErrInsufficientAllowance, amount)
		}
		inner := &Ledger{db: tx}
		if err := inner.move(ctx, from, to, amount); err != nil {
			return err
		}
		return inner.record(ctx, domain.TransferKindTransferFrom, &from, to, &spender, amount)
	})
}

// Credit mints amount to address. Used for deposits reported by the rail.
func (l *Ledger) Credit(ctx context.Context, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := validAddress(to); err != nil {
		return err
	}
	if err := l.add(ctx, to, amount); err != nil {
		return err
	}
	return l.record(ctx, domain.TransferKindDeposit, nil, to, nil, amount)
}

// Transfers returns the movements touching address, newest first.
func (l *Ledger) Transfers(ctx context.Context, address string, limit int) ([]domain.TokenTransfer, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.TokenTransfer
	err := l.db.WithContext(ctx).
		Where("from_address = ? OR to_address = ?", address, address).
		Order(`"createdAt" DESC`).
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (l *Ledger) move(ctx context.Context, from, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := validAddress(from); err != nil {
		return err
	}
	if err := validAddress(to); err != nil {
		return err
	}
	if from == to {
		return ErrSelfTransfer
	}
	res := l.db.WithContext(ctx).Model(&domain.TokenBalance{}).
		Where("address = ? AND balance >= ?", from, amount).
		Updates(map[string]interface{}{"balance": gorm.Expr("balance - ?", amount), "updatedAt": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return l.add(ctx, to, amount)
}

// add credits amount to `to`, refusing to push the balance past MaxInt64.
func (l *Ledger) add(ctx context.Context, to string, amount int64) error {
	res := l.db.WithContext(ctx).Model(&domain.TokenBalance{}).
		Where("address = ? AND balance <= ?", to, math.MaxInt64-amount).
		Updates(map[string]interface{}{"balance": gorm.Expr("balance + ?", amount), "updatedAt": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := l.db.WithContext(ctx).Model(&domain.TokenBalance{}).Where("address = ?", to).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", ErrBalanceOverflow, to)
	}
	return l.db.WithContext(ctx).Create(&domain.TokenBalance{Address: to, Balance: amount, UpdatedAt: time.Now()}).Error
}

func (l *Ledger) record(ctx context.Context, kind string, from *string, to string, spender *string, amount int64) error {
	return l.db.WithContext(ctx).Create(&domain.TokenTransfer{
		Kind:    kind,
		From:    from,
		To:      to,
		Spender: spender,
		Amount:  amount,
	}).Error
}

func validAddress(addr string) error {
	if strings.TrimSpace(addr) == "" || len(addr) > 128 {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return nil
}
