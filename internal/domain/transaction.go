package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transfer kinds recorded by the stablecoin ledger.
const (
	TransferKindTransfer     = "transfer"
	TransferKindTransferFrom = "transfer_from"
	TransferKindDeposit      = "deposit"
)

// TokenBalance is the stablecoin balance of one address.
type TokenBalance struct {
	Address   string    `gorm:"column:address;size:128;primaryKey" json:"address"`
	Balance   int64     `gorm:"column:balance;not null;default:0" json:"balance"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (TokenBalance) TableName() string {
	return "TokenBalances"
}

// TokenAllowance is the amount Spender may pull from Owner.
type TokenAllowance struct {
	Owner     string    `gorm:"column:owner;size:128;primaryKey" json:"owner"`
	Spender   string    `gorm:"column:spender;size:128;primaryKey" json:"spender"`
	Amount    int64     `gorm:"column:amount;not null;default:0" json:"amount"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (TokenAllowance) TableName() string {
	return "TokenAllowances"
}

type TokenTransfer struct {
	TxID      uuid.UUID `gorm:"column:tx_id;type:uuid;primaryKey" json:"tx_id"`
	Kind      string    `gorm:"column:kind;type:varchar(20);not null" json:"kind"`
	From      *string   `gorm:"column:from_address;index" json:"from"`
	To        string    `gorm:"column:to_address;not null;index" json:"to"`
	Spender   *string   `gorm:"column:spender" json:"spender"`
	Amount    int64     `gorm:"column:amount;not null" json:"amount"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (TokenTransfer) TableName() string {
	return "TokenTransfers"
}

func (t *TokenTransfer) BeforeCreate(tx *gorm.DB) error {
	if t.TxID == uuid.Nil {
		t.TxID = uuid.New()
	}
	return nil
}
