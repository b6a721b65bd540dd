package domain

import "time"

// LedgerStateID is the primary key of the single ledger state row.
const LedgerStateID = 1

// LedgerState holds process-wide switches of the rental ledger.
type LedgerState struct {
	ID            int       `gorm:"column:id;primaryKey" json:"-"`
	MintingPaused bool      `gorm:"column:minting_paused;not null;default:false" json:"minting_paused"`
	UpdatedBy     string    `gorm:"column:updated_by" json:"updated_by"`
	UpdatedAt     time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (LedgerState) TableName() string {
	return "LedgerState"
}
