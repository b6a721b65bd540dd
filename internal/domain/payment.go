package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Deposit is a stablecoin top-up reported by the rail webhook. EventID makes it idempotent.
type Deposit struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EventID    string         `gorm:"column:event_id;uniqueIndex;not null" json:"event_id"`
	Address    string         `gorm:"column:address;not null;index" json:"address"`
	Amount     int64          `gorm:"column:amount;not null" json:"amount"`
	Status     string         `gorm:"column:status;not null" json:"status"`
	RawPayload datatypes.JSON `gorm:"column:raw_payload;not null" json:"raw_payload"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (Deposit) TableName() string {
	return "Deposits"
}

func (d *Deposit) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
