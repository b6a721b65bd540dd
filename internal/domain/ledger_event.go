package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event types emitted by the rental ledger for off-system indexers.
const (
	EventPropertyMinted           = "PropertyMinted"
	EventOffplanPropertyMinted    = "OffplanPropertyMinted"
	EventRentSubmitted            = "RentSubmitted"
	EventRentDistributed          = "RentDistributed"
	EventSharesMinted             = "SharesMinted"
	EventInstallmentPlanOpened    = "InstallmentPlanOpened"
	EventInstallmentPaid          = "InstallmentPaid"
	EventInstallmentPlanCompleted = "InstallmentPlanCompleted"
	EventMintingPaused            = "MintingPaused"
	EventMintingResumed           = "MintingResumed"
)

type LedgerEvent struct {
	EventID    uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	PropertyID *uint64        `gorm:"column:property_id;index" json:"property_id"`
	EventType  string         `gorm:"column:event_type;type:varchar(40);not null" json:"event_type"`
	Actor      string         `gorm:"column:actor;not null" json:"actor"`
	EventData  datatypes.JSON `gorm:"column:event_data;not null" json:"event_data"`
	CreatedAt  time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (LedgerEvent) TableName() string {
	return "LedgerEvents"
}

func (le *LedgerEvent) BeforeCreate(tx *gorm.DB) error {
	if le.EventID == uuid.Nil {
		le.EventID = uuid.New()
	}
	return nil
}
