package domain

import (
	"time"

	"github.com/google/uuid"
)

// RentPayout is one holder's share of a rent distribution.
type RentPayout struct {
	PayoutID       uint64    `gorm:"column:payout_id;primaryKey;autoIncrement" json:"payout_id"`
	DistributionID uuid.UUID `gorm:"column:distribution_id;type:uuid;not null;index" json:"distribution_id"`
	PropertyID     uint64    `gorm:"column:property_id;not null;index" json:"property_id"`
	Holder         string    `gorm:"column:holder;size:128;not null;index" json:"holder"`
	Percent        int       `gorm:"column:percent;not null" json:"percent"`
	Amount         int64     `gorm:"column:amount;not null" json:"amount"`
	CreatedAt      time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (RentPayout) TableName() string {
	return "RentPayouts"
}
