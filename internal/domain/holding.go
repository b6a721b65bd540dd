package domain

import (
	"time"
)

// Holding is a holder's ownership percent in one property. The holdings of a property
// ordered by Seq form its holder list: a row is only created on the first purchase.
type Holding struct {
	HoldingID    uint64    `gorm:"column:holding_id;primaryKey;autoIncrement" json:"-"`
	PropertyID   uint64    `gorm:"column:property_id;not null;uniqueIndex:ux_holdings_property_holder" json:"property_id"`
	Holder       string    `gorm:"column:holder;size:128;not null;uniqueIndex:ux_holdings_property_holder;index" json:"holder"`
	PercentOwned int       `gorm:"column:percent_owned;not null;default:0" json:"percent_owned"`
	Seq          int       `gorm:"column:seq;not null" json:"seq"`
	CreatedAt    time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Holding) TableName() string {
	return "Holdings"
}
