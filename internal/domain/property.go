package domain

import (
	"time"
)

// PriceScale is the fixed-point factor applied to every stablecoin amount (6 implied decimals).
const PriceScale int64 = 1_000_000

// MaxPercent is the total supply of a property expressed in ownership percent.
const MaxPercent = 100

// Property is a listed rental property. Counters are only ever moved by the rental service.
type Property struct {
	PropertyID      uint64    `gorm:"column:property_id;primaryKey;autoIncrement" json:"property_id"`
	MetadataURI     string    `gorm:"column:metadata_uri;type:text;not null" json:"-"`
	PriceScaled     int64     `gorm:"column:price_scaled;not null" json:"price_scaled"`
	Seed            int64     `gorm:"column:seed;not null;default:0" json:"seed"`
	IsOffplan       bool      `gorm:"column:is_offplan;not null;default:false;index" json:"is_offplan"`
	AmountMinted    int       `gorm:"column:amount_minted;not null;default:0" json:"amount_minted"`
	AmountGenerated int64     `gorm:"column:amount_generated;not null;default:0" json:"amount_generated"`
	RentPool        int64     `gorm:"column:rent_pool;not null;default:0" json:"rent_pool"`
	CreatedBy       string    `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt       time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Property) TableName() string {
	return "Properties"
}

// RemainingSupply is the percent still available for sale.
func (p *Property) RemainingSupply() int {
	return MaxPercent - p.AmountMinted
}

// NormalURI returns the metadata pointer for standard listings, empty for off-plan ones.
func (p *Property) NormalURI() string {
	if p.IsOffplan {
		return ""
	}
	return p.MetadataURI
}

// OffplanURI returns the metadata pointer for off-plan listings, empty for standard ones.
func (p *Property) OffplanURI() string {
	if !p.IsOffplan {
		return ""
	}
	return p.MetadataURI
}
