package domain

import "time"

// Account is a login identity. Address doubles as the stablecoin address of the account.
type Account struct {
	Address      string    `gorm:"column:address;size:128;primaryKey" json:"address"`
	Role         string    `gorm:"column:role;type:varchar(20);not null" json:"role"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Account) TableName() string {
	return "Accounts"
}
