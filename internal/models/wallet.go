package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet is created lazily on first access, one per user. Version is an
// optimistic lock: every balance-mutating write bumps it and must match the
// value it read, so concurrent writers against the same wallet serialize.
type Wallet struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	BalanceCents      int64          `gorm:"not null;default:0" json:"balance_cents"`
	WithdrawableCents int64          `gorm:"not null;default:0" json:"withdrawable_cents"` // referral earnings eligible for payout
	Currency          string         `gorm:"size:3;default:'INR'" json:"currency"`
	Status            string         `gorm:"size:20;not null;default:'ACTIVE'" json:"status"` // ACTIVE, SUSPENDED
	Version           int64          `gorm:"not null;default:0" json:"-"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}
