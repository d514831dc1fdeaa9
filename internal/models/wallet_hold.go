package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletHold reserves funds against a wallet for a claimed referral request.
// ACTIVE holds reduce the available balance without touching the ledger.
// CONVERTED and RELEASED are terminal.
type WalletHold struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	WalletID          uint           `gorm:"not null;index" json:"wallet_id"`
	ReferralRequestID uint           `gorm:"not null;index" json:"referral_request_id"`
	AmountCents       int64          `gorm:"not null" json:"amount_cents"`
	Status            string         `gorm:"size:20;not null;index" json:"status"` // ACTIVE, CONVERTED, RELEASED
	ResolvedAt        *time.Time     `json:"resolved_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Wallet Wallet `gorm:"foreignKey:WalletID" json:"-"`
}

func (WalletHold) TableName() string {
	return "wallet_holds"
}
