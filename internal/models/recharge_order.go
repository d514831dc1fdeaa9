package models

import (
	"time"

	"gorm.io/gorm"
)

// RechargeOrder is a pending top-up tied to a gateway order. PaymentID is
// unique so a payment confirmation can only ever credit the wallet once.
type RechargeOrder struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	AmountCents     int64          `gorm:"not null" json:"amount_cents"`
	Currency        string         `gorm:"size:3;default:'INR'" json:"currency"`
	ProviderOrderID string         `gorm:"size:128;uniqueIndex;not null" json:"provider_order_id"`
	PaymentID       *string        `gorm:"size:128;uniqueIndex" json:"payment_id"` // set at verification; nil while pending
	Status          string         `gorm:"size:20;not null;index" json:"status"`   // PENDING, COMPLETED, FAILED
	ExpiresAt       *time.Time     `json:"expires_at"`
	CompletedAt     *time.Time     `json:"completed_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (RechargeOrder) TableName() string {
	return "recharge_orders"
}
