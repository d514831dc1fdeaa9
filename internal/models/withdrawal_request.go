package models

import (
	"time"

	"gorm.io/gorm"
)

// WithdrawalRequest is a payout of withdrawable (referral-earned) balance.
// Funds are deducted up front; a rejection refunds them. The actual transfer
// happens outside the system after admin approval.
type WithdrawalRequest struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	OrderID       string         `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	AmountCents   int64          `gorm:"not null" json:"amount_cents"`
	PayoutDetails string         `gorm:"size:512;not null" json:"payout_details"` // UPI id / bank account, free-form
	Status        string         `gorm:"size:20;not null;index" json:"status"`    // PENDING, PAID, REJECTED
	AdminNote     string         `gorm:"size:255" json:"admin_note"`
	ResolvedAt    *time.Time     `json:"resolved_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
