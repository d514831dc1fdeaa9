package models

import (
	"time"
)

// WalletTransaction is an append-only ledger entry. Rows are never updated or
// deleted; the sum of signed amounts for a wallet equals its stored balance.
type WalletTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WalletID    uint      `gorm:"not null;index" json:"wallet_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Type        string    `gorm:"size:10;not null;index" json:"type"` // CREDIT | DEBIT
	AmountCents int64     `gorm:"not null" json:"amount_cents"`       // always positive; Type carries the sign
	Source      string    `gorm:"size:30;not null;index" json:"source"`
	Description string    `gorm:"size:255" json:"description"`
	Reference   string    `gorm:"size:128" json:"reference"` // e.g. recharge order id, hold id
	CreatedAt   time.Time `json:"created_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// SignedAmount returns the amount with DEBIT negated, for balance derivation.
func (t *WalletTransaction) SignedAmount() int64 {
	if t.Type == "DEBIT" {
		return -t.AmountCents
	}
	return t.AmountCents
}
