package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralRequest is a seeker's paid ask: "refer me to this company/role for
// this reward". Claiming it places a hold on the requester's wallet; the hold
// converts to a real debit when the requester confirms the referral happened.
type ReferralRequest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RequesterID uint           `gorm:"not null;index" json:"requester_id"`
	ReferrerID  *uint          `gorm:"index" json:"referrer_id"` // set when claimed
	Company     string         `gorm:"size:128;not null" json:"company"`
	RoleTitle   string         `gorm:"size:128;not null" json:"role_title"`
	JobURL      string         `gorm:"size:512" json:"job_url"`
	Note        string         `gorm:"type:text" json:"note"`
	RewardCents int64          `gorm:"not null" json:"reward_cents"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // OPEN, CLAIMED, COMPLETED, CANCELLED
	ClaimedAt   *time.Time     `json:"claimed_at"`
	ResolvedAt  *time.Time     `json:"resolved_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Requester User  `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Referrer  *User `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
}

func (ReferralRequest) TableName() string { return "referral_requests" }
