package models

import (
	"time"

	"gorm.io/gorm"
)

// EmployerProfile holds company details for EMPLOYER accounts.
type EmployerProfile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	CompanyName string         `gorm:"size:128;not null" json:"company_name"`
	Website     string         `gorm:"size:255" json:"website"`
	About       string         `gorm:"type:text" json:"about"`
	LogoURL     string         `gorm:"size:512" json:"logo_url"`
	Verified    bool           `gorm:"default:false" json:"verified"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (EmployerProfile) TableName() string { return "employer_profiles" }
