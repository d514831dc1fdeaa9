package models

import (
	"time"

	"referly/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Username        string         `gorm:"uniqueIndex;size:64;not null;default:''" json:"username"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string         `gorm:"size:255" json:"-"`
	Role            string         `gorm:"size:20;not null;index" json:"role"` // SEEKER | EMPLOYER | ADMIN
	FullName        string         `gorm:"size:128" json:"full_name"`
	Headline        string         `gorm:"size:255" json:"headline"` // e.g. "Backend engineer, 6 yrs"
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	GoogleID        *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	AvatarURL       string         `gorm:"size:512" json:"avatar_url"`
	ResumeURL       string         `gorm:"size:512" json:"resume_url"`
	FCMToken        string         `gorm:"size:512" json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	EmployerProfile *EmployerProfile `gorm:"foreignKey:UserID" json:"employer_profile,omitempty"`
}

func (u *User) IsSeeker() bool   { return u.Role == domain.RoleSeeker }
func (u *User) IsEmployer() bool { return u.Role == domain.RoleEmployer }
func (u *User) IsAdmin() bool    { return u.Role == domain.RoleAdmin }
