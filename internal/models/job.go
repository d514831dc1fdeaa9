package models

import (
	"time"

	"gorm.io/gorm"
)

type Job struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	EmployerID     uint           `gorm:"not null;index" json:"employer_id"`
	Title          string         `gorm:"size:128;not null" json:"title"`
	Company        string         `gorm:"size:128;not null" json:"company"`
	Location       string         `gorm:"size:128;index" json:"location"`
	Description    string         `gorm:"type:text" json:"description"`
	Skills         string         `gorm:"size:512" json:"skills"` // comma-separated
	SalaryMinCents int64          `json:"salary_min_cents"`
	SalaryMaxCents int64          `json:"salary_max_cents"`
	Status         string         `gorm:"size:20;not null;index" json:"status"` // OPEN, CLOSED
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Employer User `gorm:"foreignKey:EmployerID" json:"-"`
}

func (Job) TableName() string { return "jobs" }

type Application struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	JobID     uint           `gorm:"not null;index:idx_app_job_user,unique" json:"job_id"`
	UserID    uint           `gorm:"not null;index:idx_app_job_user,unique" json:"user_id"`
	ResumeURL string         `gorm:"size:512" json:"resume_url"`
	CoverNote string         `gorm:"type:text" json:"cover_note"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // APPLIED, REVIEWING, OFFERED, REJECTED
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Job  Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"applicant,omitempty"`
}

func (Application) TableName() string { return "applications" }
