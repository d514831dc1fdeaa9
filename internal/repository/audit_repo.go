package repository

import (
	"referly/internal/models"

	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(l *models.AuditLog) error {
	return r.db.Create(l).Error
}

func (r *AuditLogRepository) List(action string, limit, offset int) ([]models.AuditLog, error) {
	q := r.db.Order("created_at DESC")
	if action != "" {
		q = q.Where("action = ?", action)
	}
	var list []models.AuditLog
	err := q.Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
