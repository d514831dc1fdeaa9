package repository

import (
	"referly/internal/models"

	"gorm.io/gorm"
)

type EmployerRepository struct {
	db *gorm.DB
}

func NewEmployerRepository(db *gorm.DB) *EmployerRepository {
	return &EmployerRepository{db: db}
}

func (r *EmployerRepository) GetByUserID(userID uint) (*models.EmployerProfile, error) {
	var p models.EmployerProfile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *EmployerRepository) Upsert(p *models.EmployerProfile) error {
	existing, err := r.GetByUserID(p.UserID)
	if err == nil {
		p.ID = existing.ID
		return r.db.Save(p).Error
	}
	return r.db.Create(p).Error
}
