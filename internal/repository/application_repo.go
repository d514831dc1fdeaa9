package repository

import (
	"referly/internal/models"

	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(a *models.Application) error {
	return r.db.Create(a).Error
}

func (r *ApplicationRepository) GetByID(id uint) (*models.Application, error) {
	var a models.Application
	err := r.db.Preload("Job").First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApplicationRepository) GetByJobAndUser(jobID, userID uint) (*models.Application, error) {
	var a models.Application
	err := r.db.Where("job_id = ? AND user_id = ?", jobID, userID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApplicationRepository) Update(a *models.Application) error {
	return r.db.Save(a).Error
}

func (r *ApplicationRepository) ListByUser(userID uint, limit, offset int) ([]models.Application, error) {
	var list []models.Application
	err := r.db.Where("user_id = ?", userID).Preload("Job").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ApplicationRepository) ListByJob(jobID uint, limit, offset int) ([]models.Application, error) {
	var list []models.Application
	err := r.db.Where("job_id = ?", jobID).Preload("User").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
