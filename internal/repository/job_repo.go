package repository

import (
	"referly/internal/domain"
	"referly/internal/models"

	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(j *models.Job) error {
	return r.db.Create(j).Error
}

func (r *JobRepository) GetByID(id uint) (*models.Job, error) {
	var j models.Job
	err := r.db.First(&j, id).Error
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) Update(j *models.Job) error {
	return r.db.Save(j).Error
}

func (r *JobRepository) Delete(id, employerID uint) error {
	res := r.db.Where("id = ? AND employer_id = ?", id, employerID).Delete(&models.Job{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// JobFilter narrows the public listing.
type JobFilter struct {
	Query      string
	Location   string
	EmployerID uint
}

func (r *JobRepository) List(f JobFilter, limit, offset int) ([]models.Job, int64, error) {
	q := r.db.Model(&models.Job{}).Where("status = ?", domain.JobStatusOpen)
	if f.EmployerID != 0 {
		q = r.db.Model(&models.Job{}).Where("employer_id = ?", f.EmployerID)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title LIKE ? OR company LIKE ? OR skills LIKE ?", like, like, like)
	}
	if f.Location != "" {
		q = q.Where("location LIKE ?", "%"+f.Location+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Job
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}
