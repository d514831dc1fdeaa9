package repository

import (
	"referly/internal/domain"
	"referly/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) Create(req *models.ReferralRequest) error {
	return r.db.Create(req).Error
}

func (r *ReferralRepository) GetByID(id uint) (*models.ReferralRequest, error) {
	var req models.ReferralRequest
	err := r.db.First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *ReferralRepository) Update(req *models.ReferralRequest) error {
	return r.db.Save(req).Error
}

// UpdateStatusIf transitions status only when the row is still in fromStatus.
// Returns gorm.ErrRecordNotFound when the guard does not match, so two
// concurrent claims cannot both win.
func (r *ReferralRepository) UpdateStatusIf(id uint, fromStatus string, updates map[string]interface{}) error {
	res := r.db.Model(&models.ReferralRequest{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListOpen returns the marketplace feed, newest first.
func (r *ReferralRepository) ListOpen(company string, limit, offset int) ([]models.ReferralRequest, error) {
	q := r.db.Where("status = ?", domain.ReferralStatusOpen).Preload("Requester")
	if company != "" {
		q = q.Where("company LIKE ?", "%"+company+"%")
	}
	var list []models.ReferralRequest
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ReferralRepository) ListByRequester(requesterID uint, limit, offset int) ([]models.ReferralRequest, error) {
	var list []models.ReferralRequest
	err := r.db.Where("requester_id = ?", requesterID).Preload("Referrer").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ReferralRepository) ListByReferrer(referrerID uint, limit, offset int) ([]models.ReferralRequest, error) {
	var list []models.ReferralRequest
	err := r.db.Where("referrer_id = ?", referrerID).Preload("Requester").
		Order("claimed_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ReferralRepository) CountByReferrerAndStatus(referrerID uint, status string) (int64, error) {
	var n int64
	err := r.db.Model(&models.ReferralRequest{}).
		Where("referrer_id = ? AND status = ?", referrerID, status).Count(&n).Error
	return n, err
}
