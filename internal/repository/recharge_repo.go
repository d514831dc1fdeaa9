package repository

import (
	"referly/internal/models"

	"gorm.io/gorm"
)

type RechargeRepository struct {
	db *gorm.DB
}

func NewRechargeRepository(db *gorm.DB) *RechargeRepository {
	return &RechargeRepository{db: db}
}

func (r *RechargeRepository) Create(o *models.RechargeOrder) error {
	return r.db.Create(o).Error
}

func (r *RechargeRepository) GetByProviderOrderID(orderID string) (*models.RechargeOrder, error) {
	var o models.RechargeOrder
	err := r.db.Where("provider_order_id = ?", orderID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *RechargeRepository) GetByPaymentID(paymentID string) (*models.RechargeOrder, error) {
	var o models.RechargeOrder
	err := r.db.Where("payment_id = ?", paymentID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *RechargeRepository) Update(o *models.RechargeOrder) error {
	return r.db.Save(o).Error
}

func (r *RechargeRepository) ListByUser(userID uint, limit, offset int) ([]models.RechargeOrder, error) {
	var list []models.RechargeOrder
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
