package repository

import (
	"referly/internal/domain"
	"referly/internal/models"

	"gorm.io/gorm"
)

// WalletRepository is read-side access to wallets, holds and the ledger.
// All balance-mutating writes go through service.WalletService, which owns
// the transactional discipline.
type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetHold(id uint) (*models.WalletHold, error) {
	var h models.WalletHold
	err := r.db.First(&h, id).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *WalletRepository) GetActiveHoldByRequest(requestID uint) (*models.WalletHold, error) {
	var h models.WalletHold
	err := r.db.Where("referral_request_id = ? AND status = ?", requestID, domain.HoldStatusActive).First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *WalletRepository) ListHolds(walletID uint, status string, limit, offset int) ([]models.WalletHold, error) {
	q := r.db.Where("wallet_id = ?", walletID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.WalletHold
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ActiveHoldSum returns the total of ACTIVE holds against a wallet.
func (r *WalletRepository) ActiveHoldSum(walletID uint) (int64, error) {
	var sum int64
	err := r.db.Model(&models.WalletHold{}).
		Where("wallet_id = ? AND status = ?", walletID, domain.HoldStatusActive).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&sum).Error
	return sum, err
}

func (r *WalletRepository) ListTransactions(walletID uint, typeFilter string, limit, offset int) ([]models.WalletTransaction, int64, error) {
	q := r.db.Model(&models.WalletTransaction{}).Where("wallet_id = ?", walletID)
	if typeFilter != "" {
		q = q.Where("type = ?", typeFilter)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.WalletTransaction
	err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

// LedgerSum returns the signed total of all ledger rows for a wallet.
func (r *WalletRepository) LedgerSum(walletID uint) (int64, error) {
	var sum int64
	err := r.db.Model(&models.WalletTransaction{}).
		Where("wallet_id = ?", walletID).
		Select("COALESCE(SUM(CASE WHEN type = 'DEBIT' THEN -amount_cents ELSE amount_cents END), 0)").
		Scan(&sum).Error
	return sum, err
}
