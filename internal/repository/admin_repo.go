package repository

import (
	"referly/internal/domain"
	"referly/internal/models"

	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalUsers          int64 `json:"total_users"`
	TotalSeekers        int64 `json:"total_seekers"`
	TotalEmployers      int64 `json:"total_employers"`
	OpenJobs            int64 `json:"open_jobs"`
	OpenReferrals       int64 `json:"open_referrals"`
	CompletedReferrals  int64 `json:"completed_referrals"`
	PendingWithdrawals  int64 `json:"pending_withdrawals"`
	TotalBalanceCents   int64 `json:"total_balance_cents"`
	ActiveHoldCents     int64 `json:"active_hold_cents"`
	CompletedRecharges  int64 `json:"completed_recharges"`
	RechargeVolumeCents int64 `json:"recharge_volume_cents"`
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	var s DashboardStats
	r.db.Model(&models.User{}).Count(&s.TotalUsers)
	r.db.Model(&models.User{}).Where("role = ?", domain.RoleSeeker).Count(&s.TotalSeekers)
	r.db.Model(&models.User{}).Where("role = ?", domain.RoleEmployer).Count(&s.TotalEmployers)
	r.db.Model(&models.Job{}).Where("status = ?", domain.JobStatusOpen).Count(&s.OpenJobs)
	r.db.Model(&models.ReferralRequest{}).Where("status = ?", domain.ReferralStatusOpen).Count(&s.OpenReferrals)
	r.db.Model(&models.ReferralRequest{}).Where("status = ?", domain.ReferralStatusCompleted).Count(&s.CompletedReferrals)
	r.db.Model(&models.WithdrawalRequest{}).Where("status = ?", domain.WithdrawalStatusPending).Count(&s.PendingWithdrawals)
	r.db.Model(&models.Wallet{}).Select("COALESCE(SUM(balance_cents), 0)").Scan(&s.TotalBalanceCents)
	r.db.Model(&models.WalletHold{}).Where("status = ?", domain.HoldStatusActive).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&s.ActiveHoldCents)
	r.db.Model(&models.RechargeOrder{}).Where("status = ?", domain.RechargeStatusCompleted).Count(&s.CompletedRecharges)
	r.db.Model(&models.RechargeOrder{}).Where("status = ?", domain.RechargeStatusCompleted).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&s.RechargeVolumeCents)
	return &s, nil
}

func (r *AdminRepository) ListUsers(search, role string, limit, offset int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("email LIKE ? OR username LIKE ? OR full_name LIKE ?", like, like, like)
	}
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

// SetWalletStatus suspends or reactivates a user's wallet.
func (r *AdminRepository) SetWalletStatus(userID uint, status string) error {
	res := r.db.Model(&models.Wallet{}).Where("user_id = ?", userID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
