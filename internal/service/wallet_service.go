package service

import (
	"errors"
	"fmt"
	"time"

	"referly/internal/domain"
	"referly/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrHoldNotActive       = errors.New("hold is not active")
	ErrNotYours            = errors.New("resource belongs to another user")
	ErrWalletSuspended     = errors.New("wallet is suspended")
	ErrWalletConflict      = errors.New("wallet operation conflicted after retries")

	errVersionConflict = errors.New("wallet version conflict")
)

const walletRetries = 3

// Balance is the read model for GET /wallet/balance.
type Balance struct {
	BalanceCents      int64  `json:"balance_cents"`
	HoldCents         int64  `json:"hold_cents"`
	AvailableCents    int64  `json:"available_cents"`
	WithdrawableCents int64  `json:"withdrawable_cents"`
	Currency          string `json:"currency"`
}

// WalletService owns every balance-mutating sequence. Each one runs inside a
// single database transaction and serializes per wallet through the wallet's
// version counter: the write requires the version it read and bumps it, so a
// concurrent writer loses the race, sees zero rows affected, and retries on a
// fresh snapshot. Ledger rows are only ever inserted, never updated.
type WalletService struct {
	db *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db}
}

// GetOrCreate returns the user's wallet, creating an empty active one on
// first access. Idempotent.
func (s *WalletService) GetOrCreate(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := s.db.Where("user_id = ?", userID).First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = models.Wallet{UserID: userID, Currency: domain.DefaultCurrency, Status: domain.WalletStatusActive}
	if err := s.db.Create(&w).Error; err != nil {
		// lost a create race: another request made the wallet first
		var existing models.Wallet
		if err2 := s.db.Where("user_id = ?", userID).First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &w, nil
}

// GetBalance returns balance, active hold total and the spendable remainder.
// Side-effect free apart from lazy wallet creation.
func (s *WalletService) GetBalance(userID uint) (*Balance, error) {
	w, err := s.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	holdSum, err := s.activeHoldSum(s.db, w.ID)
	if err != nil {
		return nil, err
	}
	return &Balance{
		BalanceCents:      w.BalanceCents,
		HoldCents:         holdSum,
		AvailableCents:    w.BalanceCents - holdSum,
		WithdrawableCents: w.WithdrawableCents,
		Currency:          w.Currency,
	}, nil
}

// CreateHold reserves amount against the user's wallet for a referral
// request. Rejected when the available balance (balance minus active holds)
// is below the amount.
func (s *WalletService) CreateHold(userID, referralRequestID uint, amountCents int64) (*models.WalletHold, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	var hold *models.WalletHold
	err := s.withRetry(func(tx *gorm.DB) error {
		w, err := s.lockWallet(tx, userID)
		if err != nil {
			return err
		}
		holdSum, err := s.activeHoldSum(tx, w.ID)
		if err != nil {
			return err
		}
		if w.BalanceCents-holdSum < amountCents {
			return ErrInsufficientBalance
		}
		// bump the version even though balances are untouched: this is what
		// serializes two concurrent hold creations against the same wallet
		if err := s.writeWallet(tx, w, w.BalanceCents, w.WithdrawableCents); err != nil {
			return err
		}
		hold = &models.WalletHold{
			WalletID:          w.ID,
			ReferralRequestID: referralRequestID,
			AmountCents:       amountCents,
			Status:            domain.HoldStatusActive,
		}
		return tx.Create(hold).Error
	})
	if err != nil {
		return nil, err
	}
	return hold, nil
}

// ConvertHold settles an active hold: the reserved amount actually leaves the
// wallet and a debit lands in the ledger. Terminal.
func (s *WalletService) ConvertHold(holdID, ownerID uint, description string) (*models.WalletHold, error) {
	return s.resolveHold(holdID, ownerID, domain.HoldStatusConverted, description)
}

// ReleaseHold cancels an active hold. No money moves and nothing is written
// to the ledger. Terminal.
func (s *WalletService) ReleaseHold(holdID, ownerID uint) (*models.WalletHold, error) {
	return s.resolveHold(holdID, ownerID, domain.HoldStatusReleased, "")
}

func (s *WalletService) resolveHold(holdID, ownerID uint, target, description string) (*models.WalletHold, error) {
	var resolved *models.WalletHold
	err := s.withRetry(func(tx *gorm.DB) error {
		var err error
		resolved, err = s.resolveHoldTx(tx, holdID, ownerID, target, description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// resolveHoldTx settles a hold inside the caller's transaction, so callers
// can combine it with other wallet writes that must land or fail together.
func (s *WalletService) resolveHoldTx(tx *gorm.DB, holdID, ownerID uint, target, description string) (*models.WalletHold, error) {
	var hold models.WalletHold
	if err := tx.First(&hold, holdID).Error; err != nil {
		return nil, err
	}
	var w models.Wallet
	if err := tx.First(&w, hold.WalletID).Error; err != nil {
		return nil, err
	}
	if w.UserID != ownerID {
		return nil, ErrNotYours
	}
	if hold.Status != domain.HoldStatusActive {
		return nil, ErrHoldNotActive
	}
	if target == domain.HoldStatusConverted {
		newBalance := w.BalanceCents - hold.AmountCents
		if newBalance < 0 {
			// unreachable while hold creation checks available balance
			return nil, ErrInsufficientBalance
		}
		if err := s.writeWallet(tx, &w, newBalance, w.WithdrawableCents); err != nil {
			return nil, err
		}
		entry := &models.WalletTransaction{
			WalletID:    w.ID,
			UserID:      w.UserID,
			Type:        domain.TxTypeDebit,
			AmountCents: hold.AmountCents,
			Source:      domain.TxSourceHoldConversion,
			Description: description,
			Reference:   fmt.Sprintf("hold_%d", hold.ID),
		}
		if err := tx.Create(entry).Error; err != nil {
			return nil, err
		}
	} else {
		if err := s.writeWallet(tx, &w, w.BalanceCents, w.WithdrawableCents); err != nil {
			return nil, err
		}
	}
	now := time.Now()
	hold.Status = target
	hold.ResolvedAt = &now
	if err := tx.Save(&hold).Error; err != nil {
		return nil, err
	}
	return &hold, nil
}

// Credit adds funds and appends a credit ledger entry. When withdrawable is
// true the amount also counts toward the payout-eligible sub-balance
// (referral earnings).
func (s *WalletService) Credit(userID uint, amountCents int64, source, description, reference string, withdrawable bool) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	return s.withRetry(func(tx *gorm.DB) error {
		return s.credit(tx, userID, amountCents, source, description, reference, withdrawable)
	})
}

// credit is the transaction-scoped body of Credit, exposed to sibling
// services that settle a credit together with writes to other tables.
func (s *WalletService) credit(tx *gorm.DB, userID uint, amountCents int64, source, description, reference string, withdrawable bool) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	w, err := s.lockWallet(tx, userID)
	if err != nil {
		return err
	}
	newWithdrawable := w.WithdrawableCents
	if withdrawable {
		newWithdrawable += amountCents
	}
	if err := s.writeWallet(tx, w, w.BalanceCents+amountCents, newWithdrawable); err != nil {
		return err
	}
	entry := &models.WalletTransaction{
		WalletID:    w.ID,
		UserID:      w.UserID,
		Type:        domain.TxTypeCredit,
		AmountCents: amountCents,
		Source:      source,
		Description: description,
		Reference:   reference,
	}
	return tx.Create(entry).Error
}

// Debit removes funds if the available balance (net of active holds) covers
// the amount, and appends a debit ledger entry.
func (s *WalletService) Debit(userID uint, amountCents int64, source, description, reference string) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	return s.withRetry(func(tx *gorm.DB) error {
		w, err := s.lockWallet(tx, userID)
		if err != nil {
			return err
		}
		holdSum, err := s.activeHoldSum(tx, w.ID)
		if err != nil {
			return err
		}
		if w.BalanceCents-holdSum < amountCents {
			return ErrInsufficientBalance
		}
		if err := s.writeWallet(tx, w, w.BalanceCents-amountCents, w.WithdrawableCents); err != nil {
			return err
		}
		entry := &models.WalletTransaction{
			WalletID:    w.ID,
			UserID:      w.UserID,
			Type:        domain.TxTypeDebit,
			AmountCents: amountCents,
			Source:      source,
			Description: description,
			Reference:   reference,
		}
		return tx.Create(entry).Error
	})
}

// DebitWithdrawable deducts a payout from both the withdrawable sub-balance
// and the main balance (withdrawable funds are a subset of the balance).
func (s *WalletService) DebitWithdrawable(userID uint, amountCents int64, description, reference string) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	return s.withRetry(func(tx *gorm.DB) error {
		w, err := s.lockWallet(tx, userID)
		if err != nil {
			return err
		}
		holdSum, err := s.activeHoldSum(tx, w.ID)
		if err != nil {
			return err
		}
		if w.WithdrawableCents < amountCents || w.BalanceCents-holdSum < amountCents {
			return ErrInsufficientBalance
		}
		if err := s.writeWallet(tx, w, w.BalanceCents-amountCents, w.WithdrawableCents-amountCents); err != nil {
			return err
		}
		entry := &models.WalletTransaction{
			WalletID:    w.ID,
			UserID:      w.UserID,
			Type:        domain.TxTypeDebit,
			AmountCents: amountCents,
			Source:      domain.TxSourceWithdrawal,
			Description: description,
			Reference:   reference,
		}
		return tx.Create(entry).Error
	})
}

// lockWallet loads (or lazily creates) the wallet inside the transaction and
// rejects operations on suspended wallets.
func (s *WalletService) lockWallet(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w = models.Wallet{UserID: userID, Currency: domain.DefaultCurrency, Status: domain.WalletStatusActive}
		if err := tx.Create(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}
	if err != nil {
		return nil, err
	}
	if w.Status == domain.WalletStatusSuspended {
		return nil, ErrWalletSuspended
	}
	return &w, nil
}

// writeWallet persists new balances guarded by the version the caller read.
func (s *WalletService) writeWallet(tx *gorm.DB, w *models.Wallet, balanceCents, withdrawableCents int64) error {
	res := tx.Model(&models.Wallet{}).
		Where("id = ? AND version = ?", w.ID, w.Version).
		Updates(map[string]interface{}{
			"balance_cents":      balanceCents,
			"withdrawable_cents": withdrawableCents,
			"version":            w.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errVersionConflict
	}
	w.BalanceCents = balanceCents
	w.WithdrawableCents = withdrawableCents
	w.Version++
	return nil
}

func (s *WalletService) activeHoldSum(tx *gorm.DB, walletID uint) (int64, error) {
	var sum int64
	err := tx.Model(&models.WalletHold{}).
		Where("wallet_id = ? AND status = ?", walletID, domain.HoldStatusActive).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&sum).Error
	return sum, err
}

func (s *WalletService) withRetry(fn func(tx *gorm.DB) error) error {
	for i := 0; i < walletRetries; i++ {
		err := s.db.Transaction(fn)
		if !errors.Is(err, errVersionConflict) {
			return err
		}
		time.Sleep(time.Duration(i+1) * 25 * time.Millisecond)
	}
	return ErrWalletConflict
}
