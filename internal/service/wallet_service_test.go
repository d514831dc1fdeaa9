package service

import (
	"sync"
	"testing"

	"referly/internal/domain"
	"referly/internal/models"
	"referly/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection: keeps the in-memory DB alive and serializes transactions
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.WalletHold{},
		&models.WalletTransaction{},
		&models.ReferralRequest{},
		&models.Notification{},
		&models.RechargeOrder{},
	))
	return db
}

func fundWallet(t *testing.T, svc *WalletService, userID uint, cents int64) {
	t.Helper()
	require.NoError(t, svc.Credit(userID, cents, domain.TxSourceRecharge, "test recharge", "", false))
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	svc := NewWalletService(newTestDB(t))
	w1, err := svc.GetOrCreate(1)
	require.NoError(t, err)
	w2, err := svc.GetOrCreate(1)
	require.NoError(t, err)
	assert.Equal(t, w1.ID, w2.ID)
	assert.Equal(t, int64(0), w1.BalanceCents)
	assert.Equal(t, domain.WalletStatusActive, w1.Status)
}

func TestHoldConvertScenario(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	fundWallet(t, svc, 1, 1000)

	hold, err := svc.CreateHold(1, 10, 400)
	require.NoError(t, err)
	assert.Equal(t, domain.HoldStatusActive, hold.Status)

	b, err := svc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), b.BalanceCents)
	assert.Equal(t, int64(400), b.HoldCents)
	assert.Equal(t, int64(600), b.AvailableCents)

	converted, err := svc.ConvertHold(hold.ID, 1, "reward settled")
	require.NoError(t, err)
	assert.Equal(t, domain.HoldStatusConverted, converted.Status)
	require.NotNil(t, converted.ResolvedAt)

	b, err = svc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(600), b.BalanceCents)
	assert.Equal(t, int64(0), b.HoldCents)
	assert.Equal(t, int64(600), b.AvailableCents)

	// exactly one debit in the ledger for the conversion
	var debits []models.WalletTransaction
	require.NoError(t, db.Where("type = ?", domain.TxTypeDebit).Find(&debits).Error)
	require.Len(t, debits, 1)
	assert.Equal(t, int64(400), debits[0].AmountCents)
	assert.Equal(t, domain.TxSourceHoldConversion, debits[0].Source)
}

func TestHoldReleaseRestoresAvailableWithoutLedgerEntry(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	fundWallet(t, svc, 1, 1000)

	hold, err := svc.CreateHold(1, 10, 400)
	require.NoError(t, err)

	var before int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).Count(&before).Error)

	released, err := svc.ReleaseHold(hold.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.HoldStatusReleased, released.Status)

	b, err := svc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), b.BalanceCents)
	assert.Equal(t, int64(1000), b.AvailableCents)

	var after int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).Count(&after).Error)
	assert.Equal(t, before, after, "release must not write to the ledger")
}

func TestResolvedHoldIsTerminal(t *testing.T) {
	svc := NewWalletService(newTestDB(t))
	fundWallet(t, svc, 1, 1000)

	hold, err := svc.CreateHold(1, 10, 400)
	require.NoError(t, err)
	_, err = svc.ReleaseHold(hold.ID, 1)
	require.NoError(t, err)

	_, err = svc.ConvertHold(hold.ID, 1, "late settle")
	assert.ErrorIs(t, err, ErrHoldNotActive)
	_, err = svc.ReleaseHold(hold.ID, 1)
	assert.ErrorIs(t, err, ErrHoldNotActive)
}

func TestHoldOwnershipEnforced(t *testing.T) {
	svc := NewWalletService(newTestDB(t))
	fundWallet(t, svc, 1, 1000)
	hold, err := svc.CreateHold(1, 10, 400)
	require.NoError(t, err)

	_, err = svc.ConvertHold(hold.ID, 2, "someone else")
	assert.ErrorIs(t, err, ErrNotYours)
}

func TestDebitRejectsOverdraw(t *testing.T) {
	svc := NewWalletService(newTestDB(t))
	fundWallet(t, svc, 1, 100)

	err := svc.Debit(1, 150, domain.TxSourceManualDebit, "too much", "")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	b, err := svc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), b.BalanceCents)
}

func TestHoldRespectsExistingHolds(t *testing.T) {
	svc := NewWalletService(newTestDB(t))
	fundWallet(t, svc, 1, 1000)

	_, err := svc.CreateHold(1, 10, 600)
	require.NoError(t, err)
	_, err = svc.CreateHold(1, 11, 600)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestConcurrentHoldsOnlyOneWins(t *testing.T) {
	svc := NewWalletService(newTestDB(t))
	fundWallet(t, svc, 1, 1000)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateHold(1, uint(100+i), 600)
		}(i)
	}
	wg.Wait()

	var ok, failed int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientBalance)
			failed++
		}
	}
	assert.Equal(t, 1, ok, "exactly one hold must win")
	assert.Equal(t, 1, failed)

	b, err := svc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(600), b.HoldCents)
	assert.Equal(t, int64(400), b.AvailableCents)
}

func TestWithdrawableSubsetOfBalance(t *testing.T) {
	svc := NewWalletService(newTestDB(t))
	fundWallet(t, svc, 1, 500)
	require.NoError(t, svc.Credit(1, 300, domain.TxSourceReferralPayout, "payout", "", true))

	b, err := svc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(800), b.BalanceCents)
	assert.Equal(t, int64(300), b.WithdrawableCents)

	// cannot withdraw more than earned, even with balance to spare
	err = svc.DebitWithdrawable(1, 400, "payout", "wd-1")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	require.NoError(t, svc.DebitWithdrawable(1, 300, "payout", "wd-2"))
	b, err = svc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(500), b.BalanceCents)
	assert.Equal(t, int64(0), b.WithdrawableCents)
}

func TestSuspendedWalletRejectsOperations(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	fundWallet(t, svc, 1, 1000)
	require.NoError(t, db.Model(&models.Wallet{}).Where("user_id = ?", 1).
		Update("status", domain.WalletStatusSuspended).Error)

	_, err := svc.CreateHold(1, 10, 100)
	assert.ErrorIs(t, err, ErrWalletSuspended)
	err = svc.Debit(1, 100, domain.TxSourceManualDebit, "", "")
	assert.ErrorIs(t, err, ErrWalletSuspended)
}

func TestLedgerSumMatchesBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewWalletService(db)
	fundWallet(t, svc, 1, 1000)
	require.NoError(t, svc.Credit(1, 250, domain.TxSourceReferralPayout, "payout", "", true))
	require.NoError(t, svc.Debit(1, 300, domain.TxSourceManualDebit, "purchase", ""))
	hold, err := svc.CreateHold(1, 10, 200)
	require.NoError(t, err)
	_, err = svc.ConvertHold(hold.ID, 1, "settled")
	require.NoError(t, err)

	w, err := svc.GetOrCreate(1)
	require.NoError(t, err)
	walletRepo := repository.NewWalletRepository(db)
	sum, err := walletRepo.LedgerSum(w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.BalanceCents, sum, "ledger must replay to the stored balance")
}

func TestInvalidAmountsRejected(t *testing.T) {
	svc := NewWalletService(newTestDB(t))
	_, err := svc.CreateHold(1, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	err = svc.Credit(1, -5, domain.TxSourceRecharge, "", "", false)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	err = svc.Debit(1, 0, domain.TxSourceManualDebit, "", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
