package service

import (
	"testing"

	"referly/internal/domain"
	"referly/internal/models"
	"referly/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReferralFixture(t *testing.T) (*gorm.DB, *ReferralService, *WalletService) {
	t.Helper()
	db := newTestDB(t)
	walletSvc := NewWalletService(db)
	referralRepo := repository.NewReferralRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	notifSvc := NewNotificationService(notifRepo, userRepo, nil)
	svc := NewReferralService(referralRepo, walletRepo, walletSvc, notifSvc, 100, 1000000)
	return db, svc, walletSvc
}

const (
	requesterID = uint(1)
	referrerID  = uint(2)
)

func createClaimedRequest(t *testing.T, svc *ReferralService, walletSvc *WalletService, reward int64) *models.ReferralRequest {
	t.Helper()
	require.NoError(t, walletSvc.Credit(requesterID, 1000, domain.TxSourceRecharge, "fund", "", false))
	req, err := svc.CreateRequest(requesterID, "Acme", "Backend Engineer", "https://acme.example/jobs/1", "please", reward)
	require.NoError(t, err)
	req, err = svc.Claim(req.ID, referrerID)
	require.NoError(t, err)
	return req
}

func TestCreateRequestValidatesReward(t *testing.T) {
	_, svc, _ := newReferralFixture(t)
	_, err := svc.CreateRequest(requesterID, "Acme", "SRE", "", "", 50)
	assert.ErrorIs(t, err, ErrRewardOutOfRange)
	_, err = svc.CreateRequest(requesterID, "Acme", "SRE", "", "", 2000000)
	assert.ErrorIs(t, err, ErrRewardOutOfRange)
}

func TestClaimPlacesHold(t *testing.T) {
	_, svc, walletSvc := newReferralFixture(t)
	req := createClaimedRequest(t, svc, walletSvc, 400)

	assert.Equal(t, domain.ReferralStatusClaimed, req.Status)
	require.NotNil(t, req.ReferrerID)
	assert.Equal(t, referrerID, *req.ReferrerID)

	b, err := walletSvc.GetBalance(requesterID)
	require.NoError(t, err)
	assert.Equal(t, int64(400), b.HoldCents)
	assert.Equal(t, int64(600), b.AvailableCents)
}

func TestClaimOwnRequestRejected(t *testing.T) {
	_, svc, walletSvc := newReferralFixture(t)
	require.NoError(t, walletSvc.Credit(requesterID, 1000, domain.TxSourceRecharge, "fund", "", false))
	req, err := svc.CreateRequest(requesterID, "Acme", "SRE", "", "", 400)
	require.NoError(t, err)
	_, err = svc.Claim(req.ID, requesterID)
	assert.ErrorIs(t, err, ErrOwnRequest)
}

func TestClaimWithoutFundsRevertsToOpen(t *testing.T) {
	db, svc, _ := newReferralFixture(t)
	// requester has no balance, so the hold fails
	req, err := svc.CreateRequest(requesterID, "Acme", "SRE", "", "", 400)
	require.NoError(t, err)
	_, err = svc.Claim(req.ID, referrerID)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	var reloaded models.ReferralRequest
	require.NoError(t, db.First(&reloaded, req.ID).Error)
	assert.Equal(t, domain.ReferralStatusOpen, reloaded.Status)
	assert.Nil(t, reloaded.ReferrerID)
}

func TestClaimNonOpenRejected(t *testing.T) {
	_, svc, walletSvc := newReferralFixture(t)
	req := createClaimedRequest(t, svc, walletSvc, 400)
	_, err := svc.Claim(req.ID, 3)
	assert.ErrorIs(t, err, ErrRequestNotOpen)
}

func TestCompletePaysReferrerWithdrawable(t *testing.T) {
	db, svc, walletSvc := newReferralFixture(t)
	req := createClaimedRequest(t, svc, walletSvc, 400)

	done, err := svc.Complete(req.ID, requesterID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReferralStatusCompleted, done.Status)
	require.NotNil(t, done.ResolvedAt)

	// requester paid
	rb, err := walletSvc.GetBalance(requesterID)
	require.NoError(t, err)
	assert.Equal(t, int64(600), rb.BalanceCents)
	assert.Equal(t, int64(0), rb.HoldCents)

	// referrer earned, withdrawable
	fb, err := walletSvc.GetBalance(referrerID)
	require.NoError(t, err)
	assert.Equal(t, int64(400), fb.BalanceCents)
	assert.Equal(t, int64(400), fb.WithdrawableCents)

	// hold is terminal
	var hold models.WalletHold
	require.NoError(t, db.Where("referral_request_id = ?", req.ID).First(&hold).Error)
	assert.Equal(t, domain.HoldStatusConverted, hold.Status)
}

func TestCompleteOnlyByRequester(t *testing.T) {
	_, svc, walletSvc := newReferralFixture(t)
	req := createClaimedRequest(t, svc, walletSvc, 400)
	_, err := svc.Complete(req.ID, referrerID)
	assert.ErrorIs(t, err, ErrNotYours)
}

func TestCompleteTwiceRejected(t *testing.T) {
	_, svc, walletSvc := newReferralFixture(t)
	req := createClaimedRequest(t, svc, walletSvc, 400)
	_, err := svc.Complete(req.ID, requesterID)
	require.NoError(t, err)
	_, err = svc.Complete(req.ID, requesterID)
	assert.ErrorIs(t, err, ErrRequestNotClaimed)
}

func TestCompletePayoutFailureLeavesRequestSettleable(t *testing.T) {
	db, svc, walletSvc := newReferralFixture(t)
	req := createClaimedRequest(t, svc, walletSvc, 400)

	_, err := walletSvc.GetOrCreate(referrerID)
	require.NoError(t, err)
	setWalletStatus(t, db, referrerID, domain.WalletStatusSuspended)

	_, err = svc.Complete(req.ID, requesterID)
	assert.ErrorIs(t, err, ErrWalletSuspended)

	// nothing settled: hold conversion rolled back with the payout
	var reloaded models.ReferralRequest
	require.NoError(t, db.First(&reloaded, req.ID).Error)
	assert.Equal(t, domain.ReferralStatusClaimed, reloaded.Status)

	var hold models.WalletHold
	require.NoError(t, db.Where("referral_request_id = ?", req.ID).First(&hold).Error)
	assert.Equal(t, domain.HoldStatusActive, hold.Status)

	rb, err := walletSvc.GetBalance(requesterID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), rb.BalanceCents)
	assert.Equal(t, int64(400), rb.HoldCents)

	setWalletStatus(t, db, referrerID, domain.WalletStatusActive)

	done, err := svc.Complete(req.ID, requesterID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReferralStatusCompleted, done.Status)

	rb, err = walletSvc.GetBalance(requesterID)
	require.NoError(t, err)
	assert.Equal(t, int64(600), rb.BalanceCents)

	fb, err := walletSvc.GetBalance(referrerID)
	require.NoError(t, err)
	assert.Equal(t, int64(400), fb.BalanceCents)
	assert.Equal(t, int64(400), fb.WithdrawableCents)
}

func TestRequesterCancelReleasesHold(t *testing.T) {
	_, svc, walletSvc := newReferralFixture(t)
	req := createClaimedRequest(t, svc, walletSvc, 400)

	cancelled, err := svc.Cancel(req.ID, requesterID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReferralStatusCancelled, cancelled.Status)

	b, err := walletSvc.GetBalance(requesterID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), b.BalanceCents)
	assert.Equal(t, int64(0), b.HoldCents)
	assert.Equal(t, int64(1000), b.AvailableCents)
}

func TestReferrerBackoutReopensRequest(t *testing.T) {
	_, svc, walletSvc := newReferralFixture(t)
	req := createClaimedRequest(t, svc, walletSvc, 400)

	reopened, err := svc.Cancel(req.ID, referrerID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReferralStatusOpen, reopened.Status)
	assert.Nil(t, reopened.ReferrerID)
	assert.Nil(t, reopened.ClaimedAt)

	b, err := walletSvc.GetBalance(requesterID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.HoldCents)

	// can be claimed again
	_, err = svc.Claim(req.ID, 3)
	require.NoError(t, err)
}

func TestCancelByStrangerRejected(t *testing.T) {
	_, svc, walletSvc := newReferralFixture(t)
	req := createClaimedRequest(t, svc, walletSvc, 400)
	_, err := svc.Cancel(req.ID, 99)
	assert.ErrorIs(t, err, ErrNotYours)
}
