package service

import (
	"context"
	"testing"
	"time"

	"referly/internal/domain"
	"referly/internal/models"
	"referly/internal/repository"
	"referly/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRechargeFixture(t *testing.T) (*gorm.DB, *RechargeService, *WalletService, *payment.StubProvider) {
	t.Helper()
	db := newTestDB(t)
	walletSvc := NewWalletService(db)
	rechargeRepo := repository.NewRechargeRepository(db)
	provider := payment.NewStubProvider("test-secret")
	svc := NewRechargeService(rechargeRepo, walletSvc, nil, provider, 15*time.Minute)
	return db, svc, walletSvc, provider
}

func setWalletStatus(t *testing.T, db *gorm.DB, userID uint, status string) {
	t.Helper()
	require.NoError(t, db.Model(&models.Wallet{}).
		Where("user_id = ?", userID).Update("status", status).Error)
}

func TestCreateOrderRecordsPending(t *testing.T) {
	_, svc, _, _ := newRechargeFixture(t)
	order, err := svc.CreateOrder(context.Background(), 1, 5000)
	require.NoError(t, err)
	assert.Equal(t, domain.RechargeStatusPending, order.Status)
	assert.NotEmpty(t, order.ProviderOrderID)
	assert.Equal(t, int64(5000), order.AmountCents)
}

func TestCreateOrderRejectsNonPositive(t *testing.T) {
	_, svc, _, _ := newRechargeFixture(t)
	_, err := svc.CreateOrder(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestVerifyCreditsWalletOnce(t *testing.T) {
	_, svc, walletSvc, provider := newRechargeFixture(t)
	order, err := svc.CreateOrder(context.Background(), 1, 5000)
	require.NoError(t, err)

	sig := provider.Sign(order.ProviderOrderID, "pay_123")
	verified, err := svc.Verify(1, order.ProviderOrderID, "pay_123", sig)
	require.NoError(t, err)
	assert.Equal(t, domain.RechargeStatusCompleted, verified.Status)

	b, err := walletSvc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), b.BalanceCents)

	// duplicate verification: successful no-op
	again, err := svc.Verify(1, order.ProviderOrderID, "pay_123", sig)
	require.NoError(t, err)
	assert.Equal(t, domain.RechargeStatusCompleted, again.Status)

	b, err = walletSvc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), b.BalanceCents, "no second credit")
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	_, svc, walletSvc, _ := newRechargeFixture(t)
	order, err := svc.CreateOrder(context.Background(), 1, 5000)
	require.NoError(t, err)

	_, err = svc.Verify(1, order.ProviderOrderID, "pay_123", "forged")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	b, err := walletSvc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.BalanceCents)
}

func TestVerifyRejectsWrongUser(t *testing.T) {
	_, svc, _, provider := newRechargeFixture(t)
	order, err := svc.CreateOrder(context.Background(), 1, 5000)
	require.NoError(t, err)

	sig := provider.Sign(order.ProviderOrderID, "pay_123")
	_, err = svc.Verify(2, order.ProviderOrderID, "pay_123", sig)
	assert.ErrorIs(t, err, ErrOrderMismatch)
}

func TestVerifyUnknownOrder(t *testing.T) {
	_, svc, _, _ := newRechargeFixture(t)
	_, err := svc.Verify(1, "order_missing", "pay_123", "sig")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestWebhookCreditsAndIsIdempotent(t *testing.T) {
	_, svc, walletSvc, _ := newRechargeFixture(t)
	order, err := svc.CreateOrder(context.Background(), 1, 2500)
	require.NoError(t, err)

	require.NoError(t, svc.HandleWebhook(order.ProviderOrderID, "pay_hook", "captured"))
	require.NoError(t, svc.HandleWebhook(order.ProviderOrderID, "pay_hook", "captured"))

	b, err := walletSvc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), b.BalanceCents)
}

func TestVerifyFailedCreditKeepsOrderPending(t *testing.T) {
	db, svc, walletSvc, provider := newRechargeFixture(t)
	order, err := svc.CreateOrder(context.Background(), 1, 5000)
	require.NoError(t, err)

	setWalletStatus(t, db, 1, domain.WalletStatusSuspended)

	sig := provider.Sign(order.ProviderOrderID, "pay_123")
	_, err = svc.Verify(1, order.ProviderOrderID, "pay_123", sig)
	assert.ErrorIs(t, err, ErrWalletSuspended)

	// the flip rolled back with the credit, so the payment is retryable
	var reloaded models.RechargeOrder
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, domain.RechargeStatusPending, reloaded.Status)

	setWalletStatus(t, db, 1, domain.WalletStatusActive)

	verified, err := svc.Verify(1, order.ProviderOrderID, "pay_123", sig)
	require.NoError(t, err)
	assert.Equal(t, domain.RechargeStatusCompleted, verified.Status)

	b, err := walletSvc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), b.BalanceCents, "credited exactly once")
}

func TestWebhookFailedCreditKeepsOrderPending(t *testing.T) {
	db, svc, walletSvc, _ := newRechargeFixture(t)
	order, err := svc.CreateOrder(context.Background(), 1, 2500)
	require.NoError(t, err)

	setWalletStatus(t, db, 1, domain.WalletStatusSuspended)
	assert.ErrorIs(t, svc.HandleWebhook(order.ProviderOrderID, "pay_hook", "captured"), ErrWalletSuspended)

	var reloaded models.RechargeOrder
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, domain.RechargeStatusPending, reloaded.Status)

	setWalletStatus(t, db, 1, domain.WalletStatusActive)
	require.NoError(t, svc.HandleWebhook(order.ProviderOrderID, "pay_hook", "captured"))

	b, err := walletSvc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), b.BalanceCents)
}

func TestWebhookFailureMarksOrderFailed(t *testing.T) {
	_, svc, walletSvc, _ := newRechargeFixture(t)
	order, err := svc.CreateOrder(context.Background(), 1, 2500)
	require.NoError(t, err)

	require.NoError(t, svc.HandleWebhook(order.ProviderOrderID, "pay_hook", "failed"))

	b, err := walletSvc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.BalanceCents)
}
