package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"referly/internal/domain"
	"referly/internal/models"
	"referly/internal/repository"
	"referly/pkg/payment"

	"gorm.io/gorm"
)

var (
	ErrInvalidSignature = errors.New("payment signature verification failed")
	ErrOrderNotFound    = errors.New("recharge order not found")
	ErrOrderMismatch    = errors.New("payment does not belong to this user")
)

// RechargeService creates gateway orders and credits the wallet exactly once
// per verified payment. Idempotency comes from the guarded PENDING→COMPLETED
// flip plus the unique index on payment_id: a duplicate verification returns
// the already-completed order without touching the ledger. The flip and the
// credit share one transaction, so an order is COMPLETED if and only if the
// wallet was credited for it.
type RechargeService struct {
	rechargeRepo *repository.RechargeRepository
	walletSvc    *WalletService
	notifSvc     *NotificationService
	provider     payment.Provider
	orderExpiry  time.Duration
}

func NewRechargeService(
	rechargeRepo *repository.RechargeRepository,
	walletSvc *WalletService,
	notifSvc *NotificationService,
	provider payment.Provider,
	orderExpiry time.Duration,
) *RechargeService {
	return &RechargeService{
		rechargeRepo: rechargeRepo,
		walletSvc:    walletSvc,
		notifSvc:     notifSvc,
		provider:     provider,
		orderExpiry:  orderExpiry,
	}
}

// CreateOrder asks the gateway for an order handle and records it PENDING.
func (s *RechargeService) CreateOrder(ctx context.Context, userID uint, amountCents int64) (*models.RechargeOrder, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.walletSvc.GetOrCreate(userID); err != nil {
		return nil, err
	}
	gw, err := s.provider.CreateOrder(ctx, payment.OrderRequest{
		AmountCents: amountCents,
		Currency:    domain.DefaultCurrency,
		Receipt:     fmt.Sprintf("rc_%d_%d", userID, time.Now().UnixNano()),
	})
	if err != nil {
		return nil, fmt.Errorf("gateway order: %w", err)
	}
	expires := time.Now().Add(s.orderExpiry)
	order := &models.RechargeOrder{
		UserID:          userID,
		AmountCents:     amountCents,
		Currency:        domain.DefaultCurrency,
		ProviderOrderID: gw.OrderID,
		Status:          domain.RechargeStatusPending,
		ExpiresAt:       &expires,
	}
	if err := s.rechargeRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// Verify checks the gateway signature over (order id, payment id) and credits
// the wallet at most once for the payment. Safe to call repeatedly.
func (s *RechargeService) Verify(userID uint, providerOrderID, paymentID, signature string) (*models.RechargeOrder, error) {
	order, err := s.rechargeRepo.GetByProviderOrderID(providerOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderMismatch
	}
	if !s.provider.VerifySignature(providerOrderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}
	if order.Status == domain.RechargeStatusCompleted {
		// duplicate confirmation: successful no-op
		return order, nil
	}
	credited, err := s.settle(order, paymentID)
	if err != nil {
		log.Printf("[recharge] settlement failed for order %s: %v", providerOrderID, err)
		return nil, err
	}
	if credited && s.notifSvc != nil {
		if err := s.notifSvc.NotifyRecharge(order.UserID, order.AmountCents, providerOrderID); err != nil {
			log.Printf("[recharge] notify failed for order %s: %v", providerOrderID, err)
		}
	}
	return s.rechargeRepo.GetByProviderOrderID(providerOrderID)
}

// settle flips the order to COMPLETED and credits the wallet in one
// transaction. A failed credit rolls the flip back, so the order stays
// PENDING and a later verification can settle it. Returns false when
// another request already completed the order.
func (s *RechargeService) settle(order *models.RechargeOrder, paymentID string) (bool, error) {
	credited := false
	err := s.walletSvc.withRetry(func(tx *gorm.DB) error {
		credited = false
		res := tx.Model(&models.RechargeOrder{}).
			Where("id = ? AND status = ?", order.ID, domain.RechargeStatusPending).
			Updates(map[string]interface{}{
				"status":       domain.RechargeStatusCompleted,
				"payment_id":   paymentID,
				"completed_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := s.walletSvc.credit(tx, order.UserID, order.AmountCents, domain.TxSourceRecharge,
			"wallet recharge", order.ProviderOrderID, false); err != nil {
			return err
		}
		credited = true
		return nil
	})
	return credited, err
}

// HandleWebhook processes a server-to-server confirmation for an order. The
// caller has already authenticated the payload (HMAC over the raw body).
func (s *RechargeService) HandleWebhook(providerOrderID, paymentID, status string) error {
	order, err := s.rechargeRepo.GetByProviderOrderID(providerOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// not ours; acknowledge so the gateway stops retrying
			return nil
		}
		return err
	}
	if order.Status == domain.RechargeStatusCompleted {
		return nil
	}
	if status != "captured" && status != "COMPLETED" {
		if order.Status == domain.RechargeStatusPending {
			order.Status = domain.RechargeStatusFailed
			return s.rechargeRepo.Update(order)
		}
		return nil
	}
	credited, err := s.settle(order, paymentID)
	if err != nil {
		log.Printf("[recharge] webhook settlement failed for order %s: %v", providerOrderID, err)
		return err
	}
	if credited && s.notifSvc != nil {
		if err := s.notifSvc.NotifyRecharge(order.UserID, order.AmountCents, providerOrderID); err != nil {
			log.Printf("[recharge] notify failed for order %s: %v", providerOrderID, err)
		}
	}
	return nil
}
