package handler

import (
	"fmt"
	"log"
	"strconv"

	"referly/internal/domain"
	"referly/internal/middleware"
	"referly/internal/models"
	"referly/internal/repository"
	"referly/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultMinWithdrawalCents = 10000 // 100 INR

type WithdrawalHandler struct {
	withdrawalRepo *repository.WithdrawalRepository
	settingRepo    *repository.SettingRepository
	walletSvc      *service.WalletService
	notifSvc       *service.NotificationService
}

func NewWithdrawalHandler(
	withdrawalRepo *repository.WithdrawalRepository,
	settingRepo *repository.SettingRepository,
	walletSvc *service.WalletService,
	notifSvc *service.NotificationService,
) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalRepo: withdrawalRepo,
		settingRepo:    settingRepo,
		walletSvc:      walletSvc,
		notifSvc:       notifSvc,
	}
}

func (h *WithdrawalHandler) minWithdrawal() int64 {
	if h.settingRepo == nil {
		return defaultMinWithdrawalCents
	}
	v, err := h.settingRepo.Get(domain.SettingMinWithdrawalCents)
	if err != nil {
		return defaultMinWithdrawalCents
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return defaultMinWithdrawalCents
	}
	return n
}

type withdrawRequest struct {
	AmountCents   int64  `json:"amount_cents" binding:"required"`
	PayoutDetails string `json:"payout_details" binding:"required"`
}

// Request deducts the amount from the withdrawable balance up front and files
// a payout for admin review. A failed record insert refunds the deduction.
func (h *WithdrawalHandler) Request(c *gin.Context) {
	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount_cents and payout_details are required")
		return
	}
	if min := h.minWithdrawal(); req.AmountCents < min {
		badRequest(c, fmt.Sprintf("minimum withdrawal is %d cents", min))
		return
	}
	userID := middleware.GetUserID(c)
	orderID := "wd-" + uuid.NewString()
	if err := h.walletSvc.DebitWithdrawable(userID, req.AmountCents, "withdrawal request", orderID); err != nil {
		respondServiceError(c, err)
		return
	}
	w := &models.WithdrawalRequest{
		UserID:        userID,
		OrderID:       orderID,
		AmountCents:   req.AmountCents,
		PayoutDetails: req.PayoutDetails,
		Status:        domain.WithdrawalStatusPending,
	}
	if err := h.withdrawalRepo.Create(w); err != nil {
		// record failed after the debit: put the money back
		if refundErr := h.walletSvc.Credit(userID, req.AmountCents, domain.TxSourceRefund,
			"withdrawal record failed", orderID, true); refundErr != nil {
			log.Printf("[withdrawal] CRITICAL refund failed for user %d order %s: %v", userID, orderID, refundErr)
		}
		respondServiceError(c, err)
		return
	}
	respondCreated(c, w)
}

// History lists the caller's withdrawal requests.
func (h *WithdrawalHandler) History(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.withdrawalRepo.ListByUser(middleware.GetUserID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}
