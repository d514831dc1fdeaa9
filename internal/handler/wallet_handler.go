package handler

import (
	"referly/internal/domain"
	"referly/internal/middleware"
	"referly/internal/repository"
	"referly/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletSvc  *service.WalletService
	walletRepo *repository.WalletRepository
}

func NewWalletHandler(walletSvc *service.WalletService, walletRepo *repository.WalletRepository) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc, walletRepo: walletRepo}
}

// GetWallet returns the wallet row itself plus the derived balances.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.walletSvc.GetOrCreate(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	b, err := h.walletSvc.GetBalance(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"wallet": w, "balance": b})
}

// GetWithdrawable returns just the payout-eligible sub-balance.
func (h *WalletHandler) GetWithdrawable(c *gin.Context) {
	w, err := h.walletSvc.GetOrCreate(middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"withdrawable_cents": w.WithdrawableCents, "currency": w.Currency})
}

// GetBalance returns balance, active holds and the spendable remainder.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	b, err := h.walletSvc.GetBalance(middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, b)
}

// ListTransactions pages through the ledger, optionally filtered by type.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	w, err := h.walletSvc.GetOrCreate(middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	typeFilter := c.Query("type")
	if typeFilter != "" && typeFilter != domain.TxTypeCredit && typeFilter != domain.TxTypeDebit {
		badRequest(c, "type must be CREDIT or DEBIT")
		return
	}
	limit, offset := pagination(c)
	txs, total, err := h.walletRepo.ListTransactions(w.ID, typeFilter, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"transactions": txs, "total": total})
}

// ListHolds returns the caller's holds, optionally filtered by status.
func (h *WalletHandler) ListHolds(c *gin.Context) {
	w, err := h.walletSvc.GetOrCreate(middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := c.Query("status")
	switch status {
	case "", domain.HoldStatusActive, domain.HoldStatusConverted, domain.HoldStatusReleased:
	default:
		badRequest(c, "status must be ACTIVE, CONVERTED or RELEASED")
		return
	}
	limit, offset := pagination(c)
	holds, err := h.walletRepo.ListHolds(w.ID, status, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, holds)
}

type debitRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
}

// Debit spends available balance on a platform purchase.
func (h *WalletHandler) Debit(c *gin.Context) {
	var req debitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount_cents is required")
		return
	}
	userID := middleware.GetUserID(c)
	if err := h.walletSvc.Debit(userID, req.AmountCents, domain.TxSourceManualDebit, req.Description, req.Reference); err != nil {
		respondServiceError(c, err)
		return
	}
	b, err := h.walletSvc.GetBalance(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, b)
}
