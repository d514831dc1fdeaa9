package handler

import (
	"log"
	"strconv"
	"time"

	"referly/internal/domain"
	"referly/internal/middleware"
	"referly/internal/models"
	"referly/internal/repository"
	"referly/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminRepo      *repository.AdminRepository
	settingRepo    *repository.SettingRepository
	withdrawalRepo *repository.WithdrawalRepository
	auditRepo      *repository.AuditLogRepository
	walletSvc      *service.WalletService
	notifSvc       *service.NotificationService
	authSvc        *service.AuthService
}

func NewAdminHandler(
	adminRepo *repository.AdminRepository,
	settingRepo *repository.SettingRepository,
	withdrawalRepo *repository.WithdrawalRepository,
	auditRepo *repository.AuditLogRepository,
	walletSvc *service.WalletService,
	notifSvc *service.NotificationService,
	authSvc *service.AuthService,
) *AdminHandler {
	return &AdminHandler{
		adminRepo:      adminRepo,
		settingRepo:    settingRepo,
		withdrawalRepo: withdrawalRepo,
		auditRepo:      auditRepo,
		walletSvc:      walletSvc,
		notifSvc:       notifSvc,
		authSvc:        authSvc,
	}
}

// Login is the admin-only login endpoint.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}
	u, access, refresh, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !u.IsAdmin() {
		respondError(c, 403, "FORBIDDEN", "admin access required")
		return
	}
	respondOK(c, gin.H{"user": u, "access_token": access, "refresh_token": refresh})
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminRepo.GetDashboardStats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)
	users, total, err := h.adminRepo.ListUsers(c.Query("search"), c.Query("role"), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"users": users, "total": total})
}

// SetWalletStatus freezes or reactivates a user's wallet.
func (h *AdminHandler) SetWalletStatus(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil ||
		(req.Status != domain.WalletStatusActive && req.Status != domain.WalletStatusSuspended) {
		badRequest(c, "status must be ACTIVE or SUSPENDED")
		return
	}
	if err := h.adminRepo.SetWalletStatus(userID, req.Status); err != nil {
		respondServiceError(c, err)
		return
	}
	h.audit(c, "wallet_status_"+req.Status, "wallet", userID)
	respondMessage(c, 200, "wallet status updated", nil)
}

func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	status := c.DefaultQuery("status", domain.WithdrawalStatusPending)
	limit, offset := pagination(c)
	list, err := h.withdrawalRepo.ListByStatus(status, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

// ApproveWithdrawal marks a pending payout as paid. The funds already left
// the wallet when the request was filed.
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	w, ok := h.loadPendingWithdrawal(c)
	if !ok {
		return
	}
	now := time.Now()
	w.Status = domain.WithdrawalStatusPaid
	w.ResolvedAt = &now
	if err := h.withdrawalRepo.Update(w); err != nil {
		respondServiceError(c, err)
		return
	}
	h.audit(c, "withdrawal_approved", "withdrawal", w.ID)
	h.notifyResolved(w)
	respondOK(c, w)
}

// RejectWithdrawal refunds the deducted amount back into the withdrawable
// balance and closes the request.
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)
	w, ok := h.loadPendingWithdrawal(c)
	if !ok {
		return
	}
	if err := h.walletSvc.Credit(w.UserID, w.AmountCents, domain.TxSourceRefund,
		"withdrawal rejected", w.OrderID, true); err != nil {
		respondServiceError(c, err)
		return
	}
	now := time.Now()
	w.Status = domain.WithdrawalStatusRejected
	w.AdminNote = req.Note
	w.ResolvedAt = &now
	if err := h.withdrawalRepo.Update(w); err != nil {
		// the refund landed but the record flip failed
		log.Printf("[admin] CRITICAL withdrawal %d refunded but status update failed: %v", w.ID, err)
		respondServiceError(c, err)
		return
	}
	h.audit(c, "withdrawal_rejected", "withdrawal", w.ID)
	h.notifyResolved(w)
	respondOK(c, w)
}

func (h *AdminHandler) loadPendingWithdrawal(c *gin.Context) (*models.WithdrawalRequest, bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}
	w, err := h.withdrawalRepo.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	if w.Status != domain.WithdrawalStatusPending {
		respondError(c, 409, "INVALID_REQUEST_STATE", "withdrawal is not pending")
		return nil, false
	}
	return w, true
}

func (h *AdminHandler) notifyResolved(w *models.WithdrawalRequest) {
	if h.notifSvc == nil {
		return
	}
	if err := h.notifSvc.NotifyWithdrawalResolved(w.UserID, w.AmountCents, w.Status); err != nil {
		log.Printf("[admin] notify withdrawal %d failed: %v", w.ID, err)
	}
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingRepo.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, settings)
}

func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "key and value are required")
		return
	}
	if err := h.settingRepo.Set(req.Key, req.Value); err != nil {
		respondServiceError(c, err)
		return
	}
	h.audit(c, "setting_updated:"+req.Key, "setting", 0)
	respondMessage(c, 200, "setting updated", nil)
}

func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	limit, offset := pagination(c)
	logs, err := h.auditRepo.List(c.Query("action"), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, logs)
}

func (h *AdminHandler) audit(c *gin.Context, action, resource string, resourceID uint) {
	if h.auditRepo == nil {
		return
	}
	adminID := middleware.GetUserID(c)
	rid := ""
	if resourceID != 0 {
		rid = strconv.FormatUint(uint64(resourceID), 10)
	}
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:     &adminID,
		Action:     action,
		Resource:   resource,
		ResourceID: rid,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
}
