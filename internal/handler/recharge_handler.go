package handler

import (
	"referly/internal/middleware"
	"referly/internal/repository"
	"referly/internal/service"

	"github.com/gin-gonic/gin"
)

type RechargeHandler struct {
	rechargeSvc  *service.RechargeService
	rechargeRepo *repository.RechargeRepository
}

func NewRechargeHandler(rechargeSvc *service.RechargeService, rechargeRepo *repository.RechargeRepository) *RechargeHandler {
	return &RechargeHandler{rechargeSvc: rechargeSvc, rechargeRepo: rechargeRepo}
}

type createOrderRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required"`
}

// CreateOrder registers a recharge with the gateway and returns the order
// handle the client uses for checkout.
func (h *RechargeHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "amount_cents is required")
		return
	}
	order, err := h.rechargeSvc.CreateOrder(c.Request.Context(), middleware.GetUserID(c), req.AmountCents)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, order)
}

type verifyRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

// Verify confirms a checkout payment and credits the wallet. Idempotent:
// repeating the call for an already-verified payment succeeds without a
// second credit.
func (h *RechargeHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
		return
	}
	order, err := h.rechargeSvc.Verify(middleware.GetUserID(c), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, order)
}

// History lists the caller's recharge orders.
func (h *RechargeHandler) History(c *gin.Context) {
	limit, offset := pagination(c)
	orders, err := h.rechargeRepo.ListByUser(middleware.GetUserID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, orders)
}
