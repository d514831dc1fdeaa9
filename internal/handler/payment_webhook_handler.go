package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"referly/internal/service"
	"referly/pkg/payment"

	"github.com/gin-gonic/gin"
)

type PaymentWebhookHandler struct {
	rechargeSvc *service.RechargeService
	provider    payment.Provider
}

func NewPaymentWebhookHandler(rechargeSvc *service.RechargeService, provider payment.Provider) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{rechargeSvc: rechargeSvc, provider: provider}
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Handle processes gateway server-to-server confirmations. The signature is
// verified over the raw body before anything is parsed.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unreadable body"})
		return
	}
	signature := c.GetHeader("X-Webhook-Signature")
	if signature == "" || !h.provider.VerifyWebhookSignature(body, signature) {
		log.Printf("[webhook] rejected payment webhook from %s: bad signature", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid signature"})
		return
	}
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload"})
		return
	}
	entity := p.Payload.Payment.Entity
	if entity.OrderID == "" {
		// unrelated event, acknowledge
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	if err := h.rechargeSvc.HandleWebhook(entity.OrderID, entity.ID, entity.Status); err != nil {
		log.Printf("[webhook] processing order %s failed: %v", entity.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
