package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// RazorpayProvider creates orders via the Razorpay Orders API and verifies
// checkout and webhook signatures with HMAC-SHA256.
type RazorpayProvider struct {
	BaseURL       string
	KeyID         string
	KeySecret     string
	WebhookSecret string
	client        *http.Client
}

func NewRazorpayProvider(baseURL, keyID, keySecret, webhookSecret string) *RazorpayProvider {
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}
	return &RazorpayProvider{
		BaseURL:       baseURL,
		KeyID:         keyID,
		KeySecret:     keySecret,
		WebhookSecret: webhookSecret,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

type razorpayOrderReq struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayOrderResp struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (p *RazorpayProvider) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	payload := razorpayOrderReq{
		Amount:   req.AmountCents,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	}
	body, _ := json.Marshal(payload)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.SetBasicAuth(p.KeyID, p.KeySecret)
	log.Printf("[razorpay] POST %s/v1/orders receipt=%s amount=%d", p.BaseURL, req.Receipt, req.AmountCents)
	resp, err := p.client.Do(apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("[razorpay] order failed status=%d body=%s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("razorpay order: %d", resp.StatusCode)
	}
	var out razorpayOrderResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	return &OrderResponse{
		OrderID:     out.ID,
		AmountCents: out.Amount,
		Currency:    out.Currency,
		Status:      out.Status,
	}, nil
}

// VerifySignature checks the checkout callback signature, computed by the
// gateway as HMAC-SHA256(order_id + "|" + payment_id, key_secret).
func (p *RazorpayProvider) VerifySignature(orderID, paymentID, signature string) bool {
	expected := signHMAC([]byte(orderID+"|"+paymentID), p.KeySecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the signature header over the raw webhook body.
func (p *RazorpayProvider) VerifyWebhookSignature(body []byte, signature string) bool {
	if p.WebhookSecret == "" {
		return false
	}
	expected := signHMAC(body, p.WebhookSecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func signHMAC(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
