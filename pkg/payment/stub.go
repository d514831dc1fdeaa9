package payment

import (
	"context"
	"fmt"
	"sync/atomic"
)

// StubProvider is a local gateway for development and tests. Orders get
// sequential ids and signatures are computed with the same HMAC scheme as
// the real gateway, keyed with the stub secret.
type StubProvider struct {
	Secret string
	seq    atomic.Int64
}

func NewStubProvider(secret string) *StubProvider {
	if secret == "" {
		secret = "stub-secret"
	}
	return &StubProvider{Secret: secret}
}

func (p *StubProvider) CreateOrder(_ context.Context, req OrderRequest) (*OrderResponse, error) {
	n := p.seq.Add(1)
	return &OrderResponse{
		OrderID:     fmt.Sprintf("order_stub_%06d", n),
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Status:      "created",
	}, nil
}

func (p *StubProvider) VerifySignature(orderID, paymentID, signature string) bool {
	return signHMAC([]byte(orderID+"|"+paymentID), p.Secret) == signature
}

func (p *StubProvider) VerifyWebhookSignature(body []byte, signature string) bool {
	return signHMAC(body, p.Secret) == signature
}

// Sign produces a valid checkout signature, for tests and local clients.
func (p *StubProvider) Sign(orderID, paymentID string) string {
	return signHMAC([]byte(orderID+"|"+paymentID), p.Secret)
}
