package payment

import "context"

// OrderRequest describes a gateway order to create before the client pays.
type OrderRequest struct {
	AmountCents int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// OrderResponse is the gateway's handle for a created order.
type OrderResponse struct {
	OrderID     string
	AmountCents int64
	Currency    string
	Status      string
}

// Provider abstracts the payment gateway used for wallet recharges.
type Provider interface {
	// CreateOrder registers an order with the gateway and returns its id.
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error)
	// VerifySignature checks the gateway signature over (order id, payment id).
	VerifySignature(orderID, paymentID, signature string) bool
	// VerifyWebhookSignature checks the signature over a raw webhook body.
	VerifyWebhookSignature(body []byte, signature string) bool
}
