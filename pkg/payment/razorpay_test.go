package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	p := NewRazorpayProvider("", "key", "secret", "")
	good := sign("secret", "order_1|pay_1")
	assert.True(t, p.VerifySignature("order_1", "pay_1", good))
	assert.False(t, p.VerifySignature("order_1", "pay_1", "deadbeef"))
	assert.False(t, p.VerifySignature("order_2", "pay_1", good))
}

func TestVerifyWebhookSignature(t *testing.T) {
	p := NewRazorpayProvider("", "key", "secret", "hook-secret")
	body := []byte(`{"event":"payment.captured"}`)
	assert.True(t, p.VerifyWebhookSignature(body, sign("hook-secret", string(body))))
	assert.False(t, p.VerifyWebhookSignature(body, sign("wrong", string(body))))

	unconfigured := NewRazorpayProvider("", "key", "secret", "")
	assert.False(t, unconfigured.VerifyWebhookSignature(body, sign("", string(body))))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 5000, req["amount"])
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "order_test", "amount": 5000, "currency": "INR", "status": "created",
		})
	}))
	defer srv.Close()

	p := NewRazorpayProvider(srv.URL, "key", "secret", "")
	out, err := p.CreateOrder(context.Background(), OrderRequest{AmountCents: 5000, Currency: "INR", Receipt: "rc_1"})
	require.NoError(t, err)
	assert.Equal(t, "order_test", out.OrderID)
	assert.Equal(t, int64(5000), out.AmountCents)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewRazorpayProvider(srv.URL, "key", "secret", "")
	_, err := p.CreateOrder(context.Background(), OrderRequest{AmountCents: 5000, Currency: "INR"})
	assert.Error(t, err)
}

func TestStubProviderRoundTrip(t *testing.T) {
	p := NewStubProvider("s")
	out, err := p.CreateOrder(context.Background(), OrderRequest{AmountCents: 100, Currency: "INR"})
	require.NoError(t, err)
	assert.True(t, p.VerifySignature(out.OrderID, "pay_x", p.Sign(out.OrderID, "pay_x")))
	assert.False(t, p.VerifySignature(out.OrderID, "pay_x", "bad"))
}
