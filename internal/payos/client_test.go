// AngelaMos | 2026
// client_test.go

package payos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techzone/backoffice/internal/config"
)

func TestSignSortsKeys(t *testing.T) {
	c := NewClient(config.PayOSConfig{ChecksumKey: "secret"})

	a := c.Sign(map[string]string{"orderCode": "1", "amount": "2000"})
	b := c.Sign(map[string]string{"amount": "2000", "orderCode": "1"})

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestVerifyWebhookData(t *testing.T) {
	c := NewClient(config.PayOSConfig{ChecksumKey: "secret"})
	data := json.RawMessage(`{"orderCode":42,"amount":500000,"status":"PAID","reference":null}`)

	sig := c.Sign(map[string]string{
		"amount":    "500000",
		"orderCode": "42",
		"reference": "",
		"status":    "PAID",
	})

	require.NoError(t, c.VerifyWebhookData(data, sig))
	assert.ErrorIs(t, c.VerifyWebhookData(data, "deadbeef"), ErrInvalidSignature)
}

func TestVerifySkippedWithoutKey(t *testing.T) {
	c := NewClient(config.PayOSConfig{})

	assert.NoError(t, c.VerifyWebhookData(json.RawMessage(`{}`), ""))
	assert.False(t, c.SignatureEnabled())
}

func TestCreatePaymentLink(t *testing.T) {
	var got createBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, paymentRequests, r.URL.Path)
		assert.Equal(t, "client", r.Header.Get("x-client-id"))
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"code":"00","desc":"success","data":{"checkoutUrl":"https://pay.example/abc","status":"PENDING"}}`))
	}))
	defer srv.Close()

	c := NewClient(config.PayOSConfig{
		BaseURL:     srv.URL,
		ClientID:    "client",
		APIKey:      "key",
		ChecksumKey: "secret",
	})

	link, err := c.CreatePaymentLink(context.Background(), PaymentRequest{
		OrderCode:   42,
		Amount:      500000,
		Description: "Order #42",
		ReturnURL:   "https://shop.example/ok",
		CancelURL:   "https://shop.example/cancel",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/abc", link.CheckoutURL)
	assert.Equal(t, int64(42), got.OrderCode)
	assert.NotEmpty(t, got.Signature)
}

func TestCreatePaymentLinkProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":"231","desc":"order exists","data":null}`))
	}))
	defer srv.Close()

	c := NewClient(config.PayOSConfig{
		BaseURL:     srv.URL,
		ClientID:    "client",
		APIKey:      "key",
		ChecksumKey: "secret",
	})

	_, err := c.CreatePaymentLink(context.Background(), PaymentRequest{OrderCode: 1, Amount: 1})
	assert.Error(t, err)
}

func TestCreatePaymentLinkRequiresCredentials(t *testing.T) {
	_, err := NewClient(config.PayOSConfig{}).CreatePaymentLink(
		context.Background(),
		PaymentRequest{OrderCode: 1, Amount: 1},
	)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
