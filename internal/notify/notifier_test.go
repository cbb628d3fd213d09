// AngelaMos | 2026
// notifier_test.go

package notify

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techzone/backoffice/internal/config"
)

func testShop() config.ShopConfig {
	return config.ShopConfig{
		Name:             "TechZone",
		FrontendURL:      "http://localhost:3000",
		OTPTTL:           10 * time.Minute,
		SupportEmail:     "support@techzone.local",
		ConfirmOrderPath: "/confirm-order",
	}
}

func newTestNotifier(t *testing.T) (*Notifier, *LogMailer) {
	t.Helper()

	mailer := NewLogMailer(nil)
	n, err := NewNotifier(mailer, testShop())
	require.NoError(t, err)
	return n, mailer
}

func TestSendVerificationOTP(t *testing.T) {
	n, mailer := newTestNotifier(t)

	require.NoError(t, n.SendVerificationOTP(context.Background(), "minh@example.com", "482913"))

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "minh@example.com", sent[0].To)
	assert.Equal(t, "[TechZone] Your verification code", sent[0].Subject)
	assert.Contains(t, sent[0].HTMLBody, "482913")
	assert.Contains(t, sent[0].HTMLBody, "10 minutes")
	assert.Contains(t, sent[0].HTMLBody, "support@techzone.local")
}

func TestSendOrderConfirmationRendersItemsAndLink(t *testing.T) {
	n, mailer := newTestNotifier(t)

	order := OrderMail{
		OrderID:      12,
		CustomerName: "Minh Anh",
		Email:        "minh@example.com",
		OrderedAt:    time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Items: []OrderMailItem{{
			ProductName: "Phone X",
			Color:       "Black",
			Quantity:    2,
			UnitPrice:   decimal.NewFromInt(250000),
			LineTotal:   decimal.NewFromInt(500000),
		}},
		Total: decimal.NewFromInt(500000),
	}

	require.NoError(t, n.SendOrderConfirmation(context.Background(), order))

	body := mailer.Sent()[0].HTMLBody
	assert.Contains(t, body, "Phone X")
	assert.Contains(t, body, "500.000 VND")
	assert.Contains(t, body, "01/03/2026 09:30")
	assert.Contains(t, body, "confirm-order?orderId=12")
}

func TestSendWithoutRecipientFails(t *testing.T) {
	n, mailer := newTestNotifier(t)

	err := n.SendInvoice(context.Background(), OrderMail{OrderID: 3})

	assert.Error(t, err)
	assert.Empty(t, mailer.Sent())
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.Zero, "0 VND"},
		{decimal.NewFromInt(999), "999 VND"},
		{decimal.NewFromInt(1000), "1.000 VND"},
		{decimal.RequireFromString("1234567.6"), "1.234.568 VND"},
		{decimal.NewFromInt(-50000), "-50.000 VND"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(tt.in))
		})
	}
}

func TestNewMailerWithoutHostLogsOnly(t *testing.T) {
	m, err := NewMailer(config.SMTPConfig{}, nil)

	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)
}
