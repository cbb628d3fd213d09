// AngelaMos | 2026
// service_test.go

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techzone/backoffice/internal/config"
	"github.com/techzone/backoffice/internal/core"
	"github.com/techzone/backoffice/internal/order"
	"github.com/techzone/backoffice/internal/payos"
)

// memRepo enforces one payment per order the way the unique index does.
type memRepo struct {
	Repository
	mu       sync.Mutex
	payments []Payment
}

func (r *memRepo) InsertOnce(_ context.Context, p *Payment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.payments {
		if existing.OrderID == p.OrderID {
			return false, nil
		}
	}
	p.ID = int64(len(r.payments) + 1)
	r.payments = append(r.payments, *p)
	return true, nil
}

func (r *memRepo) count(orderID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, p := range r.payments {
		if p.OrderID == orderID {
			n++
		}
	}
	return n
}

type memOrders map[int64]order.Detail

func (o memOrders) Get(_ context.Context, id int64) (*order.Detail, error) {
	d, ok := o[id]
	if !ok {
		return nil, fmt.Errorf("order detail: %w", core.ErrNotFound)
	}
	return &d, nil
}

type fakeProvider struct {
	badSignature bool
	fail         bool
	last         payos.PaymentRequest
}

func (p *fakeProvider) CreatePaymentLink(
	_ context.Context,
	req payos.PaymentRequest,
) (*payos.PaymentLink, error) {
	p.last = req
	if p.fail {
		return nil, errors.New("provider down")
	}
	return &payos.PaymentLink{CheckoutURL: "https://pay.example/42"}, nil
}

func (p *fakeProvider) VerifyWebhookData(json.RawMessage, string) error {
	if p.badSignature {
		return payos.ErrInvalidSignature
	}
	return nil
}

func strp(s string) *string { return &s }

func newFixture() (*Service, *memRepo, *fakeProvider) {
	orders := memOrders{
		42: {
			Order: order.Order{ID: 42, UserID: 7, TotalAmount: decimal.NewFromInt(500000)},
			Items: []order.DetailItem{
				{ProductName: strp("Pixel 9"), Color: strp("Black"), Quantity: 2, UnitPrice: decimal.NewFromInt(100000)},
				{ProductName: strp("Buds"), Quantity: 1, UnitPrice: decimal.NewFromInt(300000)},
			},
		},
	}
	repo := &memRepo{}
	provider := &fakeProvider{}
	shop := config.ShopConfig{FrontendURL: "https://shop.example", PaymentResultPath: "/payment-result"}

	return NewService(repo, orders, provider, shop), repo, provider
}

func paidWebhook(orderID int64) WebhookRequest {
	return WebhookRequest{
		Code:    "00",
		Success: true,
		Data:    json.RawMessage(fmt.Sprintf(`{"orderCode":%d,"amount":500000,"status":"PAID"}`, orderID)),
	}
}

func TestConfirmUsesOrderTotal(t *testing.T) {
	svc, repo, _ := newFixture()

	p, err := svc.Confirm(context.Background(), 42)

	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(500000)))
	assert.Equal(t, MethodBankTransfer, p.Method)
	assert.Equal(t, StatusPaid, p.Status)
	assert.Equal(t, 1, repo.count(42))
}

func TestConfirmTwiceIsConflict(t *testing.T) {
	svc, repo, _ := newFixture()
	ctx := context.Background()

	_, err := svc.Confirm(ctx, 42)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, 42)
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, 1, repo.count(42))
}

func TestConfirmUnknownOrder(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.Confirm(context.Background(), 9)

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestWebhookTwiceRecordsOnePayment(t *testing.T) {
	svc, repo, _ := newFixture()
	ctx := context.Background()

	require.NoError(t, svc.HandleWebhook(ctx, paidWebhook(42)))
	require.NoError(t, svc.HandleWebhook(ctx, paidWebhook(42)))

	assert.Equal(t, 1, repo.count(42))
}

func TestWebhookIgnoresUnpaidStatus(t *testing.T) {
	svc, repo, _ := newFixture()

	err := svc.HandleWebhook(context.Background(), WebhookRequest{
		Data: json.RawMessage(`{"orderCode":42,"status":"CANCELLED"}`),
	})

	require.NoError(t, err)
	assert.Zero(t, repo.count(42))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	svc, repo, provider := newFixture()
	provider.badSignature = true

	err := svc.HandleWebhook(context.Background(), paidWebhook(42))

	assert.ErrorIs(t, err, payos.ErrInvalidSignature)
	assert.Zero(t, repo.count(42))
}

func TestConcurrentConfirmAndWebhookRecordOnePayment(t *testing.T) {
	svc, repo, _ := newFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Confirm(ctx, 42)
		}()
		go func() {
			defer wg.Done()
			_ = svc.HandleWebhook(ctx, paidWebhook(42))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.count(42))
}

func TestCreateLinkDefaultsToOrderTotal(t *testing.T) {
	svc, _, provider := newFixture()

	resp, err := svc.CreateLink(context.Background(), LinkRequest{OrderID: 42})

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/42", resp.CheckoutURL)
	assert.Equal(t, int64(500000), provider.last.Amount)
	require.Len(t, provider.last.Items, 2)
	assert.Equal(t, "Pixel 9 - Black", provider.last.Items[0].Name)
	assert.Equal(t, int64(200000), provider.last.Items[0].Price)
	assert.Equal(t, "https://shop.example/payment-result?orderId=42&status=cancel", provider.last.CancelURL)
}

func TestCreateLinkDeposit(t *testing.T) {
	svc, _, provider := newFixture()
	deposit := decimal.NewFromInt(100000)

	_, err := svc.CreateLink(context.Background(), LinkRequest{OrderID: 42, Amount: &deposit})

	require.NoError(t, err)
	assert.Equal(t, int64(100000), provider.last.Amount)
}

func TestCreateLinkRejectsAmountAboveTotal(t *testing.T) {
	svc, _, _ := newFixture()
	tooMuch := decimal.NewFromInt(500001)

	_, err := svc.CreateLink(context.Background(), LinkRequest{OrderID: 42, Amount: &tooMuch})

	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCreateLinkProviderFailure(t *testing.T) {
	svc, _, provider := newFixture()
	provider.fail = true

	_, err := svc.CreateLink(context.Background(), LinkRequest{OrderID: 42})

	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc, repo, _ := newFixture()

	_, err := svc.Create(context.Background(), PaymentRequest{OrderID: 42})

	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Zero(t, repo.count(42))
}
