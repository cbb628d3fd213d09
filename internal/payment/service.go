// AngelaMos | 2026
// service.go

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/techzone/backoffice/internal/config"
	"github.com/techzone/backoffice/internal/core"
	"github.com/techzone/backoffice/internal/order"
	"github.com/techzone/backoffice/internal/payos"
)

const webhookPaid = "PAID"

type Orders interface {
	Get(ctx context.Context, id int64) (*order.Detail, error)
}

type Provider interface {
	CreatePaymentLink(ctx context.Context, req payos.PaymentRequest) (*payos.PaymentLink, error)
	VerifyWebhookData(data json.RawMessage, signature string) error
}

type Service struct {
	repo     Repository
	orders   Orders
	provider Provider
	shop     config.ShopConfig
}

func NewService(
	repo Repository,
	orders Orders,
	provider Provider,
	shop config.ShopConfig,
) *Service {
	return &Service{
		repo:     repo,
		orders:   orders,
		provider: provider,
		shop:     shop,
	}
}

// Confirm records a bank transfer for the full order total.
func (s *Service) Confirm(ctx context.Context, orderID int64) (*Payment, error) {
	d, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return s.recordPaid(ctx, d, "Bank transfer confirmed")
}

// HandleWebhook applies a provider callback. A repeated PAID callback
// is not an error. Callers acknowledge the provider whatever this
// returns.
func (s *Service) HandleWebhook(ctx context.Context, req WebhookRequest) error {
	if err := s.provider.VerifyWebhookData(req.Data, req.Signature); err != nil {
		return err
	}

	var data WebhookData
	if err := json.Unmarshal(req.Data, &data); err != nil {
		return fmt.Errorf("decode webhook data: %w", err)
	}

	if data.Status != webhookPaid {
		slog.InfoContext(ctx, "payment webhook ignored",
			"order_id", data.OrderCode,
			"status", data.Status,
		)
		return nil
	}

	d, err := s.orders.Get(ctx, data.OrderCode)
	if err != nil {
		return fmt.Errorf("webhook order %d: %w", data.OrderCode, err)
	}

	if !data.Amount.IsZero() && !data.Amount.Equal(d.TotalAmount) {
		slog.WarnContext(ctx, "webhook amount differs from order total",
			"order_id", d.ID,
			"reported", data.Amount.String(),
			"total", d.TotalAmount.String(),
		)
	}

	_, err = s.recordPaid(ctx, d, "Paid through payment link")
	if errors.Is(err, core.ErrConflict) {
		slog.InfoContext(ctx, "duplicate payment webhook", "order_id", d.ID)
		return nil
	}

	return err
}

func (s *Service) recordPaid(
	ctx context.Context,
	d *order.Detail,
	note string,
) (_ *Payment, err error) {
	ctx, span := core.StartSpan(ctx, "payment.record",
		attribute.Int64("payment.order_id", d.ID),
	)
	defer func() { core.EndSpan(span, err) }()

	p := &Payment{
		OrderID: d.ID,
		Amount:  d.TotalAmount,
		Method:  MethodBankTransfer,
		Status:  StatusPaid,
		Note:    &note,
	}

	inserted, err := s.repo.InsertOnce(ctx, p)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, fmt.Errorf("order %d is already paid: %w", d.ID, core.ErrConflict)
	}

	return p, nil
}

// CreateLink asks the provider for a checkout page. amount defaults to
// the order total and may not exceed it.
func (s *Service) CreateLink(ctx context.Context, req LinkRequest) (*LinkResponse, error) {
	d, err := s.orders.Get(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if len(d.Payments) > 0 {
		return nil, fmt.Errorf("order %d already has a payment: %w", d.ID, core.ErrConflict)
	}

	amount := d.TotalAmount
	if req.Amount != nil && !req.Amount.IsZero() {
		if req.Amount.IsNegative() || req.Amount.GreaterThan(d.TotalAmount) {
			return nil, fmt.Errorf(
				"amount must be between 0 and the order total: %w",
				core.ErrInvalidInput,
			)
		}
		amount = *req.Amount
	}

	items := make([]payos.Item, 0, len(d.Items))
	for _, it := range d.Items {
		name := "Item"
		if it.ProductName != nil {
			name = *it.ProductName
		}
		if it.Color != nil && *it.Color != "" {
			name += " - " + *it.Color
		}

		items = append(items, payos.Item{
			Name:     name,
			Quantity: it.Quantity,
			Price:    it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(0).IntPart(),
		})
	}

	result := s.shop.URL(s.shop.PaymentResultPath) + "?orderId=" + strconv.FormatInt(d.ID, 10)

	link, err := s.provider.CreatePaymentLink(ctx, payos.PaymentRequest{
		OrderCode:   d.ID,
		Amount:      amount.Round(0).IntPart(),
		Description: fmt.Sprintf("Order #%d", d.ID),
		Items:       items,
		ReturnURL:   result + "&status=success",
		CancelURL:   result + "&status=cancel",
	})
	if err != nil {
		return nil, fmt.Errorf("create payment link: %v: %w", err, core.ErrUpstream)
	}

	return &LinkResponse{CheckoutURL: link.CheckoutURL}, nil
}

// OrderOwner returns the user who placed orderID.
func (s *Service) OrderOwner(ctx context.Context, orderID int64) (int64, error) {
	d, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return 0, err
	}
	return d.UserID, nil
}

func (s *Service) List(ctx context.Context) ([]Payment, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ByOrder(ctx context.Context, orderID int64) ([]Payment, error) {
	if _, err := s.orders.Get(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListByOrder(ctx, orderID)
}

// Create records a manual payment. An order still holds at most one.
func (s *Service) Create(ctx context.Context, req PaymentRequest) (*Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", core.ErrInvalidInput)
	}

	p := &Payment{
		OrderID: req.OrderID,
		Amount:  req.Amount,
		Method:  req.Method,
		Status:  req.Status,
		Note:    req.Note,
	}

	inserted, err := s.repo.InsertOnce(ctx, p)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, fmt.Errorf("order %d already has a payment: %w", req.OrderID, core.ErrConflict)
	}

	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", core.ErrInvalidInput)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Amount = req.Amount
	p.Method = req.Method
	p.Status = req.Status

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}
