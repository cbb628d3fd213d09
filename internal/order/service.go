// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/techzone/backoffice/internal/core"
	"github.com/techzone/backoffice/internal/notify"
)

type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order notify.OrderMail) error
	SendInvoice(ctx context.Context, order notify.OrderMail) error
	SendPreorderAvailable(ctx context.Context, order notify.OrderMail) error
}

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item: %w", core.ErrInvalidInput)
	}
	if !req.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("total amount must be positive: %w", core.ErrInvalidInput)
	}
	if !req.OrderType.Valid() {
		return nil, fmt.Errorf("unknown order type %d: %w", req.OrderType, core.ErrInvalidInput)
	}
	if req.DiscountID != nil && *req.DiscountID <= 0 {
		req.DiscountID = nil
	}

	items := make([]Item, len(req.Items))
	for i, it := range req.Items {
		if it.VariantID <= 0 {
			return nil, fmt.Errorf("item %d: variant is required: %w", i+1, core.ErrInvalidInput)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("item %d: quantity must be positive: %w", i+1, core.ErrInvalidInput)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("item %d: unit price must not be negative: %w", i+1, core.ErrInvalidInput)
		}

		variantID := it.VariantID
		items[i] = Item{
			VariantID: &variantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}

	o := &Order{
		UserID:      req.UserID,
		TotalAmount: req.TotalAmount,
		Type:        req.OrderType,
		Status:      StatusPending,
		DiscountID:  req.DiscountID,
	}

	ctx, span := core.StartSpan(ctx, "order.create",
		attribute.Int64("order.user_id", req.UserID),
		attribute.Int("order.items", len(items)),
	)
	err := s.repo.Create(ctx, o, items)
	core.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	resp := ToCreateResponse(o, items)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	return s.repo.Detail(ctx, id)
}

// OwnerOf returns the id of the user who placed the order.
func (s *Service) OwnerOf(ctx context.Context, id int64) (int64, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return o.UserID, nil
}

func (s *Service) UserOrders(ctx context.Context, userID int64) ([]Detail, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) All(ctx context.Context) ([]Detail, error) {
	return s.repo.ListAll(ctx)
}

// UpdateStatus advances the order one step or cancels it. Reaching
// Delivered sends the invoice; a failed send is logged and does not undo
// the transition.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status int) (*Order, error) {
	if status < int(StatusPending) || status > int(StatusCancelled) {
		return nil, fmt.Errorf("unknown order status %d: %w", status, core.ErrInvalidInput)
	}
	next := Status(status)

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf(
			"cannot move order from %s to %s: %w",
			o.Status, next, core.ErrConflict,
		)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, o.Status, next)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, fmt.Errorf("order status changed concurrently: %w", core.ErrConflict)
	}
	o.Status = next

	if next == StatusDelivered {
		s.sendInvoice(ctx, id)
	}

	return o, nil
}

func (s *Service) sendInvoice(ctx context.Context, id int64) {
	d, err := s.repo.Detail(ctx, id)
	if err == nil {
		err = s.notifier.SendInvoice(ctx, MailOf(d))
	}
	if err != nil {
		slog.WarnContext(ctx, "invoice email failed",
			"order_id", id,
			"error", err,
		)
	}
}

// Confirm moves a pending order to Confirmed. Any other starting status
// means the order was already handled.
func (s *Service) Confirm(ctx context.Context, id int64) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if o.Status != StatusPending {
		return fmt.Errorf("order already confirmed or processed: %w", core.ErrAlreadyProcessed)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, StatusPending, StatusConfirmed)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("order already confirmed or processed: %w", core.ErrAlreadyProcessed)
	}

	return nil
}

func (s *Service) SendConfirmEmail(ctx context.Context, id int64) error {
	d, err := s.repo.Detail(ctx, id)
	if err != nil {
		return err
	}

	if err := s.notifier.SendOrderConfirmation(ctx, MailOf(d)); err != nil {
		return fmt.Errorf("send order confirmation: %v: %w", err, core.ErrUpstream)
	}

	return nil
}

func (s *Service) DeleteAllByUser(ctx context.Context, userID int64) (int64, error) {
	return s.repo.DeleteByUser(ctx, userID)
}

func (s *Service) CheckDeposit(ctx context.Context, userID int64) (*DepositResponse, error) {
	o, err := s.repo.OpenDeposit(ctx, userID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return &DepositResponse{HasDeposit: false}, nil
	}

	resp := ToOrderResponse(o)
	return &DepositResponse{HasDeposit: true, ExistingOrder: &resp}, nil
}

// NotifyPreorderCustomers emails each customer holding a confirmed
// preorder deposit once, naming their oldest such order.
func (s *Service) NotifyPreorderCustomers(ctx context.Context) (*NotifyResult, error) {
	details, err := s.repo.ListByTypeAndStatus(ctx, TypePreorderDeposit, StatusConfirmed)
	if err != nil {
		return nil, err
	}

	oldest := make(map[int64]*Detail, len(details))
	customers := make([]int64, 0, len(details))
	for i := range details {
		d := &details[i]
		prev, ok := oldest[d.UserID]
		if !ok {
			customers = append(customers, d.UserID)
		}
		if !ok || d.OrderedAt.Before(prev.OrderedAt) {
			oldest[d.UserID] = d
		}
	}

	result := &NotifyResult{}
	for _, userID := range customers {
		d := oldest[userID]
		if err := s.notifier.SendPreorderAvailable(ctx, MailOf(d)); err != nil {
			slog.WarnContext(ctx, "preorder email failed",
				"order_id", d.ID,
				"user_id", userID,
				"error", err,
			)
			result.Failed++
			continue
		}
		result.Sent++
	}

	return result, nil
}

// MailOf converts an order detail into the email view.
func MailOf(d *Detail) notify.OrderMail {
	m := notify.OrderMail{
		OrderID:      d.ID,
		CustomerName: d.CustomerName,
		Email:        d.Email,
		OrderedAt:    d.OrderedAt,
		Items:        make([]notify.OrderMailItem, len(d.Items)),
		Total:        d.TotalAmount,
	}

	if d.DiscountCode != nil {
		m.DiscountCode = *d.DiscountCode
	}
	if d.DiscountValue != nil {
		m.DiscountValue = *d.DiscountValue
	}

	for i, it := range d.Items {
		m.Items[i] = notify.OrderMailItem{
			ProductName: deref(it.ProductName),
			Color:       deref(it.Color),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
		}
	}

	return m
}
