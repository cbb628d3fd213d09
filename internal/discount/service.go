// AngelaMos | 2026
// service.go

package discount

import (
	"context"
	"fmt"
	"strings"

	"github.com/techzone/backoffice/internal/core"
	"github.com/techzone/backoffice/internal/user"
)

// Customers resolves the user a discount is being validated for.
type Customers interface {
	GetUser(ctx context.Context, id int64) (*user.User, error)
}

type Service struct {
	repo              Repository
	customers         Customers
	firstPurchaseCode string
}

func NewService(repo Repository, customers Customers, firstPurchaseCode string) *Service {
	return &Service{
		repo:              repo,
		customers:         customers,
		firstPurchaseCode: firstPurchaseCode,
	}
}

// Validate checks that code exists, is enabled and may be used by the
// user. The first purchase code is only usable before the user's first
// order.
func (s *Service) Validate(
	ctx context.Context,
	code string,
	userID int64,
) (*ValidateResponse, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("discount code is required: %w", core.ErrInvalidInput)
	}

	d, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !d.IsValid {
		return nil, fmt.Errorf("discount %q disabled: %w", code, core.ErrNotFound)
	}

	u, err := s.customers.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.firstPurchaseCode != "" && d.Code == s.firstPurchaseCode && u.IsBought {
		return nil, fmt.Errorf(
			"code is only valid on a first purchase: %w",
			core.ErrIneligible,
		)
	}

	return &ValidateResponse{
		DiscountID:    d.ID,
		DiscountCode:  d.Code,
		DiscountValue: d.Value,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Discount, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Discount, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, req DiscountRequest) (*Discount, error) {
	d := &Discount{IsValid: true}
	if err := apply(d, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req DiscountRequest,
) (*Discount, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(d, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func apply(d *Discount, req DiscountRequest) error {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return fmt.Errorf("discount code is required: %w", core.ErrInvalidInput)
	}
	if req.Value.IsNegative() {
		return fmt.Errorf("discount value must not be negative: %w", core.ErrInvalidInput)
	}

	d.Code = code
	d.Value = req.Value
	if req.IsValid != nil {
		d.IsValid = *req.IsValid
	}

	return nil
}
