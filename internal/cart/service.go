// AngelaMos | 2026
// service.go

package cart

import (
	"context"
	"fmt"

	"github.com/techzone/backoffice/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Add(ctx context.Context, req AddRequest) (*AddResponse, error) {
	if req.UserID <= 0 || req.VariantID <= 0 || req.Quantity <= 0 {
		return nil, fmt.Errorf(
			"user, variant and a positive quantity are required: %w",
			core.ErrInvalidInput,
		)
	}

	qty, err := s.repo.Add(ctx, req.UserID, req.VariantID, req.Quantity)
	if err != nil {
		return nil, err
	}

	return &AddResponse{VariantID: req.VariantID, Quantity: qty}, nil
}

func (s *Service) Items(ctx context.Context, userID int64) (CartResponse, error) {
	items, err := s.repo.Items(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	return ToCartResponse(items), nil
}

func (s *Service) ItemCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.ItemCount(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, variantID int64) error {
	return s.repo.Remove(ctx, userID, variantID)
}

func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.repo.Clear(ctx, userID)
}
