// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/techzone/backoffice/internal/core"
)

const listCacheKey = "catalog:products"

// ListCache is the slice of core.Cache the catalog needs.
type ListCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

type Service struct {
	repo  Repository
	cache ListCache
}

func NewService(repo Repository, cache ListCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List serves the full catalog from cache when possible. Cache failures
// fall through to the database.
func (s *Service) List(ctx context.Context) ([]ProductResponse, error) {
	if s.cache != nil {
		var cached []ProductResponse
		hit, err := s.cache.GetJSON(ctx, listCacheKey, &cached)
		if err != nil {
			slog.WarnContext(ctx, "product cache read failed", "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponseList(products)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, listCacheKey, resp); err != nil {
			slog.WarnContext(ctx, "product cache write failed", "error", err)
		}
	}

	return resp, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Colors(ctx context.Context, id int64) ([]string, error) {
	colors, err := s.repo.Colors(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("product colors: %w", core.ErrNotFound)
	}

	return colors, nil
}

func (s *Service) ByCategory(ctx context.Context, categoryID int64) ([]ProductBrief, error) {
	products, err := s.repo.ByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("products by category: %w", core.ErrNotFound)
	}

	return products, nil
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := validatePricing(req); err != nil {
		return nil, err
	}

	p := &Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Discount:      req.Discount,
		Image:         req.Image,
		CategoryID:    req.CategoryID,
		Variants:      make([]Variant, 0, len(req.Variants)),
	}
	for _, v := range req.Variants {
		p.Variants = append(p.Variants, Variant{
			Color:  strings.TrimSpace(v.Color),
			Image:  v.Image,
			Status: v.Status,
		})
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return p, nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateProductRequest,
) (*Product, error) {
	if err := validatePricing(req.CreateProductRequest); err != nil {
		return nil, err
	}

	p := &Product{
		ID:            id,
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Discount:      req.Discount,
		Image:         req.Image,
		CategoryID:    req.CategoryID,
	}

	changes := make([]VariantChange, 0, len(req.Variants))
	for _, v := range req.Variants {
		change := VariantChange{
			ID:     v.ID,
			Color:  strings.TrimSpace(v.Color),
			Image:  v.Image,
			Status: v.Status,
		}
		if v.IsNew {
			change.ID = 0
		}
		changes = append(changes, change)
	}

	if err := s.repo.Update(ctx, p, changes, req.DeletedVariants); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

// FlushCache drops the cached catalog so the next List reads through.
func (s *Service) FlushCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, listCacheKey)
}

// InvalidateCatalog drops the cached listing after a write outside this
// package changed data it embeds. Failures are logged.
func (s *Service) InvalidateCatalog(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		slog.WarnContext(ctx, "product cache invalidation failed", "error", err)
	}
}

func validatePricing(req CreateProductRequest) error {
	if req.Price.IsNegative() {
		return fmt.Errorf("price must not be negative: %w", core.ErrInvalidInput)
	}
	if req.OriginalPrice != nil && req.OriginalPrice.IsNegative() {
		return fmt.Errorf("original price must not be negative: %w", core.ErrInvalidInput)
	}
	for _, v := range req.Variants {
		if !v.Status.Valid() {
			return fmt.Errorf("variant status must be 0, 1 or 2: %w", core.ErrInvalidInput)
		}
	}
	return nil
}
