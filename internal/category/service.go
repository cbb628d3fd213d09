// AngelaMos | 2026
// service.go

package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/techzone/backoffice/internal/core"
)

// CatalogInvalidator drops cached product listings, which embed the
// category name and parent.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

type Service struct {
	repo    Repository
	catalog CatalogInvalidator
}

// NewService accepts a nil catalog when no product cache is in use.
func NewService(repo Repository, catalog CatalogInvalidator) *Service {
	return &Service{repo: repo, catalog: catalog}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Category, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CategoryRequest) (*Category, error) {
	c := &Category{
		Name:     strings.TrimSpace(req.Name),
		Image:    req.Image,
		ParentID: req.ParentID,
	}

	if err := s.checkParent(ctx, c, false); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req CategoryRequest,
) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Image = req.Image
	c.ParentID = req.ParentID

	if err := s.checkParent(ctx, c, true); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)

	return c, nil
}

// Delete refuses while the category still has subcategories. Products in
// the category are detached, not deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	hasChildren, err := s.repo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return fmt.Errorf("category still has subcategories: %w", core.ErrConflict)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)

	return nil
}

func (s *Service) invalidateCatalog(ctx context.Context) {
	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}
}

func (s *Service) Products(ctx context.Context, id int64) ([]ProductSummary, error) {
	return s.repo.ListProducts(ctx, id)
}

// checkParent keeps the tree one level deep: a parent must exist, must
// not be the category itself and must be a root. A category that has
// children cannot become a child.
func (s *Service) checkParent(ctx context.Context, c *Category, existing bool) error {
	if c.ParentID == nil {
		return nil
	}

	if existing && *c.ParentID == c.ID {
		return fmt.Errorf("a category cannot be its own parent: %w", core.ErrInvalidInput)
	}

	parent, err := s.repo.GetByID(ctx, *c.ParentID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("parent category does not exist: %w", core.ErrInvalidInput)
		}
		return err
	}

	if !parent.IsRoot() {
		return fmt.Errorf("parent category must be a top level category: %w", core.ErrInvalidInput)
	}

	if existing {
		hasChildren, err := s.repo.HasChildren(ctx, c.ID)
		if err != nil {
			return err
		}
		if hasChildren {
			return fmt.Errorf(
				"a category with subcategories cannot be nested: %w",
				core.ErrInvalidInput,
			)
		}
	}

	return nil
}
