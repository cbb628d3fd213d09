// AngelaMos | 2026
// repository.go

package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techzone/backoffice/internal/core"
)

type Filter int

const (
	FilterAll Filter = iota
	FilterRoots
	FilterChildren
)

type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id int64) (*Category, error)
	List(ctx context.Context, filter Filter) ([]Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id int64) error
	HasChildren(ctx context.Context, id int64) (bool, error)
	ListProducts(ctx context.Context, categoryID int64) ([]ProductSummary, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO categories (name, image, parent_category_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	if err := r.db.GetContext(ctx, &c.ID, query, c.Name, c.Image, c.ParentID); err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("parent category does not exist: %w", core.ErrInvalidInput)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Category, error) {
	query := `SELECT id, name, image, parent_category_id FROM categories WHERE id = $1`

	var c Category
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &c, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]Category, error) {
	query := `SELECT id, name, image, parent_category_id FROM categories`

	switch filter {
	case FilterRoots:
		query += ` WHERE parent_category_id IS NULL`
	case FilterChildren:
		query += ` WHERE parent_category_id IS NOT NULL`
	}
	query += ` ORDER BY id`

	categories := []Category{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) Update(ctx context.Context, c *Category) error {
	query := `
		UPDATE categories
		SET name = $2, image = $3, parent_category_id = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Image, c.ParentID)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("parent category does not exist: %w", core.ErrInvalidInput)
		}
		return fmt.Errorf("update category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update category: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return fmt.Errorf("category still has subcategories: %w", core.ErrConflict)
		}
		return fmt.Errorf("delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete category: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) HasChildren(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE parent_category_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check subcategories: %w", err)
	}

	return exists, nil
}

func (r *repository) ListProducts(
	ctx context.Context,
	categoryID int64,
) ([]ProductSummary, error) {
	query := `
		SELECT id, name, price, original_price, discount, image
		FROM products
		WHERE category_id = $1
		ORDER BY id`

	products := []ProductSummary{}
	if err := r.db.SelectContext(ctx, &products, query, categoryID); err != nil {
		return nil, fmt.Errorf("list category products: %w", err)
	}

	return products, nil
}
