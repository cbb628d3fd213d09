// AngelaMos | 2026
// repository.go

package discount

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techzone/backoffice/internal/core"
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*Discount, error)
	GetByID(ctx context.Context, id int64) (*Discount, error)
	List(ctx context.Context) ([]Discount, error)
	Create(ctx context.Context, d *Discount) error
	Update(ctx context.Context, d *Discount) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const discountColumns = `id, code, value, is_valid, created_at`

// GetByCode matches code exactly, case included.
func (r *repository) GetByCode(ctx context.Context, code string) (*Discount, error) {
	var d Discount
	err := r.db.GetContext(ctx, &d,
		`SELECT `+discountColumns+` FROM discounts WHERE code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get discount by code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get discount by code: %w", err)
	}

	return &d, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Discount, error) {
	var d Discount
	err := r.db.GetContext(ctx, &d,
		`SELECT `+discountColumns+` FROM discounts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get discount: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get discount: %w", err)
	}

	return &d, nil
}

func (r *repository) List(ctx context.Context) ([]Discount, error) {
	discounts := []Discount{}
	err := r.db.SelectContext(ctx, &discounts,
		`SELECT `+discountColumns+` FROM discounts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}

	return discounts, nil
}

func (r *repository) Create(ctx context.Context, d *Discount) error {
	query := `
		INSERT INTO discounts (code, value, is_valid)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.GetContext(ctx, d, query, d.Code, d.Value, d.IsValid)
	if err != nil {
		return fmt.Errorf("create discount: %w", codeError(err))
	}

	return nil
}

func (r *repository) Update(ctx context.Context, d *Discount) error {
	query := `
		UPDATE discounts
		SET code = $2, value = $3, is_valid = $4
		WHERE id = $1
		RETURNING created_at`

	err := r.db.GetContext(ctx, &d.CreatedAt, query, d.ID, d.Code, d.Value, d.IsValid)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update discount: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update discount: %w", codeError(err))
	}

	return nil
}

func codeError(err error) error {
	if core.IsDuplicateKeyError(err) {
		return fmt.Errorf("discount code already exists: %w", core.ErrConflict)
	}
	return err
}
