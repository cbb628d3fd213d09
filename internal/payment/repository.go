// AngelaMos | 2026
// repository.go

package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techzone/backoffice/internal/core"
)

type Repository interface {
	InsertOnce(ctx context.Context, p *Payment) (bool, error)
	GetByID(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context) ([]Payment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]Payment, error)
	Update(ctx context.Context, p *Payment) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const paymentColumns = `id, order_id, amount, method, status, note, created_at`

// InsertOnce records p unless the order already has a payment. It
// reports whether a row was written. The unique constraint on order_id
// makes this safe under concurrent callers.
func (r *repository) InsertOnce(ctx context.Context, p *Payment) (bool, error) {
	query := `
		INSERT INTO payments (order_id, amount, method, status, note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_id) DO NOTHING
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.OrderID,
		p.Amount,
		p.Method,
		p.Status,
		p.Note,
	).Scan(&p.ID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		if core.IsForeignKeyError(err) {
			return false, fmt.Errorf("insert payment: order: %w", core.ErrNotFound)
		}
		return false, fmt.Errorf("insert payment: %w", err)
	}

	return true, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return &p, nil
}

func (r *repository) List(ctx context.Context) ([]Payment, error) {
	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments,
		`SELECT `+paymentColumns+` FROM payments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	return payments, nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID int64) ([]Payment, error) {
	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE order_id = $1
		ORDER BY created_at DESC, id DESC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order payments: %w", err)
	}

	return payments, nil
}

func (r *repository) Update(ctx context.Context, p *Payment) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET amount = $2, method = $3, status = $4
		WHERE id = $1`,
		p.ID, p.Amount, p.Method, p.Status,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update payment: %w", core.ErrNotFound)
	}

	return nil
}
