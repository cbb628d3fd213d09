// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/techzone/backoffice/internal/core"
)

type Repository interface {
	Create(ctx context.Context, o *Order, items []Item) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	Detail(ctx context.Context, id int64) (*Detail, error)
	ListByUser(ctx context.Context, userID int64) ([]Detail, error)
	ListAll(ctx context.Context) ([]Detail, error)
	UpdateStatus(ctx context.Context, id int64, from, to Status) (bool, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	OpenDeposit(ctx context.Context, userID int64) (*Order, error)
	ListByTypeAndStatus(ctx context.Context, t Type, s Status) ([]Detail, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, user_id, ordered_at, total_amount, order_type, status, discount_id`

const detailSelect = `
	SELECT o.id, o.user_id, o.ordered_at, o.total_amount, o.order_type, o.status,
	       o.discount_id, u.full_name AS customer_name, u.email,
	       d.code AS discount_code, d.value AS discount_value
	FROM orders o
	JOIN users u ON u.id = o.user_id
	LEFT JOIN discounts d ON d.id = o.discount_id`

// Create writes the order header and its items, marks the customer as a
// buyer and empties their cart in a single transaction.
func (r *repository) Create(ctx context.Context, o *Order, items []Item) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO orders (user_id, total_amount, order_type, status, discount_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, ordered_at`

		err := tx.QueryRowxContext(ctx, query,
			o.UserID,
			o.TotalAmount,
			o.Type,
			o.Status,
			o.DiscountID,
		).Scan(&o.ID, &o.OrderedAt)
		if err != nil {
			return fmt.Errorf("create order: %w", referenceError(err))
		}

		for i := range items {
			items[i].OrderID = o.ID
			err := tx.QueryRowxContext(ctx, `
				INSERT INTO order_items (order_id, variant_id, quantity, unit_price)
				VALUES ($1, $2, $3, $4)
				RETURNING id`,
				o.ID, items[i].VariantID, items[i].Quantity, items[i].UnitPrice,
			).Scan(&items[i].ID)
			if err != nil {
				return fmt.Errorf("create order item: %w", referenceError(err))
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET is_bought = TRUE WHERE id = $1`, o.UserID,
		); err != nil {
			return fmt.Errorf("mark buyer: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM cart_details cd
			USING carts c
			WHERE c.id = cd.cart_id AND c.user_id = $1`, o.UserID,
		); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := r.db.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	return &o, nil
}

func (r *repository) Detail(ctx context.Context, id int64) (*Detail, error) {
	details, err := r.details(ctx, `o.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("order detail: %w", err)
	}
	if len(details) == 0 {
		return nil, fmt.Errorf("order detail: %w", core.ErrNotFound)
	}

	return &details[0], nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]Detail, error) {
	details, err := r.details(ctx, `o.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return details, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Detail, error) {
	details, err := r.details(ctx, `TRUE`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return details, nil
}

func (r *repository) ListByTypeAndStatus(
	ctx context.Context,
	t Type,
	s Status,
) ([]Detail, error) {
	details, err := r.details(ctx, `o.order_type = $1 AND o.status = $2`, t, s)
	if err != nil {
		return nil, fmt.Errorf("list orders by type: %w", err)
	}
	return details, nil
}

// details loads the orders matching where plus their items and payments
// with one query each. where is always a constant from this file.
func (r *repository) details(ctx context.Context, where string, args ...any) ([]Detail, error) {
	details := []Detail{}
	err := r.db.SelectContext(ctx, &details,
		detailSelect+` WHERE `+where+` ORDER BY o.ordered_at DESC, o.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	scope := `(SELECT o.id FROM orders o WHERE ` + where + `)`

	var items []DetailItem
	err = r.db.SelectContext(ctx, &items, `
		SELECT oi.id, oi.order_id, oi.variant_id, p.name AS product_name,
		       v.color, oi.quantity, oi.unit_price
		FROM order_items oi
		LEFT JOIN product_variants v ON v.id = oi.variant_id
		LEFT JOIN products p ON p.id = v.product_id
		WHERE oi.order_id IN `+scope+`
		ORDER BY oi.order_id, oi.id`, args...)
	if err != nil {
		return nil, err
	}

	var payments []PaymentSummary
	err = r.db.SelectContext(ctx, &payments, `
		SELECT id, order_id, amount, method, status, created_at
		FROM payments
		WHERE order_id IN `+scope+`
		ORDER BY order_id, id`, args...)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]int, len(details))
	for i := range details {
		index[details[i].ID] = i
		details[i].Items = []DetailItem{}
		details[i].Payments = []PaymentSummary{}
	}
	for _, it := range items {
		if i, ok := index[it.OrderID]; ok {
			details[i].Items = append(details[i].Items, it)
		}
	}
	for _, p := range payments {
		if i, ok := index[p.OrderID]; ok {
			details[i].Payments = append(details[i].Payments, p)
		}
	}

	return details, nil
}

// UpdateStatus moves the order from one status to another. It reports
// false when the order was no longer in the from status.
func (r *repository) UpdateStatus(
	ctx context.Context,
	id int64,
	from, to Status,
) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}

	return rows == 1, nil
}

// DeleteByUser removes every order of the user and clears their buyer
// flag. It returns the number of deleted orders.
func (r *repository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	var deleted int64

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists bool
		err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID)
		if err != nil {
			return fmt.Errorf("delete user orders: %w", err)
		}
		if !exists {
			return fmt.Errorf("delete user orders: user: %w", core.ErrNotFound)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE user_id = $1`, userID)
		if err != nil {
			return fmt.Errorf("delete user orders: %w", err)
		}
		if deleted, err = result.RowsAffected(); err != nil {
			return fmt.Errorf("delete user orders: %w", err)
		}
		if deleted == 0 {
			return fmt.Errorf("delete user orders: orders: %w", core.ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET is_bought = FALSE WHERE id = $1`, userID,
		); err != nil {
			return fmt.Errorf("reset buyer flag: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

// OpenDeposit returns the user's oldest preorder deposit that is neither
// delivered nor cancelled, or nil when there is none.
func (r *repository) OpenDeposit(ctx context.Context, userID int64) (*Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1 AND order_type = $2 AND status NOT IN ($3, $4)
		ORDER BY ordered_at, id
		LIMIT 1`

	var o Order
	err := r.db.GetContext(ctx, &o, query,
		userID, TypePreorderDeposit, StatusDelivered, StatusCancelled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open deposit: %w", err)
	}

	return &o, nil
}

func referenceError(err error) error {
	if !core.IsForeignKeyError(err) {
		return err
	}

	switch core.ConstraintName(err) {
	case "orders_user_id_fkey":
		return fmt.Errorf("user: %w", core.ErrNotFound)
	case "orders_discount_id_fkey":
		return fmt.Errorf("discount: %w", core.ErrNotFound)
	case "order_items_variant_id_fkey":
		return fmt.Errorf("product variant: %w", core.ErrNotFound)
	default:
		return fmt.Errorf("referenced record: %w", core.ErrNotFound)
	}
}
