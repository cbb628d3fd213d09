// AngelaMos | 2026
// repository.go

package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/techzone/backoffice/internal/core"
)

type Repository interface {
	Add(ctx context.Context, userID, variantID int64, quantity int) (int, error)
	Items(ctx context.Context, userID int64) ([]Item, error)
	ItemCount(ctx context.Context, userID int64) (int, error)
	Remove(ctx context.Context, userID, variantID int64) error
	Clear(ctx context.Context, userID int64) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Add creates the cart on first use and snapshots the product price for a
// new line. Adding a variant already in the cart increases its quantity.
// It returns the resulting line quantity.
func (r *repository) Add(
	ctx context.Context,
	userID, variantID int64,
	quantity int,
) (int, error) {
	var total int

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var cartID int64
		err := tx.GetContext(ctx, &cartID, `
			INSERT INTO carts (user_id) VALUES ($1)
			ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
			RETURNING id`, userID)
		if err != nil {
			if core.IsForeignKeyError(err) {
				return fmt.Errorf("add to cart: user: %w", core.ErrNotFound)
			}
			return fmt.Errorf("ensure cart: %w", err)
		}

		var price decimal.Decimal
		err = tx.GetContext(ctx, &price, `
			SELECT p.price
			FROM product_variants v
			JOIN products p ON p.id = v.product_id
			WHERE v.id = $1`, variantID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("add to cart: variant: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("variant price: %w", err)
		}

		err = tx.GetContext(ctx, &total, `
			INSERT INTO cart_details (cart_id, variant_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (cart_id, variant_id)
			DO UPDATE SET quantity = cart_details.quantity + EXCLUDED.quantity
			RETURNING quantity`, cartID, variantID, quantity, price)
		if err != nil {
			return fmt.Errorf("upsert cart line: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *repository) Items(ctx context.Context, userID int64) ([]Item, error) {
	var cartID int64
	err := r.db.GetContext(ctx, &cartID, `SELECT id FROM carts WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cart items: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cart items: %w", err)
	}

	query := `
		SELECT cd.variant_id, p.id AS product_id, p.name AS product_name,
		       v.color AS variant_color, v.image, cd.unit_price, cd.quantity
		FROM cart_details cd
		JOIN product_variants v ON v.id = cd.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE cd.cart_id = $1
		ORDER BY cd.created_at, cd.id`

	items := []Item{}
	if err := r.db.SelectContext(ctx, &items, query, cartID); err != nil {
		return nil, fmt.Errorf("cart items: %w", err)
	}

	return items, nil
}

func (r *repository) ItemCount(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COALESCE(SUM(cd.quantity), 0)
		FROM cart_details cd
		JOIN carts c ON c.id = cd.cart_id
		WHERE c.user_id = $1`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("cart item count: %w", err)
	}

	return count, nil
}

func (r *repository) Remove(ctx context.Context, userID, variantID int64) error {
	query := `
		DELETE FROM cart_details cd
		USING carts c
		WHERE c.id = cd.cart_id AND c.user_id = $1 AND cd.variant_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, variantID)
	if err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("remove cart line: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, userID int64) error {
	var cartID int64
	err := r.db.GetContext(ctx, &cartID, `SELECT id FROM carts WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("clear cart: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_details WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return nil
}
