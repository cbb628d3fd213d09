// AngelaMos | 2026
// repository.go

package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/techzone/backoffice/internal/core"
)

const topProductsLimit = 5

type Repository interface {
	Users(ctx context.Context, p Period, monthStart time.Time) (UserStats, error)
	Orders(ctx context.Context, p Period) (OrderStats, error)
	Revenue(ctx context.Context, p Period, monthStart, dayStart time.Time) (RevenueStats, error)
	Catalog(ctx context.Context) (CatalogStats, error)
	TopProducts(ctx context.Context, p Period) ([]TopProduct, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Users(
	ctx context.Context,
	p Period,
	monthStart time.Time,
) (UserStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE in_range)             AS total_users,
			COUNT(*) FILTER (WHERE in_range AND role = 1) AS total_admins,
			COUNT(*) FILTER (WHERE in_range AND role = 2) AS total_customers,
			COUNT(*) FILTER (WHERE in_range AND role = 3) AS total_staff,
			COUNT(*) FILTER (WHERE created_at >= $3)     AS new_users_this_month
		FROM (
			SELECT role, created_at,
			       ($1::timestamptz IS NULL OR created_at >= $1) AND created_at <= $2 AS in_range
			FROM users
		) u`

	var s UserStats
	if err := r.db.GetContext(ctx, &s, query, p.From, p.To, monthStart); err != nil {
		return UserStats{}, fmt.Errorf("user statistics: %w", err)
	}

	return s, nil
}

func (r *repository) Orders(ctx context.Context, p Period) (OrderStats, error) {
	query := `
		SELECT
			COUNT(*)                            AS total_orders,
			COUNT(*) FILTER (WHERE status = 0) AS pending_orders,
			COUNT(*) FILTER (WHERE status = 1) AS confirmed_orders,
			COUNT(*) FILTER (WHERE status = 2) AS ready_for_pickup_orders,
			COUNT(*) FILTER (WHERE status = 3) AS out_for_delivery_orders,
			COUNT(*) FILTER (WHERE status = 4) AS delivered_orders,
			COUNT(*) FILTER (WHERE status = 5) AS cancelled_orders
		FROM orders
		WHERE ($1::timestamptz IS NULL OR ordered_at >= $1) AND ordered_at <= $2`

	var s OrderStats
	if err := r.db.GetContext(ctx, &s, query, p.From, p.To); err != nil {
		return OrderStats{}, fmt.Errorf("order statistics: %w", err)
	}

	return s, nil
}

// Revenue sums paid payments.
func (r *repository) Revenue(
	ctx context.Context,
	p Period,
	monthStart, dayStart time.Time,
) (RevenueStats, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (
				WHERE ($1::timestamptz IS NULL OR created_at >= $1) AND created_at <= $2
			), 0) AS total_revenue,
			COALESCE(SUM(amount) FILTER (WHERE created_at >= $3), 0) AS monthly_revenue,
			COALESCE(SUM(amount) FILTER (WHERE created_at >= $4), 0) AS daily_revenue
		FROM payments
		WHERE status = 1`

	var s RevenueStats
	if err := r.db.GetContext(ctx, &s, query, p.From, p.To, monthStart, dayStart); err != nil {
		return RevenueStats{}, fmt.Errorf("revenue statistics: %w", err)
	}

	return s, nil
}

func (r *repository) Catalog(ctx context.Context) (CatalogStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products)   AS total_products,
			(SELECT COUNT(*) FROM categories) AS total_categories`

	var s CatalogStats
	if err := r.db.GetContext(ctx, &s, query); err != nil {
		return CatalogStats{}, fmt.Errorf("catalog statistics: %w", err)
	}

	return s, nil
}

// TopProducts ranks products by units sold on non-cancelled orders in p.
func (r *repository) TopProducts(ctx context.Context, p Period) ([]TopProduct, error) {
	query := `
		SELECT p.id AS product_id, p.name AS product_name, SUM(oi.quantity) AS quantity_sold
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN product_variants v ON v.id = oi.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE o.status <> 5
		  AND ($1::timestamptz IS NULL OR o.ordered_at >= $1) AND o.ordered_at <= $2
		GROUP BY p.id, p.name
		ORDER BY quantity_sold DESC, p.id
		LIMIT $3`

	top := []TopProduct{}
	if err := r.db.SelectContext(ctx, &top, query, p.From, p.To, topProductsLimit); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	return top, nil
}
