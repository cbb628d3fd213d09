// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/techzone/backoffice/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Colors(ctx context.Context, id int64) ([]string, error)
	ByCategory(ctx context.Context, categoryID int64) ([]ProductBrief, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product, changes []VariantChange, deleted []int64) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.original_price, p.discount,
	       p.image, p.category_id, c.name AS category_name, p.created_at, p.updated_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

const variantColumns = `id, product_id, color, image, status, created_at`

func (r *repository) List(ctx context.Context) ([]Product, error) {
	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, productSelect+` ORDER BY p.id`); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var variants []Variant
	query := `SELECT ` + variantColumns + ` FROM product_variants ORDER BY product_id, id`
	if err := r.db.SelectContext(ctx, &variants, query); err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}

	byProduct := make(map[int64][]Variant, len(products))
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}
	for i := range products {
		products[i].Variants = byProduct[products[i].ID]
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.db.GetContext(ctx, &p, productSelect+` WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE product_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &p.Variants, query, id); err != nil {
		return nil, fmt.Errorf("get product variants: %w", err)
	}

	return &p, nil
}

func (r *repository) Colors(ctx context.Context, id int64) ([]string, error) {
	query := `
		SELECT DISTINCT color
		FROM product_variants
		WHERE product_id = $1
		ORDER BY color`

	var colors []string
	if err := r.db.SelectContext(ctx, &colors, query, id); err != nil {
		return nil, fmt.Errorf("product colors: %w", err)
	}

	return colors, nil
}

func (r *repository) ByCategory(
	ctx context.Context,
	categoryID int64,
) ([]ProductBrief, error) {
	query := `SELECT id, name, price FROM products WHERE category_id = $1 ORDER BY id`

	var products []ProductBrief
	if err := r.db.SelectContext(ctx, &products, query, categoryID); err != nil {
		return nil, fmt.Errorf("products by category: %w", err)
	}

	return products, nil
}

// Create inserts the product and its variants in one transaction.
func (r *repository) Create(ctx context.Context, p *Product) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO products (name, description, price, original_price,
			                      discount, image, category_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at`

		row := tx.QueryRowxContext(ctx, query,
			p.Name,
			p.Description,
			p.Price,
			p.OriginalPrice,
			p.Discount,
			p.Image,
			p.CategoryID,
		)
		if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return fmt.Errorf("create product: %w", categoryError(err))
		}

		for i := range p.Variants {
			p.Variants[i].ProductID = p.ID
			if err := insertVariant(ctx, tx, &p.Variants[i]); err != nil {
				return err
			}
		}

		return nil
	})
}

// Update rewrites the product row, deletes the listed variants and then
// applies changes, all in one transaction. Changes naming a variant of
// another product are ignored.
func (r *repository) Update(
	ctx context.Context,
	p *Product,
	changes []VariantChange,
	deleted []int64,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE products
			SET name = $2, description = $3, price = $4, original_price = $5,
			    discount = $6, image = $7, category_id = $8, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		err := tx.QueryRowxContext(ctx, query,
			p.ID,
			p.Name,
			p.Description,
			p.Price,
			p.OriginalPrice,
			p.Discount,
			p.Image,
			p.CategoryID,
		).Scan(&p.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update product: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update product: %w", categoryError(err))
		}

		for _, variantID := range deleted {
			_, err := tx.ExecContext(ctx,
				`DELETE FROM product_variants WHERE id = $1 AND product_id = $2`,
				variantID, p.ID,
			)
			if err != nil {
				return fmt.Errorf("delete variant %d: %w", variantID, err)
			}
		}

		for _, c := range changes {
			if c.ID == 0 {
				v := Variant{ProductID: p.ID, Color: c.Color, Image: c.Image, Status: c.Status}
				if err := insertVariant(ctx, tx, &v); err != nil {
					return err
				}
				continue
			}

			_, err := tx.ExecContext(ctx, `
				UPDATE product_variants
				SET color = $3, image = $4, status = $5
				WHERE id = $1 AND product_id = $2`,
				c.ID, p.ID, c.Color, c.Image, c.Status,
			)
			if err != nil {
				return fmt.Errorf("update variant %d: %w", c.ID, err)
			}
		}

		return nil
	})
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

func insertVariant(ctx context.Context, tx *sqlx.Tx, v *Variant) error {
	query := `
		INSERT INTO product_variants (product_id, color, image, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := tx.QueryRowxContext(ctx, query, v.ProductID, v.Color, v.Image, v.Status).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("create variant: %w", err)
	}

	return nil
}

func categoryError(err error) error {
	if core.IsForeignKeyError(err) {
		return fmt.Errorf("category does not exist: %w", core.ErrInvalidInput)
	}
	return err
}
