// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type VariantStatus int16

const (
	VariantUnavailable VariantStatus = 0
	VariantAvailable   VariantStatus = 1
	VariantPreorder    VariantStatus = 2
)

func (s VariantStatus) Valid() bool {
	return s >= VariantUnavailable && s <= VariantPreorder
}

type Product struct {
	ID            int64            `db:"id"`
	Name          string           `db:"name"`
	Description   *string          `db:"description"`
	Price         decimal.Decimal  `db:"price"`
	OriginalPrice *decimal.Decimal `db:"original_price"`
	Discount      *int16           `db:"discount"`
	Image         string           `db:"image"`
	CategoryID    *int64           `db:"category_id"`
	CategoryName  *string          `db:"category_name"`
	CreatedAt     time.Time        `db:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at"`

	Variants []Variant `db:"-"`
}

type Variant struct {
	ID        int64         `db:"id"`
	ProductID int64         `db:"product_id"`
	Color     string        `db:"color"`
	Image     string        `db:"image"`
	Status    VariantStatus `db:"status"`
	CreatedAt time.Time     `db:"created_at"`
}

// VariantChange is one entry of a product update: ID zero inserts, any
// other ID updates the product's existing variant.
type VariantChange struct {
	ID     int64
	Color  string
	Image  string
	Status VariantStatus
}
