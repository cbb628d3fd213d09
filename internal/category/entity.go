// AngelaMos | 2026
// entity.go

package category

import (
	"github.com/shopspring/decimal"
)

type Category struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Image    string `db:"image"`
	ParentID *int64 `db:"parent_category_id"`
}

func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// ProductSummary is the compact product row listed under a category.
type ProductSummary struct {
	ID            int64            `db:"id"            json:"id"`
	Name          string           `db:"name"          json:"name"`
	Price         decimal.Decimal  `db:"price"         json:"price"`
	OriginalPrice *decimal.Decimal `db:"original_price" json:"original_price,omitempty"`
	Discount      *int16           `db:"discount"      json:"discount,omitempty"`
	Image         string           `db:"image"         json:"image"`
}
