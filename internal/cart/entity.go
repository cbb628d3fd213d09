// AngelaMos | 2026
// entity.go

package cart

import (
	"github.com/shopspring/decimal"
)

// Item is one cart line joined with its variant and product.
type Item struct {
	VariantID    int64           `db:"variant_id"    json:"variant_id"`
	ProductID    int64           `db:"product_id"    json:"product_id"`
	ProductName  string          `db:"product_name"  json:"product_name"`
	VariantColor string          `db:"variant_color" json:"color"        `
	Image        string          `db:"image"         json:"image"`
	UnitPrice    decimal.Decimal `db:"unit_price"    json:"price"`
	Quantity     int             `db:"quantity"      json:"quantity"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
