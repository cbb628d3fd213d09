// AngelaMos | 2026
// dto.go

package cart

import (
	"github.com/shopspring/decimal"
)

type AddRequest struct {
	UserID    int64 `json:"user_id"            validate:"required,gt=0"`
	VariantID int64 `json:"product_variant_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"           validate:"required,gt=0"`
}

type ItemResponse struct {
	Item
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartResponse struct {
	Items []ItemResponse  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type AddResponse struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

func ToCartResponse(items []Item) CartResponse {
	resp := CartResponse{
		Items: make([]ItemResponse, 0, len(items)),
		Total: decimal.Zero,
	}
	for _, it := range items {
		line := it.LineTotal()
		resp.Items = append(resp.Items, ItemResponse{Item: it, TotalPrice: line})
		resp.Total = resp.Total.Add(line)
	}
	return resp
}
