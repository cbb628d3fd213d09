// AngelaMos | 2026
// dto.go

package discount

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValidateRequest and ValidateResponse are consumed by the storefront
// checkout and keep its camelCase field names.
type ValidateRequest struct {
	Code   string `json:"code"   validate:"required"`
	UserID int64  `json:"userId" validate:"required,gt=0"`
}

type ValidateResponse struct {
	DiscountID    int64           `json:"discountId"`
	DiscountCode  string          `json:"discountCode"`
	DiscountValue decimal.Decimal `json:"discountValue"`
}

type DiscountRequest struct {
	Code    string          `json:"code"     validate:"required,max=50"`
	Value   decimal.Decimal `json:"value"`
	IsValid *bool           `json:"is_valid"`
}

type DiscountResponse struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Value     decimal.Decimal `json:"value"`
	IsValid   bool            `json:"is_valid"`
	CreatedAt time.Time       `json:"created_at"`
}

func ToDiscountResponse(d *Discount) DiscountResponse {
	return DiscountResponse{
		ID:        d.ID,
		Code:      d.Code,
		Value:     d.Value,
		IsValid:   d.IsValid,
		CreatedAt: d.CreatedAt,
	}
}

func ToDiscountResponseList(discounts []Discount) []DiscountResponse {
	out := make([]DiscountResponse, len(discounts))
	for i := range discounts {
		out[i] = ToDiscountResponse(&discounts[i])
	}
	return out
}
