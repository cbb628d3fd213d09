// AngelaMos | 2026
// dto.go

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateItemRequest struct {
	VariantID int64           `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreateRequest struct {
	UserID      int64               `json:"user_id"      validate:"required,gt=0"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	OrderType   Type                `json:"order_type"`
	DiscountID  *int64              `json:"discount_id"`
	Items       []CreateItemRequest `json:"order_items"`
}

type StatusRequest struct {
	Status *int `json:"status" validate:"required"`
}

type OrderResponse struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	OrderedAt   time.Time       `json:"ordered_at"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderType   Type            `json:"order_type"`
	Status      Status          `json:"status"`
	StatusName  string          `json:"status_name"`
	DiscountID  *int64          `json:"discount_id,omitempty"`
}

type ItemResponse struct {
	ID          int64           `json:"id"`
	VariantID   *int64          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	Color       string          `json:"color"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type DiscountSummary struct {
	ID    int64           `json:"id"`
	Code  string          `json:"code"`
	Value decimal.Decimal `json:"value"`
}

type PaymentResponse struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    int16           `json:"method"`
	Status    int16           `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type DetailResponse struct {
	OrderResponse
	CustomerName string            `json:"customer_name"`
	Discount     *DiscountSummary  `json:"discount"`
	Items        []ItemResponse    `json:"items"`
	Payments     []PaymentResponse `json:"payments"`
}

type CreateResponse struct {
	OrderResponse
	Items []ItemResponse `json:"items"`
}

type DepositResponse struct {
	HasDeposit    bool           `json:"has_deposit"`
	ExistingOrder *OrderResponse `json:"existing_order,omitempty"`
}

type NotifyResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

func ToOrderResponse(o *Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		OrderedAt:   o.OrderedAt,
		TotalAmount: o.TotalAmount,
		OrderType:   o.Type,
		Status:      o.Status,
		StatusName:  o.Status.String(),
		DiscountID:  o.DiscountID,
	}
}

func ToCreateResponse(o *Order, items []Item) CreateResponse {
	resp := CreateResponse{
		OrderResponse: ToOrderResponse(o),
		Items:         make([]ItemResponse, len(items)),
	}
	for i, it := range items {
		resp.Items[i] = ItemResponse{
			ID:        it.ID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}
	return resp
}

func ToDetailResponse(d *Detail) DetailResponse {
	resp := DetailResponse{
		OrderResponse: ToOrderResponse(&d.Order),
		CustomerName:  d.CustomerName,
		Items:         make([]ItemResponse, len(d.Items)),
		Payments:      make([]PaymentResponse, len(d.Payments)),
	}

	if d.DiscountID != nil && d.DiscountCode != nil {
		resp.Discount = &DiscountSummary{ID: *d.DiscountID, Code: *d.DiscountCode}
		if d.DiscountValue != nil {
			resp.Discount.Value = *d.DiscountValue
		}
	}

	for i, it := range d.Items {
		resp.Items[i] = ItemResponse{
			ID:          it.ID,
			VariantID:   it.VariantID,
			ProductName: deref(it.ProductName),
			Color:       deref(it.Color),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}

	for i, p := range d.Payments {
		resp.Payments[i] = PaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
		}
	}

	return resp
}

func ToDetailResponseList(details []Detail) []DetailResponse {
	out := make([]DetailResponse, len(details))
	for i := range details {
		out[i] = ToDetailResponse(&details[i])
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
