// AngelaMos | 2026
// dto.go

package payment

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// WebhookRequest is the provider callback. Data is kept raw so the
// signature can be checked over exactly what was sent.
type WebhookRequest struct {
	Code      string          `json:"code"`
	Desc      string          `json:"desc"`
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Signature string          `json:"signature"`
}

type WebhookData struct {
	OrderCode int64           `json:"orderCode"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
}

type LinkRequest struct {
	OrderID int64            `json:"order_id" validate:"required,gt=0"`
	Amount  *decimal.Decimal `json:"amount"`
}

type LinkResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

type ConfirmRequest struct {
	OrderID int64 `json:"order_id"`
}

type PaymentRequest struct {
	OrderID int64           `json:"order_id" validate:"required,gt=0"`
	Amount  decimal.Decimal `json:"amount"`
	Method  Method          `json:"method"   validate:"gte=0,lte=1"`
	Status  Status          `json:"status"   validate:"gte=0,lte=1"`
	Note    *string         `json:"note"     validate:"omitempty,max=500"`
}

type UpdateRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method Method          `json:"method" validate:"gte=0,lte=1"`
	Status Status          `json:"status" validate:"gte=0,lte=1"`
}

type PaymentResponse struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    Method          `json:"method"`
	Status    Status          `json:"status"`
	Note      *string         `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func ToPaymentResponse(p *Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Method:    p.Method,
		Status:    p.Status,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
	}
}

func ToPaymentResponseList(payments []Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out
}
