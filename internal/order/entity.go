// AngelaMos | 2026
// entity.go

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status int16

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusReadyForPickup
	StatusOutForDelivery
	StatusDelivered
	StatusCancelled
)

var statusNames = map[Status]string{
	StatusPending:        "Pending",
	StatusConfirmed:      "Confirmed",
	StatusReadyForPickup: "ReadyForPickup",
	StatusOutForDelivery: "OutForDelivery",
	StatusDelivered:      "Delivered",
	StatusCancelled:      "Cancelled",
}

func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCancelled
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether next directly follows s. Orders move one
// step at a time from Pending to Delivered and may be cancelled from any
// non-terminal status.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() || s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return next == s+1
}

type Type int16

const (
	TypePickup Type = iota
	TypeDelivery
	TypePreorderDeposit
)

func (t Type) Valid() bool {
	return t >= TypePickup && t <= TypePreorderDeposit
}

type Order struct {
	ID          int64           `db:"id"`
	UserID      int64           `db:"user_id"`
	OrderedAt   time.Time       `db:"ordered_at"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	Type        Type            `db:"order_type"`
	Status      Status          `db:"status"`
	DiscountID  *int64          `db:"discount_id"`
}

// Item stores the unit price at the time of ordering.
type Item struct {
	ID        int64           `db:"id"`
	OrderID   int64           `db:"order_id"`
	VariantID *int64          `db:"variant_id"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
}

// Detail is an order flattened with its customer, discount, item and
// payment rows.
type Detail struct {
	Order
	CustomerName  string           `db:"customer_name"`
	Email         string           `db:"email"`
	DiscountCode  *string          `db:"discount_code"`
	DiscountValue *decimal.Decimal `db:"discount_value"`
	Items         []DetailItem     `db:"-"`
	Payments      []PaymentSummary `db:"-"`
}

type DetailItem struct {
	ID          int64           `db:"id"`
	OrderID     int64           `db:"order_id"`
	VariantID   *int64          `db:"variant_id"`
	ProductName *string         `db:"product_name"`
	Color       *string         `db:"color"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
}

type PaymentSummary struct {
	ID        int64           `db:"id"`
	OrderID   int64           `db:"order_id"`
	Amount    decimal.Decimal `db:"amount"`
	Method    int16           `db:"method"`
	Status    int16           `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
}

type Customer struct {
	UserID   int64  `db:"user_id"`
	Email    string `db:"email"`
	FullName string `db:"full_name"`
}
