// AngelaMos | 2026
// entity.go

package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Method int16

const (
	MethodCash Method = iota
	MethodBankTransfer
)

type Status int16

const (
	StatusUnpaid Status = iota
	StatusPaid
)

type Payment struct {
	ID        int64           `db:"id"`
	OrderID   int64           `db:"order_id"`
	Amount    decimal.Decimal `db:"amount"`
	Method    Method          `db:"method"`
	Status    Status          `db:"status"`
	Note      *string         `db:"note"`
	CreatedAt time.Time       `db:"created_at"`
}
