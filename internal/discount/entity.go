// AngelaMos | 2026
// entity.go

package discount

import (
	"time"

	"github.com/shopspring/decimal"
)

type Discount struct {
	ID        int64           `db:"id"`
	Code      string          `db:"code"`
	Value     decimal.Decimal `db:"value"`
	IsValid   bool            `db:"is_valid"`
	CreatedAt time.Time       `db:"created_at"`
}
