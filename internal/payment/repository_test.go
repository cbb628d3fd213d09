// AngelaMos | 2026
// repository_test.go

package payment

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const insertOnce = "INSERT INTO payments (order_id, amount, method, status, note)"

func TestInsertOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(sqlx.NewDb(db, "pgx"))

	mock.ExpectQuery(regexp.QuoteMeta(insertOnce) + `(?s).*ON CONFLICT \(order_id\) DO NOTHING`).
		WithArgs(int64(42), sqlmock.AnyArg(), int64(MethodBankTransfer), int64(StatusPaid), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(insertOnce)).
		WillReturnError(sql.ErrNoRows)

	first := &Payment{OrderID: 42, Amount: decimal.NewFromInt(500000), Method: MethodBankTransfer, Status: StatusPaid}
	inserted, err := repo.InsertOnce(context.Background(), first)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, int64(1), first.ID)

	second := &Payment{OrderID: 42, Amount: decimal.NewFromInt(500000), Method: MethodBankTransfer, Status: StatusPaid}
	inserted, err = repo.InsertOnce(context.Background(), second)
	require.NoError(t, err)
	assert.False(t, inserted)

	assert.NoError(t, mock.ExpectationsWereMet())
}
