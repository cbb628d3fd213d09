// AngelaMos | 2026
// repository_test.go

package order

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techzone/backoffice/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func int64p(v int64) *int64 { return &v }

func TestCreatePersistsOrderItemsBuyerFlagAndClearsCart(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs(int64(1), sqlmock.AnyArg(), int64(TypeDelivery), int64(StatusPending), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ordered_at"}).AddRow(int64(50), now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(int64(50), int64(1), int64(2), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(501)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(int64(50), int64(2), int64(1), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(502)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_bought = TRUE")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_details cd")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	o := &Order{
		UserID:      1,
		TotalAmount: decimal.NewFromInt(500000),
		Type:        TypeDelivery,
		Status:      StatusPending,
	}
	items := []Item{
		{VariantID: int64p(1), Quantity: 2, UnitPrice: decimal.NewFromInt(100000)},
		{VariantID: int64p(2), Quantity: 1, UnitPrice: decimal.NewFromInt(300000)},
	}

	require.NoError(t, repo.Create(context.Background(), o, items))

	assert.Equal(t, int64(50), o.ID)
	assert.Equal(t, int64(502), items[1].ID)
	assert.Equal(t, int64(50), items[1].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUnknownUserRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "orders_user_id_fkey"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &Order{
		UserID:      9,
		TotalAmount: decimal.NewFromInt(1),
	}, []Item{{VariantID: int64p(1), Quantity: 1}})

	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateItemFailureRollsBackHeader(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ordered_at"}).AddRow(int64(51), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &Order{
		UserID:      1,
		TotalAmount: decimal.NewFromInt(1),
	}, []Item{{VariantID: int64p(1), Quantity: 1}})

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIsConditional(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $3 WHERE id = $1 AND status = $2")).
		WithArgs(int64(7), int64(StatusPending), int64(StatusConfirmed)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.UpdateStatus(context.Background(), 7, StatusPending, StatusConfirmed)

	require.NoError(t, err)
	assert.False(t, updated)
}

func TestDeleteByUserWithoutOrders(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE user_id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.DeleteByUser(context.Background(), 3)

	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
