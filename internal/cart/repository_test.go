// AngelaMos | 2026
// repository_test.go

package cart

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
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

func TestAddUpsertsCartAndLineInOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO carts")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT p.price")).
		WithArgs(int64(40)).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("100000.00"))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cart_details")).
		WithArgs(int64(11), int64(40), int64(2), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(3))
	mock.ExpectCommit()

	qty, err := repo.Add(context.Background(), 5, 40, 2)

	require.NoError(t, err)
	assert.Equal(t, 3, qty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUnknownVariantRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO carts")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT p.price")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Add(context.Background(), 5, 999, 1)

	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemsWithoutCartIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM carts")).
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Items(context.Background(), 5)

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestItemCountDefaultsToZero(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(cd.quantity), 0)")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	count, err := repo.ItemCount(context.Background(), 5)

	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRemoveMissingLineIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_details cd")).
		WithArgs(int64(5), int64(40)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Remove(context.Background(), 5, 40)

	assert.ErrorIs(t, err, core.ErrNotFound)
}
