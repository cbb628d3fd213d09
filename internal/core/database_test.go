// AngelaMos | 2026
// database_test.go

package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	return sqlx.NewDb(raw, "sqlmock"), mock
}

func TestInTxCommits(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := InTx(context.Background(), db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE products SET stock = stock - 1")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("out of stock")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := InTx(context.Background(), db, func(*sqlx.Tx) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxRollsBackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = InTx(context.Background(), db, func(*sqlx.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintHelpers(t *testing.T) {
	dup := fmt.Errorf("insert user: %w", &pgconn.PgError{
		Code:           pgUniqueViolation,
		ConstraintName: "users_email_key",
	})
	fk := &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "products_category_id_fkey"}
	plain := errors.New("connection reset")

	assert.True(t, IsDuplicateKeyError(dup))
	assert.False(t, IsForeignKeyError(dup))
	assert.Equal(t, "users_email_key", ConstraintName(dup))

	assert.True(t, IsForeignKeyError(fk))
	assert.False(t, IsDuplicateKeyError(fk))

	assert.False(t, IsDuplicateKeyError(plain))
	assert.Empty(t, ConstraintName(plain))
}
