// AngelaMos | 2026
// repository_test.go

package discount

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techzone/backoffice/internal/core"
)

func TestCreateDuplicateCodeIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(sqlx.NewDb(db, "pgx"))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO discounts")).
		WithArgs("SALE10", sqlmock.AnyArg(), true).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "discounts_code_key"})

	err = repo.Create(context.Background(), &Discount{
		Code:    "SALE10",
		Value:   decimal.NewFromInt(10),
		IsValid: true,
	})

	assert.ErrorIs(t, err, core.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
