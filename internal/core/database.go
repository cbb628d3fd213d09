// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/techzone/backoffice/internal/config"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Database is the shop's Postgres handle. Repositories receive DB directly
// and open transactions through InTx.
type Database struct {
	DB *sqlx.DB
}

const connectTimeout = 5 * time.Second

func NewDatabase(
	ctx context.Context,
	cfg config.DatabaseConfig,
) (*Database, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	configurePool(db, cfg)

	d := &Database{DB: db}
	if err := d.Ping(ctx); err != nil {
		_ = db.Close() //nolint:errcheck // cleanup on connection failure
		return nil, err
	}

	return d, nil
}

// configurePool spreads connection recycling so a burst of connections
// opened together does not expire together.
func configurePool(db *sqlx.DB, cfg config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	lifetime := cfg.ConnMaxLifetime
	if lifetime > 0 {
		//nolint:gosec // G404: pool jitter only
		lifetime += time.Duration(rand.Int64N(int64(lifetime/7) + 1))
	}
	db.SetConnMaxLifetime(lifetime)
}

func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// Ping satisfies health.Checker.
func (d *Database) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

func (d *Database) Stats() sql.DBStats {
	return d.DB.Stats()
}

// DBTX is implemented by both *sqlx.DB and *sqlx.Tx, so repository
// helpers run the same inside and outside a transaction.
type DBTX interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// InTx runs fn inside a transaction. The transaction is rolled back when
// fn returns an error or panics.
func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback() //nolint:errcheck // re-panicking below
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback tx: %w", rbErr))
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func IsDuplicateKeyError(err error) bool {
	pgErr := asPgError(err)
	return pgErr != nil && pgErr.Code == pgUniqueViolation
}

func IsForeignKeyError(err error) bool {
	pgErr := asPgError(err)
	return pgErr != nil && pgErr.Code == pgForeignKeyViolation
}

// ConstraintName returns the violated constraint, or "" when err is not
// a Postgres constraint error. Repositories use it to tell which unique
// column collided.
func ConstraintName(err error) string {
	if pgErr := asPgError(err); pgErr != nil {
		return pgErr.ConstraintName
	}
	return ""
}

func asPgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}
