// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/techzone/backoffice/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateRole(ctx context.Context, id int64, role Role) error
	ToggleActive(ctx context.Context, id int64) (bool, error)
	TouchLastLogin(ctx context.Context, id int64) error
	DeleteByUsername(ctx context.Context, username string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, username, password_hash, full_name, email, role, address,
	phone_number, is_active, is_bought, created_at, last_login`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, password_hash, full_name, email, role,
		                   address, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, is_bought, created_at`

	err := r.db.GetContext(ctx, user, query,
		user.Username,
		user.PasswordHash,
		user.FullName,
		user.Email,
		user.Role,
		user.Address,
		user.PhoneNumber,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", uniqueFieldError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by username: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdateProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET full_name = $2, email = $3, phone_number = $4, address = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		user.PhoneNumber,
		user.Address,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", uniqueFieldError(err))
	}

	return expectOneRow(result, "update user")
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return expectOneRow(result, "update password")
}

func (r *repository) UpdateRole(ctx context.Context, id int64, role Role) error {
	query := `UPDATE users SET role = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	return expectOneRow(result, "update role")
}

// ToggleActive flips is_active and returns the new value.
func (r *repository) ToggleActive(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE users
		SET is_active = NOT is_active
		WHERE id = $1
		RETURNING is_active`

	var active bool
	err := r.db.GetContext(ctx, &active, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("toggle active: %w", core.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("toggle active: %w", err)
	}

	return active, nil
}

func (r *repository) TouchLastLogin(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}

	return nil
}

func (r *repository) DeleteByUsername(ctx context.Context, username string) error {
	query := `DELETE FROM users WHERE username = $1`

	result, err := r.db.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return expectOneRow(result, "delete user")
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(username ILIKE $%d OR full_name ILIKE $%d OR email ILIKE $%d OR phone_number ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != 0 {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

// uniqueFieldError turns a unique violation on users into a conflict that
// names the offending field.
func uniqueFieldError(err error) error {
	if !core.IsDuplicateKeyError(err) {
		return err
	}

	field := "account"
	switch core.ConstraintName(err) {
	case "users_username_key":
		field = "username"
	case "users_email_key":
		field = "email"
	case "users_phone_number_key":
		field = "phone number"
	}

	return fmt.Errorf("%s already exists: %w", field, core.ErrConflict)
}

func expectOneRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
