// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/techzone/backoffice/internal/middleware"
)

type Role int16

const (
	RoleAdmin    Role = 1
	RoleCustomer Role = 2
	RoleStaff    Role = 3
)

func (r Role) Valid() bool {
	return r >= RoleAdmin && r <= RoleStaff
}

// DisplayName is the human readable role shown to clients.
func (r Role) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleCustomer:
		return "Customer"
	case RoleStaff:
		return "Staff"
	default:
		return "Unknown"
	}
}

// Claim is the role string carried in access tokens.
func (r Role) Claim() string {
	switch r {
	case RoleAdmin:
		return middleware.RoleAdmin
	case RoleStaff:
		return middleware.RoleStaff
	default:
		return middleware.RoleCustomer
	}
}

type User struct {
	ID           int64      `db:"id"`
	Username     string     `db:"username"`
	PasswordHash string     `db:"password_hash"`
	FullName     string     `db:"full_name"`
	Email        string     `db:"email"`
	Role         Role       `db:"role"`
	Address      *string    `db:"address"`
	PhoneNumber  *string    `db:"phone_number"`
	IsActive     bool       `db:"is_active"`
	IsBought     bool       `db:"is_bought"`
	CreatedAt    time.Time  `db:"created_at"`
	LastLogin    *time.Time `db:"last_login"`
}

func (u *User) IsBackOffice() bool {
	return u.Role == RoleAdmin || u.Role == RoleStaff
}
