// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/techzone/backoffice/internal/core"
)

type claimsKey struct{}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

var backOfficeRoles = []string{RoleAdmin, RoleStaff}

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

// AccessTokenClaims is what a verified bearer token tells the handlers
// about the caller.
type AccessTokenClaims struct {
	UserID    int64
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// Authenticator rejects requests without a valid bearer token and puts
// the caller's claims on the request context.
func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				core.JSONError(w, core.UnauthorizedError("missing authorization token"))
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				core.JSONError(w, tokenError(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims *AccessTokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := GetUserRole(r.Context())
			switch {
			case role == "":
				core.JSONError(w, core.UnauthorizedError("authentication required"))
			case !slices.Contains(roles, role):
				core.JSONError(w, core.ForbiddenError("insufficient permissions"))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(RoleAdmin)(next)
}

// RequireBackOffice admits admins and staff.
func RequireBackOffice(next http.Handler) http.Handler {
	return RequireRole(backOfficeRoles...)(next)
}

// CanActFor reports whether the caller may read or change data owned by
// userID: the owner themselves, or back-office staff.
func CanActFor(ctx context.Context, userID int64) bool {
	if IsBackOffice(ctx) {
		return true
	}
	callerID := GetUserID(ctx)
	return callerID != 0 && callerID == userID
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func tokenError(err error) error {
	if core.IsAppError(err) {
		return err
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		return core.TokenExpiredError()
	case errors.Is(err, core.ErrTokenRevoked):
		return core.TokenRevokedError()
	default:
		return core.TokenInvalidError()
	}
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	claims, _ := ctx.Value(claimsKey{}).(*AccessTokenClaims)
	return claims
}

func GetUserID(ctx context.Context) int64 {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}

func GetUserRole(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.Role
	}
	return ""
}

func IsBackOffice(ctx context.Context) bool {
	return slices.Contains(backOfficeRoles, GetUserRole(ctx))
}
