// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techzone/backoffice/internal/config"
	"github.com/techzone/backoffice/internal/core"
	"github.com/techzone/backoffice/internal/middleware"
)

const otpTTL = 10 * time.Minute

type memUsers struct {
	byID   map[int64]*UserInfo
	nextID int64
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int64]*UserInfo{}, nextID: 1}
}

func (u *memUsers) add(t *testing.T, username, email, password string, active bool) *UserInfo {
	t.Helper()

	hash, err := core.HashPassword(password)
	require.NoError(t, err)

	info := &UserInfo{
		ID:           u.nextID,
		Username:     username,
		FullName:     "Test " + username,
		Email:        email,
		PasswordHash: hash,
		Role:         middleware.RoleCustomer,
		RoleName:     "Customer",
		IsActive:     active,
	}
	u.byID[info.ID] = info
	u.nextID++
	return info
}

func (u *memUsers) GetByUsername(_ context.Context, username string) (*UserInfo, error) {
	for _, info := range u.byID {
		if info.Username == username {
			return info, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (u *memUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	for _, info := range u.byID {
		if strings.EqualFold(info.Email, email) {
			return info, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (u *memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := u.GetByEmail(ctx, email)
	return err == nil, nil
}

func (u *memUsers) Create(_ context.Context, p NewUser) (*UserInfo, error) {
	info := &UserInfo{
		ID:           u.nextID,
		Username:     p.Username,
		FullName:     p.FullName,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Role:         middleware.RoleCustomer,
		RoleName:     "Customer",
		IsActive:     true,
	}
	u.byID[info.ID] = info
	u.nextID++
	return info, nil
}

func (u *memUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	u.byID[id].PasswordHash = hash
	return nil
}

func (u *memUsers) TouchLastLogin(context.Context, int64) error {
	return nil
}

type captureMailer struct {
	codes map[string]string
}

func (m *captureMailer) SendVerificationOTP(_ context.Context, email, code string) error {
	m.codes[email] = code
	return nil
}

func (m *captureMailer) SendPasswordResetOTP(_ context.Context, email, code string) error {
	m.codes[email] = code
	return nil
}

type fixture struct {
	svc    *Service
	users  *memUsers
	mailer *captureMailer
	redis  *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	jwtManager, err := NewJWTManagerFromECDSA(key, config.JWTConfig{
		AccessTokenExpire: time.Hour,
		Issuer:            "techzone",
		Audience:          "techzone-api",
	})
	require.NoError(t, err)

	users := newMemUsers()
	mailer := &captureMailer{codes: map[string]string{}}

	return &fixture{
		svc:    NewService(jwtManager, users, NewOTPStore(client, otpTTL), mailer, client),
		users:  users,
		mailer: mailer,
		redis:  mr,
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)
	u := f.users.add(t, "minhanh", "minh@example.com", "Sup3r!Secret", true)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{Username: " minhanh ", Password: "Sup3r!Secret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, u.ID, resp.UserID)

	claims, err := f.svc.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, middleware.RoleCustomer, claims.Role)
	assert.NotEmpty(t, claims.TokenID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	f.users.add(t, "minhanh", "minh@example.com", "Sup3r!Secret", true)
	f.users.add(t, "locked", "locked@example.com", "Sup3r!Secret", false)
	ctx := context.Background()

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{Username: "minhanh", Password: "nope"}},
		{"unknown user", LoginRequest{Username: "ghost", Password: "Sup3r!Secret"}},
		{"inactive user", LoginRequest{Username: "locked", Password: "Sup3r!Secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Login(ctx, tt.req)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	f.users.add(t, "minhanh", "minh@example.com", "Sup3r!Secret", true)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{Username: "minhanh", Password: "Sup3r!Secret"})
	require.NoError(t, err)

	claims, err := f.svc.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, claims))

	_, err = f.svc.VerifyAccessToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Username: "newbie",
		Password: "password",
		FullName: "New Bie",
		Email:    "newbie@example.com",
	})

	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, f.users.byID)
}

func TestRegisterTrimsBeforeLengthCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterRequest{
		Username: "   ab   ",
		Password: "Sup3r!Secret",
		FullName: "Short Name",
		Email:    "short@example.com",
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, f.users.byID)

	resp, err := f.svc.Register(ctx, RegisterRequest{
		Username: "  minhanh  ",
		Password: "Sup3r!Secret",
		FullName: " Minh Anh ",
		Email:    "minh@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "minhanh", resp.Username)
	assert.Equal(t, "Minh Anh", f.users.byID[resp.UserID].FullName)
}

func TestSendOTPForRegisteredEmailConflicts(t *testing.T) {
	f := newFixture(t)
	f.users.add(t, "minhanh", "minh@example.com", "Sup3r!Secret", true)

	err := f.svc.SendOTP(context.Background(), "minh@example.com")

	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Empty(t, f.mailer.codes)
}

func TestOTPIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendOTP(ctx, "new@example.com"))
	code := f.mailer.codes["new@example.com"]
	require.Len(t, code, 6)

	assert.ErrorIs(t, f.svc.CheckOTP(ctx, "new@example.com", "000000"), core.ErrInvalidInput)
	assert.NoError(t, f.svc.CheckOTP(ctx, "NEW@example.com", code))
	assert.ErrorIs(t, f.svc.CheckOTP(ctx, "new@example.com", code), core.ErrInvalidInput)
}

func TestOTPExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendOTP(ctx, "new@example.com"))
	code := f.mailer.codes["new@example.com"]

	f.redis.FastForward(otpTTL + time.Second)

	assert.ErrorIs(t, f.svc.CheckOTP(ctx, "new@example.com", code), core.ErrInvalidInput)
}

func TestUpdatePasswordRequiresVerifiedOTP(t *testing.T) {
	f := newFixture(t)
	u := f.users.add(t, "minhanh", "minh@example.com", "Sup3r!Secret", true)
	ctx := context.Background()
	oldHash := u.PasswordHash

	err := f.svc.UpdatePassword(ctx, "minh@example.com", "N3w!Password")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
	assert.Equal(t, oldHash, u.PasswordHash)

	require.NoError(t, f.svc.ResetPassword(ctx, "minh@example.com"))
	require.NoError(t, f.svc.CheckOTP(ctx, "minh@example.com", f.mailer.codes["minh@example.com"]))
	require.NoError(t, f.svc.UpdatePassword(ctx, "minh@example.com", "N3w!Password"))

	ok, err := core.VerifyPassword("N3w!Password", u.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	err = f.svc.UpdatePassword(ctx, "minh@example.com", "An0ther!Pass")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestResetPasswordForUnknownEmail(t *testing.T) {
	f := newFixture(t)

	err := f.svc.ResetPassword(context.Background(), "ghost@example.com")

	assert.ErrorIs(t, err, core.ErrNotFound)
}
