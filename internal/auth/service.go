// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"

	"github.com/techzone/backoffice/internal/core"
	"github.com/techzone/backoffice/internal/middleware"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const minUsernameLen = 5

type UserInfo struct {
	ID           int64
	Username     string
	FullName     string
	Email        string
	PasswordHash string
	Role         string
	RoleName     string
	IsActive     bool
	IsBought     bool
}

type NewUser struct {
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	PhoneNumber  *string
	Address      *string
}

type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, params NewUser) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	TouchLastLogin(ctx context.Context, userID int64) error
}

// OTPMailer delivers one-time codes.
type OTPMailer interface {
	SendVerificationOTP(ctx context.Context, email, code string) error
	SendPasswordResetOTP(ctx context.Context, email, code string) error
}

type Service struct {
	jwt          *JWTManager
	userProvider UserProvider
	otp          *OTPStore
	mailer       OTPMailer
	redis        *redis.Client
}

func NewService(
	jwt *JWTManager,
	userProvider UserProvider,
	otp *OTPStore,
	mailer OTPMailer,
	redisClient *redis.Client,
) *Service {
	return &Service{
		jwt:          jwt,
		userProvider: userProvider,
		otp:          otp,
		mailer:       mailer,
		redis:        redisClient,
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	user, err := s.userProvider.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	if err := s.userProvider.TouchLastLogin(ctx, user.ID); err != nil {
		slog.WarnContext(ctx, "failed to record last login",
			"user_id", user.ID,
			"error", err,
		)
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwt.AccessTokenTTL() / time.Second),
		UserID:      user.ID,
		Role:        user.RoleName,
		FullName:    user.FullName,
		Username:    user.Username,
		Email:       user.Email,
		IsBought:    user.IsBought,
	}, nil
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*RegisterResponse, error) {
	username := strings.TrimSpace(req.Username)
	fullName := strings.TrimSpace(req.FullName)

	if utf8.RuneCountInString(username) < minUsernameLen {
		return nil, fmt.Errorf(
			"username needs at least %d characters: %w",
			minUsernameLen,
			core.ErrInvalidInput,
		)
	}
	if fullName == "" {
		return nil, fmt.Errorf("full name is required: %w", core.ErrInvalidInput)
	}

	if !core.IsStrongPassword(req.Password) {
		return nil, fmt.Errorf(
			"password needs 8+ characters with upper, lower, digit and symbol: %w",
			core.ErrInvalidInput,
		)
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, NewUser{
		Username:     username,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
	})
	if err != nil {
		return nil, err
	}

	return &RegisterResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.RoleName,
	}, nil
}

// SendOTP starts email verification for an address that is not yet
// registered.
func (s *Service) SendOTP(ctx context.Context, email string) error {
	exists, err := s.userProvider.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("email is already registered: %w", core.ErrConflict)
	}

	code, err := s.otp.Issue(ctx, email)
	if err != nil {
		return err
	}

	if err := s.mailer.SendVerificationOTP(ctx, email, code); err != nil {
		return fmt.Errorf("send verification otp: %w: %w", core.ErrUpstream, err)
	}

	return nil
}

// ResetPassword emails a reset code to a registered address.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	exists, err := s.userProvider.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("reset password: %w", core.ErrNotFound)
	}

	code, err := s.otp.Issue(ctx, email)
	if err != nil {
		return err
	}

	if err := s.mailer.SendPasswordResetOTP(ctx, email, code); err != nil {
		return fmt.Errorf("send reset otp: %w: %w", core.ErrUpstream, err)
	}

	return nil
}

func (s *Service) CheckOTP(ctx context.Context, email, code string) error {
	ok, err := s.otp.Verify(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("invalid or expired otp: %w", core.ErrInvalidInput)
	}

	return nil
}

// UpdatePassword sets a new password for email. It requires a prior
// successful CheckOTP for the same address and consumes it.
func (s *Service) UpdatePassword(
	ctx context.Context,
	email, newPassword string,
) error {
	if !core.IsStrongPassword(newPassword) {
		return fmt.Errorf(
			"password needs 8+ characters with upper, lower, digit and symbol: %w",
			core.ErrInvalidInput,
		)
	}

	user, err := s.userProvider.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	verified, err := s.otp.ConsumeVerified(ctx, email)
	if err != nil {
		return err
	}
	if !verified {
		return fmt.Errorf("otp verification required: %w", core.ErrUnauthorized)
	}

	hash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.userProvider.UpdatePassword(ctx, user.ID, hash)
}

// Logout revokes the presented access token until it would have expired.
func (s *Service) Logout(ctx context.Context, claims *middleware.AccessTokenClaims) error {
	if claims == nil {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}

	return s.RevokeAccessToken(ctx, claims.TokenID, claims.ExpiresAt)
}

func (s *Service) RevokeAccessToken(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	key := "blacklist:" + jti
	ttl := time.Until(expiresAt)

	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (s *Service) IsAccessTokenBlacklisted(
	ctx context.Context,
	jti string,
) (bool, error) {
	key := "blacklist:" + jti

	exists, err := s.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}

// VerifyAccessToken validates the token and rejects revoked ones.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.IsAccessTokenBlacklisted(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

var _ middleware.TokenVerifier = (*Service)(nil)
