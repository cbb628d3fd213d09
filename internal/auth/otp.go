// AngelaMos | 2026
// otp.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/techzone/backoffice/internal/core"
)

const (
	otpKeyPrefix      = "otp:code:"
	verifiedKeyPrefix = "otp:verified:"
)

// consumeOTP deletes the code and sets the verified marker in one step,
// so a code can be redeemed at most once.
var consumeOTP = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("DEL", KEYS[1])
	redis.call("SET", KEYS[2], "1", "PX", ARGV[2])
	return 1
end
return 0
`)

// OTPStore keeps one pending one-time code per email address in Redis.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOTPStore(client *redis.Client, ttl time.Duration) *OTPStore {
	return &OTPStore{client: client, ttl: ttl}
}

// Issue replaces any pending code for email and clears a previous
// verification.
func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := core.GenerateOTP()
	if err != nil {
		return "", err
	}

	email = normalizeEmail(email)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, otpKeyPrefix+email, code, s.ttl)
	pipe.Del(ctx, verifiedKeyPrefix+email)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	return code, nil
}

// Verify reports whether code matches the pending code for email. A
// match consumes the code and marks the email as verified for the OTP
// lifetime.
func (s *OTPStore) Verify(ctx context.Context, email, code string) (bool, error) {
	email = normalizeEmail(email)

	res, err := consumeOTP.Run(
		ctx,
		s.client,
		[]string{otpKeyPrefix + email, verifiedKeyPrefix + email},
		code,
		s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("verify otp: %w", err)
	}

	return res == 1, nil
}

// ConsumeVerified reports whether email was verified and removes the
// marker.
func (s *OTPStore) ConsumeVerified(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Del(ctx, verifiedKeyPrefix+normalizeEmail(email)).Result()
	if err != nil {
		return false, fmt.Errorf("consume verification: %w", err)
	}

	return n > 0, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
