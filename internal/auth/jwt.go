// AngelaMos | 2026
// jwt.go

package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/techzone/backoffice/internal/config"
	"github.com/techzone/backoffice/internal/core"
	"github.com/techzone/backoffice/internal/middleware"
)

const (
	claimRole      = "role"
	claimTokenType = "type"
	tokenTypeAcc   = "access"
)

// JWTManager signs and verifies ES256 access tokens and publishes the
// verification key as a JWKS document.
type JWTManager struct {
	signingKey jwk.Key
	verifyKey  jwk.Key
	jwks       []byte
	config     config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	pemBytes, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	key, err := jwk.ParseKey(pemBytes, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}

	return newJWTManager(key, cfg)
}

// NewJWTManagerFromECDSA builds a manager around an in-memory P-256 key.
func NewJWTManagerFromECDSA(
	key *ecdsa.PrivateKey,
	cfg config.JWTConfig,
) (*JWTManager, error) {
	imported, err := jwk.Import(key)
	if err != nil {
		return nil, fmt.Errorf("import signing key: %w", err)
	}

	return newJWTManager(imported, cfg)
}

func newJWTManager(signingKey jwk.Key, cfg config.JWTConfig) (*JWTManager, error) {
	if err := stampSigningKey(signingKey); err != nil {
		return nil, err
	}

	verifyKey, err := signingKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive verification key: %w", err)
	}
	if err := verifyKey.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	set := jwk.NewSet()
	if err := set.AddKey(verifyKey); err != nil {
		return nil, fmt.Errorf("build jwks: %w", err)
	}
	jwks, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("encode jwks: %w", err)
	}

	return &JWTManager{
		signingKey: signingKey,
		verifyKey:  verifyKey,
		jwks:       jwks,
		config:     cfg,
	}, nil
}

// stampSigningKey pins the algorithm and gives keys loaded without a kid
// a short random one.
func stampSigningKey(key jwk.Key) error {
	if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return fmt.Errorf("set algorithm: %w", err)
	}

	var kid string
	if err := key.Get(jwk.KeyIDKey, &kid); err == nil && kid != "" {
		return nil
	}
	if err := key.Set(jwk.KeyIDKey, uuid.NewString()[:8]); err != nil {
		return fmt.Errorf("set key id: %w", err)
	}
	return nil
}

// GenerateKeyPair writes a fresh P-256 key pair as PEM files.
func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	key, err := jwk.Import(raw)
	if err != nil {
		return fmt.Errorf("import key: %w", err)
	}
	if err := stampSigningKey(key); err != nil {
		return err
	}

	public, err := key.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	if err := writePEM(privateKeyPath, key, 0o600); err != nil {
		return err
	}
	//nolint:gosec // G306: public key is meant to be readable
	return writePEM(publicKeyPath, public, 0o644)
}

func writePEM(path string, key jwk.Key, perm os.FileMode) error {
	data, err := jwk.Pem(key)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type AccessTokenClaims struct {
	UserID int64
	Role   string
}

func (m *JWTManager) CreateAccessToken(
	claims AccessTokenClaims,
) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.config.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(uuid.NewString()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(strconv.FormatInt(claims.UserID, 10)).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim(claimRole, claims.Role).
		Claim(claimTokenType, tokenTypeAcc).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.signingKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return string(signed), expiresAt, nil
}

// ParseAccessToken checks signature, issuer, audience and lifetime. It
// does not consult the revocation list.
func (m *JWTManager) ParseAccessToken(
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.verifyKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if isExpired(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	claims, err := claimsFrom(token)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w: %w", err, core.ErrTokenInvalid)
	}
	return claims, nil
}

func claimsFrom(token jwt.Token) (*middleware.AccessTokenClaims, error) {
	var tokenType, role string
	if err := token.Get(claimTokenType, &tokenType); err != nil || tokenType != tokenTypeAcc {
		return nil, errors.New("not an access token")
	}
	if err := token.Get(claimRole, &role); err != nil || role == "" {
		return nil, errors.New("missing role")
	}

	subject, _ := token.Subject()
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, errors.New("malformed subject")
	}

	jti, _ := token.JwtID()
	if jti == "" {
		return nil, errors.New("missing jti")
	}

	expiresAt, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		UserID:    userID,
		Role:      role,
		TokenID:   jti,
		ExpiresAt: expiresAt,
	}, nil
}

func isExpired(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "exp") && strings.Contains(msg, "not satisfied")
}

// JWKSHandler serves the public verification key set.
func (m *JWTManager) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(m.jwks) //nolint:errcheck // client went away
	}
}

func (m *JWTManager) KeyID() string {
	var kid string
	_ = m.signingKey.Get(jwk.KeyIDKey, &kid) //nolint:errcheck // set in newJWTManager
	return kid
}

func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.config.AccessTokenExpire
}
