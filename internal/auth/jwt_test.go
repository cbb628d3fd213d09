// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techzone/backoffice/internal/config"
	"github.com/techzone/backoffice/internal/core"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessTokenExpire: 15 * time.Minute,
		Issuer:            "techzone",
		Audience:          "techzone-api",
	}
}

func newTestManager(t *testing.T, cfg config.JWTConfig) *JWTManager {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	m, err := NewJWTManagerFromECDSA(key, cfg)
	require.NoError(t, err)
	return m
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(t, testJWTConfig())

	token, expiresAt, err := m.CreateAccessToken(AccessTokenClaims{UserID: 42, Role: "staff"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "staff", claims.Role)
	assert.NotEmpty(t, claims.TokenID)
}

func TestTokenFromAnotherKeyIsInvalid(t *testing.T) {
	issuer := newTestManager(t, testJWTConfig())
	verifier := newTestManager(t, testJWTConfig())

	token, _, err := issuer.CreateAccessToken(AccessTokenClaims{UserID: 1, Role: "admin"})
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenForAnotherAudienceIsInvalid(t *testing.T) {
	cfg := testJWTConfig()
	m := newTestManager(t, cfg)

	token, _, err := m.CreateAccessToken(AccessTokenClaims{UserID: 1, Role: "admin"})
	require.NoError(t, err)

	m.config.Audience = "someone-else"
	_, err = m.ParseAccessToken(token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWKSHandlerPublishesOnePublicKey(t *testing.T) {
	m := newTestManager(t, testJWTConfig())

	rec := httptest.NewRecorder()
	m.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var set struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&set))
	require.Len(t, set.Keys, 1)
	assert.Equal(t, m.KeyID(), set.Keys[0]["kid"])
	assert.NotContains(t, set.Keys[0], "d")
}

func TestGenerateKeyPairLoads(t *testing.T) {
	dir := t.TempDir()
	cfg := testJWTConfig()
	cfg.PrivateKeyPath = filepath.Join(dir, "private.pem")
	cfg.PublicKeyPath = filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))

	m, err := NewJWTManager(cfg)
	require.NoError(t, err)

	token, _, err := m.CreateAccessToken(AccessTokenClaims{UserID: 3, Role: "customer"})
	require.NoError(t, err)
	_, err = m.ParseAccessToken(token)
	assert.NoError(t, err)
}
