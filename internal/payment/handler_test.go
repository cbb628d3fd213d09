// AngelaMos | 2026
// handler_test.go

package payment

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/techzone/backoffice/internal/middleware"
)

func passthrough(next http.Handler) http.Handler { return next }

func TestWebhookAlwaysAcknowledges(t *testing.T) {
	svc, repo, provider := newFixture()
	provider.badSignature = true

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, passthrough, passthrough)

	bodies := []string{
		`not json`,
		`{"code":"00","data":{"orderCode":42,"status":"PAID"},"signature":"bad"}`,
		`{"code":"00","data":{"orderCode":999,"status":"PAID"}}`,
	}

	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	}

	assert.Zero(t, repo.count(42))
}

func TestWebhookDeliveredTwiceReturnsOKBothTimes(t *testing.T) {
	svc, repo, _ := newFixture()

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, passthrough, passthrough)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(
			http.MethodPost,
			"/payment/webhook",
			strings.NewReader(`{"code":"00","success":true,"data":{"orderCode":42,"status":"PAID"},"signature":"x"}`),
		)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 1, repo.count(42))
}

func TestWebhookBypassesGlobalRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc, repo, _ := newFixture()

	r := chi.NewRouter()
	r.Use(middleware.NewRateLimiter(client, middleware.RateLimitConfig{
		Scope:  "global",
		Limit:  middleware.PerMinute(2, 2),
		Exempt: middleware.ExemptPaths(WebhookPath),
	}).Handler)
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	NewHandler(svc).RegisterRoutes(r, passthrough, passthrough)

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.RemoteAddr = "203.0.113.7:443"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 10; i++ {
		rec := send(http.MethodPost, WebhookPath,
			`{"code":"00","success":true,"data":{"orderCode":42,"status":"PAID"},"signature":"x"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	}
	assert.Equal(t, 1, repo.count(42))

	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/ping", "").Code)
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "/ping", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodGet, "/ping", "").Code)
}
