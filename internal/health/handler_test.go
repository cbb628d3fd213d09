// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	up   = pingFunc(func(context.Context) error { return nil })
	down = pingFunc(func(context.Context) error { return errors.New("connection refused") })
)

func get(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, ReadinessResponse) {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestReadinessAllHealthy(t *testing.T) {
	h := NewHandler("1.0.0",
		Dependency{Name: "database", Checker: up},
		Dependency{Name: "redis", Checker: up},
	)

	rec, body := get(t, h, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Checks, 2)
	assert.Equal(t, "database", body.Checks[0].Name)
	assert.True(t, body.Checks[1].Healthy)
}

func TestReadinessDegradedWhenRedisDown(t *testing.T) {
	h := NewHandler("1.0.0",
		Dependency{Name: "database", Checker: up},
		Dependency{Name: "redis", Checker: down},
	)

	rec, body := get(t, h, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body.Status)
	assert.False(t, body.Checks[1].Healthy)
	assert.Equal(t, "ping failed", body.Checks[1].Message)
}

func TestShutdownFailsLivenessAndReadiness(t *testing.T) {
	h := NewHandler("1.0.0", Dependency{Name: "database", Checker: up})
	h.SetShutdown(true)

	for _, path := range []string{"/livez", "/readyz"} {
		rec, body := get(t, h, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Equal(t, "shutting_down", body.Status, path)
	}
}

func TestNotReadyStillLive(t *testing.T) {
	h := NewHandler("1.0.0")
	h.SetReady(false)

	rec, _ := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := get(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body.Status)
}
