// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/techzone/backoffice/internal/core"
)

const pingTimeout = 3 * time.Second

// CatalogCache is the product catalog read cache.
type CatalogCache interface {
	FlushCache(ctx context.Context) error
}

type Handler struct {
	version    string
	startedAt  time.Time
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	dbPing     func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
	catalog    CatalogCache
}

type HandlerConfig struct {
	Version    string
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
	Catalog    CatalogCache
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		version:    cfg.Version,
		startedAt:  time.Now(),
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		dbPing:     cfg.DBPing,
		redisPing:  cfg.RedisPing,
		catalog:    cfg.Catalog,
	}
}

// RegisterRoutes mounts the operator endpoints under /admin. Every route
// requires an admin token.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator, adminOnly)

		r.Get("/system", h.System)
		r.Get("/system/db", h.Database)
		r.Get("/system/redis", h.Redis)
		r.Get("/system/runtime", h.Runtime)
		r.Post("/cache/catalog/flush", h.FlushCatalog)
	})
}

// System probes both backing stores concurrently and reports them with
// the process runtime figures.
func (h *Handler) System(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	var dbErr, redisErr error
	g, gctx := errgroup.WithContext(ctx)
	if h.dbPing != nil {
		g.Go(func() error {
			dbErr = h.dbPing(gctx)
			return nil
		})
	}
	if h.redisPing != nil {
		g.Go(func() error {
			redisErr = h.redisPing(gctx)
			return nil
		})
	}
	//nolint:errcheck // probes report through dbErr and redisErr
	_ = g.Wait()

	core.OK(w, SystemResponse{
		Version: h.version,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Database: StoreStatus[DBPoolStats]{
			Healthy: h.dbPing != nil && dbErr == nil,
			Error:   errString(dbErr),
			Stats:   h.poolStats(),
		},
		Redis: StoreStatus[RedisPoolStats]{
			Healthy: h.redisPing != nil && redisErr == nil,
			Error:   errString(redisErr),
			Stats:   h.cacheStats(),
		},
		Runtime: readRuntime(),
	})
}

func (h *Handler) Database(w http.ResponseWriter, r *http.Request) {
	stats := h.poolStats()
	if stats == nil {
		core.NotFound(w, "database stats")
		return
	}
	core.OK(w, stats)
}

func (h *Handler) Redis(w http.ResponseWriter, r *http.Request) {
	stats := h.cacheStats()
	if stats == nil {
		core.NotFound(w, "redis stats")
		return
	}
	core.OK(w, stats)
}

func (h *Handler) Runtime(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntime())
}

// FlushCatalog forces the next product listing to be read from the
// database.
func (h *Handler) FlushCatalog(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		core.NotFound(w, "catalog cache")
		return
	}

	if err := h.catalog.FlushCache(r.Context()); err != nil {
		core.InternalServerError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "catalog cache flushed")
	core.OK(w, map[string]bool{"flushed": true})
}

func (h *Handler) poolStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	s := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration.String(),
		MaxIdleClosed:      s.MaxIdleClosed,
		MaxLifetimeClosed:  s.MaxLifetimeClosed,
	}
}

func (h *Handler) cacheStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	s := h.redisStats()
	if s == nil {
		return nil
	}
	return &RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
		StaleConns: s.StaleConns,
	}
}

func readRuntime() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		HeapAlloc:    m.HeapAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
