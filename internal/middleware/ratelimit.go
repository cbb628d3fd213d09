// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/techzone/backoffice/internal/core"
)

// RateLimitConfig describes one limiter. Scope namespaces its Redis keys
// so independent limiters never share a bucket. Requests matching Exempt
// are never counted.
type RateLimitConfig struct {
	Scope    string
	Limit    redis_rate.Limit
	KeyFunc  func(*http.Request) string
	Exempt   func(*http.Request) bool
	FailOpen bool
}

// RateLimiter counts requests in Redis and falls back to an in-process
// token bucket while Redis is unreachable.
type RateLimiter struct {
	redis    *redis_rate.Limiter
	fallback *localLimiter
	config   RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	if cfg.Scope == "" {
		cfg.Scope = "global"
	}

	return &RateLimiter{
		redis:    redis_rate.NewLimiter(rdb),
		fallback: newLocalLimiter(),
		config:   cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.Exempt != nil && rl.config.Exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		if !rl.admit(w, r, rl.config.Limit) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// admit charges one request against limit and writes the 429 itself
// when the caller is over budget.
func (rl *RateLimiter) admit(
	w http.ResponseWriter,
	r *http.Request,
	limit redis_rate.Limit,
) bool {
	key := "ratelimit:" + rl.config.Scope + ":" + rl.config.KeyFunc(r)

	res, err := rl.redis.Allow(r.Context(), key, limit)
	if err != nil {
		slog.WarnContext(r.Context(), "rate limiter degraded to local bucket",
			"scope", rl.config.Scope,
			"error", err,
		)
		if !rl.config.FailOpen {
			core.JSONError(w, core.NewAppError(
				err,
				"rate limiter unavailable",
				http.StatusServiceUnavailable,
				"RATE_LIMITER_UNAVAILABLE",
			))
			return false
		}
		res = rl.fallback.allow(key, limit)
	}

	writeLimitHeaders(w, res, limit)

	if res.Allowed == 0 {
		writeLimited(w, res)
		return false
	}
	return true
}

// RoleLimits maps a role claim to its budget. The empty key is the
// budget for anonymous callers and unknown roles.
type RoleLimits map[string]redis_rate.Limit

var DefaultRoleLimits = RoleLimits{
	"":           PerMinute(60, 10),
	RoleCustomer: PerMinute(120, 20),
	RoleStaff:    PerMinute(600, 100),
	RoleAdmin:    PerMinute(600, 100),
}

// RoleRateLimiter must run after Authenticator so the caller's role is
// known. Callers are keyed by user id when authenticated, else by IP.
func RoleRateLimiter(
	rdb *redis.Client,
	limits RoleLimits,
) func(http.Handler) http.Handler {
	rl := NewRateLimiter(rdb, RateLimitConfig{
		Scope:    "role",
		KeyFunc:  KeyByUser,
		FailOpen: true,
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit, ok := limits[GetUserRole(r.Context())]
			if !ok {
				limit = limits[""]
			}

			if !rl.admit(w, r, limit) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// KeyByIP trusts the last X-Forwarded-For hop, which is the one the
// nearest proxy appended.
func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return "ip:" + strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ip:" + xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func KeyByUser(r *http.Request) string {
	if id := GetUserID(r.Context()); id != 0 {
		return "user:" + strconv.FormatInt(id, 10)
	}
	return KeyByIP(r)
}

// ExemptPaths matches requests whose path is exactly one of paths.
func ExemptPaths(paths ...string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		return slices.Contains(paths, r.URL.Path)
	}
}

// PerWindow allows rate requests per window with bursts up to burst.
func PerWindow(rate, burst int, window time.Duration) redis_rate.Limit {
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: window}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return PerWindow(rate, burst, time.Minute)
}

func writeLimitHeaders(w http.ResponseWriter, res *redis_rate.Result, limit redis_rate.Limit) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
}

func writeLimited(w http.ResponseWriter, res *redis_rate.Result) {
	retry := max(int(res.RetryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(retry))
	core.JSON(w, http.StatusTooManyRequests, core.Response{
		Success: false,
		Error: &core.ErrorBody{
			Code:    "RATE_LIMITED",
			Message: fmt.Sprintf("too many requests, retry in %d seconds", retry),
		},
	})
}

const localBucketIdle = 10 * time.Minute

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localLimiter is the per-process stand-in used while Redis is down.
// Idle buckets are swept lazily on access.
type localLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*localBucket
	lastSweep time.Time
}

func newLocalLimiter() *localLimiter {
	return &localLimiter{
		buckets:   make(map[string]*localBucket),
		lastSweep: time.Now(),
	}
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()
	now := time.Now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) > localBucketIdle {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > localBucketIdle {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)
	remaining := max(int(b.limiter.TokensAt(now)), 0)
	l.mu.Unlock()

	interval := time.Duration(float64(time.Second) / perSecond)
	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: interval,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	return res
}
