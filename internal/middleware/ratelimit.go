// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/hotelbook/internal/config"
	"github.com/carterperez-dev/hotelbook/internal/core"
	"github.com/carterperez-dev/hotelbook/internal/metrics"
)

// Scope picks what a limiter counts requests against.
type Scope int

const (
	// ScopeClient counts per client address.
	ScopeClient Scope = iota
	// ScopePrincipalRoute counts per principal and normalized route.
	// Anonymous callers are counted by address.
	ScopePrincipalRoute
)

type RateLimitConfig struct {
	Name  string
	Limit redis_rate.Limit
	Scope Scope
}

// GlobalLimit throttles every request by client address.
func GlobalLimit(cfg config.RateLimitConfig) RateLimitConfig {
	return RateLimitConfig{
		Name: "global",
		Limit: redis_rate.Limit{
			Rate:   cfg.Requests,
			Burst:  max(cfg.Burst, 1),
			Period: cfg.Window,
		},
		Scope: ScopeClient,
	}
}

// BookingLimit throttles booking writes per principal, so one account
// cannot hammer a room's lock from many addresses.
func BookingLimit(cfg config.RateLimitConfig) RateLimitConfig {
	return RateLimitConfig{
		Name:  "booking",
		Limit: PerMinute(cfg.BookingRequests, max(cfg.BookingBurst, 1)),
		Scope: ScopePrincipalRoute,
	}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: time.Minute,
	}
}

type RateLimiter struct {
	cfg      RateLimitConfig
	shared   *redis_rate.Limiter
	fallback *localLimiter
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:      cfg,
		shared:   redis_rate.NewLimiter(rdb),
		fallback: &localLimiter{entries: make(map[string]*localEntry)},
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		res, backend := rl.allow(r.Context(), rl.key(r))
		allowed := res.Allowed > 0
		metrics.ObserveRateLimit(rl.cfg.Name, backend, allowed)

		setRateLimitHeaders(w, res)

		if !allowed {
			retryAfter := max(int(math.Ceil(res.RetryAfter.Seconds())), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			core.JSONError(w, core.RateLimitedError(retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow asks Redis first. While Redis is unreachable every instance enforces
// the same limit on its own.
func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, string) {
	res, err := rl.shared.Allow(ctx, key, rl.cfg.Limit)
	if err == nil {
		return res, "redis"
	}

	slog.WarnContext(ctx, "rate limiter using local fallback",
		"limiter", rl.cfg.Name,
		"error", err,
	)
	return rl.fallback.allow(key, rl.cfg.Limit, time.Now()), "local"
}

func (rl *RateLimiter) key(r *http.Request) string {
	prefix := "ratelimit:" + rl.cfg.Name

	if rl.cfg.Scope == ScopePrincipalRoute {
		if userID := GetUserID(r.Context()); userID != "" {
			return fmt.Sprintf("%s:user:%s:%s",
				prefix, userID, normalizeEndpoint(r.URL.Path))
		}
	}

	return prefix + ":ip:" + ClientIP(r)
}

// normalizeEndpoint collapses id segments so /v1/bookings/<uuid> and
// /v1/bookings/<other uuid> share one bucket.
func normalizeEndpoint(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")

	for i, part := range parts {
		if _, err := uuid.Parse(part); err == nil {
			parts[i] = "{id}"
			continue
		}
		if _, err := strconv.ParseUint(part, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}

	return "/" + strings.Join(parts, "/")
}

func setRateLimitHeaders(w http.ResponseWriter, res *redis_rate.Result) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))
}

const localEntryTTL = 10 * time.Minute

// localLimiter mirrors a redis_rate limit with one token bucket per key.
// Idle buckets are swept on access.
type localLimiter struct {
	mu      sync.Mutex
	entries map[string]*localEntry
	swept   time.Time
}

type localEntry struct {
	bucket *rate.Limiter
	seen   time.Time
}

func (l *localLimiter) allow(
	key string,
	limit redis_rate.Limit,
	now time.Time,
) *redis_rate.Result {
	interval := limit.Period / time.Duration(limit.Rate)

	l.mu.Lock()
	l.sweep(now)
	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{bucket: rate.NewLimiter(rate.Every(interval), limit.Burst)}
		l.entries[key] = e
	}
	e.seen = now
	l.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      limit,
		RetryAfter: -1,
		ResetAfter: interval,
	}

	if e.bucket.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	res.Remaining = int(e.bucket.TokensAt(now))

	return res
}

func (l *localLimiter) sweep(now time.Time) {
	if now.Sub(l.swept) < localEntryTTL {
		return
	}
	for key, e := range l.entries {
		if now.Sub(e.seen) > localEntryTTL {
			delete(l.entries, key)
		}
	}
	l.swept = now
}
