// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/hotelbook/internal/access"
	"github.com/carterperez-dev/hotelbook/internal/config"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func postBooking(h http.Handler, userID, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	req.RemoteAddr = remote
	if userID != "" {
		req = req.WithContext(WithPrincipal(req.Context(),
			access.Principal{UserID: userID, Role: access.RoleUser}, nil))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	_, client := newTestRedis(t)
	h := NewRateLimiter(client, RateLimitConfig{
		Name:  "test",
		Limit: PerMinute(2, 2),
	}).Handler(ok())

	for i := range 2 {
		if rec := postBooking(h, "", "10.0.0.1:5000"); rec.Code != http.StatusCreated {
			t.Fatalf("request %d status = %d, want 201", i, rec.Code)
		}
	}

	rec := postBooking(h, "", "10.0.0.1:5000")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" || rec.Header().Get("X-RateLimit-Limit") != "2" {
		t.Fatalf("headers = %v", rec.Header())
	}
	if code := errorCode(t, rec); code != "RATE_LIMITED" {
		t.Fatalf("code = %q, want RATE_LIMITED", code)
	}

	if rec := postBooking(h, "", "10.0.0.2:5000"); rec.Code != http.StatusCreated {
		t.Fatalf("other address status = %d, want 201", rec.Code)
	}
}

func TestBookingLimitKeysByPrincipal(t *testing.T) {
	_, client := newTestRedis(t)
	h := NewRateLimiter(client, BookingLimit(config.RateLimitConfig{
		BookingRequests: 1,
		BookingBurst:    1,
	})).Handler(ok())

	if rec := postBooking(h, "u1", "10.0.0.1:5000"); rec.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want 201", rec.Code)
	}
	if rec := postBooking(h, "u1", "10.0.0.9:5000"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("same user from new address status = %d, want 429", rec.Code)
	}
	if rec := postBooking(h, "u2", "10.0.0.1:5000"); rec.Code != http.StatusCreated {
		t.Fatalf("other user status = %d, want 201", rec.Code)
	}

	if rec := postBooking(h, "", "10.0.0.5:5000"); rec.Code != http.StatusCreated {
		t.Fatalf("anonymous status = %d, want 201", rec.Code)
	}
	if rec := postBooking(h, "", "10.0.0.5:5000"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("anonymous repeat status = %d, want 429 keyed by address", rec.Code)
	}
}

func TestRateLimiterFallsBackWhenRedisIsDown(t *testing.T) {
	mr, client := newTestRedis(t)
	h := NewRateLimiter(client, RateLimitConfig{
		Name:  "test",
		Limit: PerMinute(1, 1),
	}).Handler(ok())
	mr.Close()

	if rec := postBooking(h, "", "10.0.0.1:5000"); rec.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want 201", rec.Code)
	}
	if rec := postBooking(h, "", "10.0.0.1:5000"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429 from local fallback", rec.Code)
	}
}

func TestLocalLimiterSweepsIdleKeys(t *testing.T) {
	l := &localLimiter{entries: map[string]*localEntry{}}
	limit := PerMinute(1, 1)
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if res := l.allow("a", limit, start); res.Allowed != 1 {
		t.Fatalf("first allow = %+v", res)
	}

	later := start.Add(localEntryTTL + time.Second)
	l.allow("b", limit, later)
	if _, ok := l.entries["a"]; ok || len(l.entries) != 1 {
		t.Fatalf("entries = %v, want only b", l.entries)
	}

	res := l.allow("b", limit, later)
	if res.Allowed != 0 || res.RetryAfter != time.Minute {
		t.Fatalf("second allow = %+v, want limited for a minute", res)
	}
}

func TestGlobalLimitUsesWindow(t *testing.T) {
	got := GlobalLimit(config.RateLimitConfig{Requests: 100, Window: time.Hour})

	if got.Limit.Rate != 100 || got.Limit.Period != time.Hour || got.Limit.Burst != 1 {
		t.Fatalf("limit = %+v", got.Limit)
	}
	if got.Scope != ScopeClient || got.Name != "global" {
		t.Fatalf("config = %+v", got)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := map[string]string{
		"/v1/bookings": "/v1/bookings",
		"/v1/bookings/3f2b8c1e-9a4d-4c7e-8f1a-2b3c4d5e6f70": "/v1/bookings/{id}",
		"/v1/hotels/42/rooms/": "/v1/hotels/{id}/rooms",
	}
	for in, want := range tests {
		if got := normalizeEndpoint(in); got != want {
			t.Fatalf("normalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
