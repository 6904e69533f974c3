// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/hotelbook/internal/core"
)

// Backend is a dependency the operator dashboard reports on.
type Backend struct {
	Ping  func(ctx context.Context) error
	Stats func() any
}

type Handler struct {
	database Backend
	redis    Backend
	started  time.Time
	version  string
}

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	DBPing     func(ctx context.Context) error
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	Version    string
	StartedAt  time.Time
}

func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		database: Backend{Ping: cfg.DBPing},
		redis:    Backend{Ping: cfg.RedisPing},
		started:  cfg.StartedAt,
		version:  cfg.Version,
	}
	if h.started.IsZero() {
		h.started = time.Now()
	}
	if cfg.DBStats != nil {
		h.database.Stats = func() any { return toDBPoolStats(cfg.DBStats()) }
	}
	if cfg.RedisStats != nil {
		h.redis.Stats = func() any { return toRedisPoolStats(cfg.RedisStats()) }
	}
	return h
}

// RegisterRoutes uses full paths so the booking handler can serve
// /admin/stats/bookings next to these.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/admin/stats", h.GetSystemStats)
		r.Get("/admin/stats/db", h.GetDatabaseStats)
		r.Get("/admin/stats/redis", h.GetRedisStats)
		r.Get("/admin/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	core.OK(w, SystemStatsResponse{
		Version:  h.version,
		Uptime:   time.Since(h.started).Truncate(time.Second).String(),
		Database: h.database.status(ctx),
		Redis:    h.redis.status(ctx),
		Runtime:  readRuntimeStats(),
	})
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.database.stats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.redis.stats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntimeStats())
}

func (b Backend) status(ctx context.Context) DependencyStatus {
	healthy := true
	if b.Ping != nil && b.Ping(ctx) != nil {
		healthy = false
	}
	return DependencyStatus{Healthy: healthy, Stats: b.stats()}
}

func (b Backend) stats() any {
	if b.Stats == nil {
		return nil
	}
	return b.Stats()
}

func readRuntimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     mem.Alloc,
		MemSys:       mem.Sys,
		NumGC:        mem.NumGC,
	}
}

func toDBPoolStats(s sql.DBStats) DBPoolStats {
	return DBPoolStats{
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

func toRedisPoolStats(s *redis.PoolStats) *RedisPoolStats {
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

type SystemStatsResponse struct {
	Version  string           `json:"version,omitempty"`
	Uptime   string           `json:"uptime"`
	Database DependencyStatus `json:"database"`
	Redis    DependencyStatus `json:"redis"`
	Runtime  RuntimeStats     `json:"runtime"`
}

type DependencyStatus struct {
	Healthy bool `json:"healthy"`
	Stats   any  `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"maxOpenConnections"`
	OpenConnections    int    `json:"openConnections"`
	InUse              int    `json:"inUse"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"waitCount"`
	WaitDuration       string `json:"waitDuration"`
	MaxIdleClosed      int64  `json:"maxIdleClosed"`
	MaxLifetimeClosed  int64  `json:"maxLifetimeClosed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
	StaleConns uint32 `json:"staleConns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCpu"`
	MemAlloc     uint64 `json:"memAllocBytes"`
	MemSys       uint64 `json:"memSysBytes"`
	NumGC        uint32 `json:"numGc"`
}
