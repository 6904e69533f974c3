// AngelaMos | 2026
// metrics.go

package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carterperez-dev/hotelbook/internal/core"
)

const namespace = "hotelbook"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	BookingOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_operations_total",
			Help:      "Booking engine operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)
	RoomLockWait = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "room_lock_wait_seconds",
			Help:      "Time spent acquiring a per-room booking lock.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 3},
		},
		[]string{"acquired"},
	)
	RateLimitDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_decisions_total",
			Help:      "Rate limiter decisions by limiter, backend and result.",
		},
		[]string{"limiter", "backend", "result"},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		HTTPRequests,
		HTTPLatency,
		BookingOperations,
		RoomLockWait,
		RateLimitDecisions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveBooking(operation string, err error) {
	BookingOperations.WithLabelValues(operation, Outcome(err)).Inc()
}

func ObserveLockWait(acquired bool, dur time.Duration) {
	RoomLockWait.WithLabelValues(strconv.FormatBool(acquired)).Observe(dur.Seconds())
}

func ObserveRateLimit(limiter, backend string, allowed bool) {
	result := "allowed"
	if !allowed {
		result = "limited"
	}
	RateLimitDecisions.WithLabelValues(limiter, backend, result).Inc()
}

// Outcome buckets an error into the failure taxonomy for labelling.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, core.ErrNotFound):
		return "not_found"
	case errors.Is(err, core.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, core.ErrConflict):
		return "conflict"
	case errors.Is(err, core.ErrForbidden), errors.Is(err, core.ErrUnauthorized):
		return "forbidden"
	case errors.Is(err, core.ErrPolicyViolation):
		return "policy"
	}
	return "error"
}
