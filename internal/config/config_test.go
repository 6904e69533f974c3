// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://hotelbook@localhost/hotelbook")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoadFromDefaults(t *testing.T) {
	setRequired(t)

	c, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if c.Booking.CancellationWindow != 24*time.Hour {
		t.Fatalf("cancellation window = %v, want 24h", c.Booking.CancellationWindow)
	}
	if c.Booking.UpcomingDays != 7 || c.Booking.LockBackend != "redis" {
		t.Fatalf("booking = %+v", c.Booking)
	}
	if c.JWT.AccessTokenExpire != 15*time.Minute {
		t.Fatalf("access token expiry = %v, want 15m", c.JWT.AccessTokenExpire)
	}
	if !c.Operator.Enabled || c.Operator.Email != "admin@gmail.com" {
		t.Fatalf("operator = %+v", c.Operator)
	}
	if !c.IsDevelopment() || c.IsProduction() {
		t.Fatalf("environment = %q, want development", c.App.Environment)
	}
}

func TestLoadFromEnvOverridesFile(t *testing.T) {
	setRequired(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "booking:\n  upcoming_days: 14\n  lock_backend: local\nserver:\n  port: 9090\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "7070")
	t.Setenv("BOOKING_CANCELLATION_WINDOW", "48h")

	c, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if c.Server.Port != 7070 {
		t.Fatalf("port = %d, want env value 7070", c.Server.Port)
	}
	if c.Booking.UpcomingDays != 14 || c.Booking.LockBackend != "local" {
		t.Fatalf("booking = %+v, want file values", c.Booking)
	}
	if c.Booking.CancellationWindow != 48*time.Hour {
		t.Fatalf("cancellation window = %v, want 48h", c.Booking.CancellationWindow)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing database", map[string]string{"DATABASE_URL": ""}, "DATABASE_URL is required"},
		{"missing redis", map[string]string{"REDIS_URL": ""}, "REDIS_URL is required"},
		{
			"default operator password in production",
			map[string]string{"ENVIRONMENT": "production", "OTEL_INSECURE": "false"},
			"ADMIN_PASSWORD must be changed",
		},
		{"operator without password", map[string]string{"ADMIN_PASSWORD": ""}, "ADMIN_EMAIL and ADMIN_PASSWORD"},
		{"unknown lock backend", map[string]string{"BOOKING_LOCK_BACKEND": "etcd"}, "lock_backend"},
		{"zero upcoming days", map[string]string{"BOOKING_UPCOMING_DAYS": "0"}, "upcoming_days"},
		{"negative window", map[string]string{"BOOKING_CANCELLATION_WINDOW": "-1h"}, "cancellation_window"},
		{"zero search concurrency", map[string]string{"BOOKING_SEARCH_CONCURRENCY": "0"}, "search_concurrency"},
		{"zero rate window", map[string]string{"RATE_LIMIT_WINDOW": "0s"}, "rate_limit"},
		{"zero booking rate", map[string]string{"RATE_LIMIT_BOOKING_REQUESTS": "0"}, "rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadFrom("")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("LoadFrom() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestOperatorMayBeDisabled(t *testing.T) {
	setRequired(t)
	t.Setenv("OPERATOR_ENABLED", "false")
	t.Setenv("ADMIN_PASSWORD", "")

	c, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if c.Operator.Enabled {
		t.Fatal("operator still enabled")
	}
}
