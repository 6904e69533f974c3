// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/carterperez-dev/hotelbook/internal/admin"
	"github.com/carterperez-dev/hotelbook/internal/auth"
	"github.com/carterperez-dev/hotelbook/internal/booking"
	"github.com/carterperez-dev/hotelbook/internal/config"
	"github.com/carterperez-dev/hotelbook/internal/core"
	"github.com/carterperez-dev/hotelbook/internal/health"
	"github.com/carterperez-dev/hotelbook/internal/hotel"
	"github.com/carterperez-dev/hotelbook/internal/metrics"
	"github.com/carterperez-dev/hotelbook/internal/middleware"
	"github.com/carterperez-dev/hotelbook/internal/room"
	"github.com/carterperez-dev/hotelbook/internal/server"
	"github.com/carterperez-dev/hotelbook/internal/user"
	"github.com/carterperez-dev/hotelbook/migrations"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	//nolint:errcheck // .env is optional outside development
	_ = godotenv.Load()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	startedAt := time.Now()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			return err
		}
		logger.Info("database schema up to date")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	if cfg.IsDevelopment() {
		created, keyErr := auth.EnsureKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
		if keyErr != nil {
			return keyErr
		}
		if created {
			logger.Warn("generated development signing keys",
				"private_key", cfg.JWT.PrivateKeyPath,
			)
		}
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	strategies := []auth.Strategy{auth.NewStoreStrategy(userSvc)}
	if cfg.Operator.Enabled {
		strategies = append([]auth.Strategy{auth.NewOperatorStrategy(cfg.Operator)}, strategies...)
	}
	authSvc := auth.NewService(
		jwtManager,
		userSvc,
		core.NewTokenBlacklist(redis.Client),
		cfg.Operator.Email,
		strategies...,
	)
	authHandler := auth.NewHandler(authSvc)

	hotelRepo := hotel.NewRepository(db.DB)
	priceSync := hotel.NewSynchronizer(hotelRepo, logger)
	hotelSvc := hotel.NewService(hotelRepo, db, priceSync, logger)
	hotelHandler := hotel.NewHandler(hotelSvc)

	roomSvc := room.NewService(room.NewRepository(db.DB), hotelSvc, db, priceSync, logger)
	roomHandler := room.NewHandler(roomSvc)

	var locker booking.RoomLocker
	if cfg.Booking.LockBackend == "redis" {
		locker = redis.RoomLocker(cfg.Booking.LockTTL, cfg.Booking.LockWait)
	} else {
		locker = core.NewLocalLocker(cfg.Booking.LockWait)
	}
	logger.Info("room locker initialized", "backend", cfg.Booking.LockBackend)

	bookingSvc := booking.NewService(
		booking.NewRepository(db.DB),
		db,
		locker,
		cfg.Booking,
		booking.WithLogger(logger),
	)
	bookingHandler := booking.NewHandler(bookingSvc)

	healthHandler := health.NewHandler(
		health.Named("database", db),
		health.Named("redis", redis),
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		DBPing:     db.Ping,
		RedisStats: redis.PoolStats,
		RedisPing:  redis.Ping,
		Version:    cfg.App.Version,
		StartedAt:  startedAt,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics)
	}
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.GlobalLimit(cfg.RateLimit)).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Handler(metrics.InitRegistry()))
	}

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin
	bookingLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.BookingLimit(cfg.RateLimit),
	).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)

		r.Post("/users", authHandler.Register)

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		hotelHandler.RegisterRoutes(r, authenticator)
		roomHandler.RegisterRoutes(r, authenticator)
		bookingHandler.RegisterRoutes(r, authenticator, bookingLimiter)

		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
		bookingHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
