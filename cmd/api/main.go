// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/soundline/internal/admin"
	"github.com/carterperez-dev/soundline/internal/auth"
	"github.com/carterperez-dev/soundline/internal/catalog"
	"github.com/carterperez-dev/soundline/internal/config"
	"github.com/carterperez-dev/soundline/internal/core"
	"github.com/carterperez-dev/soundline/internal/entitlement"
	"github.com/carterperez-dev/soundline/internal/health"
	"github.com/carterperez-dev/soundline/internal/middleware"
	"github.com/carterperez-dev/soundline/internal/notify"
	"github.com/carterperez-dev/soundline/internal/server"
	"github.com/carterperez-dev/soundline/internal/subscription"
	"github.com/carterperez-dev/soundline/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
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

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	publisher, err := notify.NewPublisher(cfg.AMQP, logger)
	if err != nil {
		return err
	}
	if cfg.AMQP.Enabled {
		logger.Info("event publisher connected",
			"exchange", cfg.AMQP.Exchange,
		)
	}

	userRepo := user.NewRepository(db.DB)
	catalogRepo := catalog.NewRepository(db.DB)
	subscriptionRepo := subscription.NewRepository(db.DB)

	usage := entitlement.NewFailOpenCounter(usageCounter{
		users:    userRepo,
		releases: catalogRepo,
	}, logger)
	resolver := entitlement.NewResolver(directory{repo: userRepo}, logger)

	userSvc := user.NewService(userRepo, resolver, usage)
	catalogSvc := catalog.NewService(db.DB, catalogRepo, resolver, publisher, logger)
	subscriptionSvc := subscription.NewService(
		subscriptionRepo,
		userRepo,
		publisher,
		logger,
	)

	sessions := auth.NewSessionStore(redis.Client, cfg.Session.TTL)
	authSvc := auth.NewService(sessions, userSvc)

	authHandler := auth.NewHandler(authSvc, cfg.Session)
	userHandler := user.NewHandler(userSvc)
	catalogHandler := catalog.NewHandler(catalogSvc)
	subscriptionHandler := subscription.NewHandler(subscriptionSvc)
	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Subscriptions: subscriptionSvc,
		Releases:      catalogSvc,
		DBStats:       db.Stats,
		RedisStats:    redis.PoolStats,
		DBPing:        db.Ping,
		RedisPing:     redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	sessionAuth := middleware.Authenticator(authSvc, cfg.Session.CookieName)
	planRate := middleware.TieredRateLimiter(redis.Client, middleware.DefaultTiers)
	authenticated := func(next http.Handler) http.Handler {
		return sessionAuth(planRate(next))
	}
	adminOnly := middleware.RequireAdmin

	limits := middleware.NewLimitGuard(resolver, usage, logger)

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticated)
		subscriptionHandler.RegisterRoutes(r, authenticated)

		userHandler.RegisterRoutes(r, user.Guards{
			Authenticator:     authenticated,
			CheckSubscription: middleware.CheckSubscription,
			ArtistLimit:       limits.CheckFeatureLimit(entitlement.FeatureArtists),
		})

		catalogHandler.RegisterRoutes(r, catalog.Guards{
			Authenticator:     authenticated,
			CheckSubscription: middleware.CheckSubscription,
			ReleaseLimit:      limits.CheckFeatureLimit(entitlement.FeatureReleases),
			TrackLimit:        limits.CheckFeatureLimit(entitlement.FeatureTracks),
			FileSizeLimit:     limits.CheckFeatureLimit(entitlement.FeatureFileSize),
		})

		userHandler.RegisterAdminRoutes(r, authenticated, adminOnly)
		adminHandler.RegisterRoutes(r, authenticated, adminOnly)
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

	if err := publisher.Close(); err != nil {
		logger.Error("publisher close error", "error", err)
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

// directory resolves subjects for the limit resolver straight from the
// user repository, so the resolver can be built before the user service.
type directory struct {
	repo user.Repository
}

func (d directory) SubjectByID(
	ctx context.Context,
	id string,
) (*entitlement.Subject, error) {
	u, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.ToSubject(), nil
}

// usageCounter aggregates quota counts that live in different repositories.
type usageCounter struct {
	users    user.Repository
	releases catalog.Repository
}

func (u usageCounter) CountManagedArtists(
	ctx context.Context,
	userID string,
) (int64, error) {
	return u.users.CountManagedArtists(ctx, userID)
}

func (u usageCounter) CountUserReleases(
	ctx context.Context,
	userID string,
) (int64, error) {
	return u.releases.CountUserReleases(ctx, userID)
}

func (u usageCounter) CountReleaseTracks(
	ctx context.Context,
	releaseID string,
) (int64, error) {
	return u.releases.CountReleaseTracks(ctx, releaseID)
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

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

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
