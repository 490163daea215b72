package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/core/services"
	"github.com/SscSPs/sadaqah_box_app/internal/handlers"
	"github.com/SscSPs/sadaqah_box_app/internal/middleware"
	"github.com/SscSPs/sadaqah_box_app/internal/platform/config"
	"github.com/SscSPs/sadaqah_box_app/internal/ratesources"
	"github.com/SscSPs/sadaqah_box_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/sadaqah_box_app/internal/scheduler"
	"github.com/SscSPs/sadaqah_box_app/internal/worker"
	"github.com/SscSPs/sadaqah_box_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Sadaqah Box API
// @version 1.0
// @description Donation boxes with multi-currency totals converted through USD.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	groups := ratesources.DefaultGroups(
		ratesources.WithTimeout(cfg.RateProviderTimeout),
		ratesources.WithMinInterval(cfg.RateProviderMinInterval),
	)
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, provider tables will not be shared", slog.String("error", err.Error()))
		} else {
			defer redisClient.Close()
			groups = ratesources.WrapProviders(groups, func(p ratesources.RateProvider) ratesources.RateProvider {
				return ratesources.NewCachedProvider(p, redisClient, cfg.RateTableCacheTTL, logger)
			})
			logger.Info("Provider table cache enabled", slog.Duration("ttl", cfg.RateTableCacheTTL))
		}
	}

	pool := worker.NewPool(cfg.WorkerPoolSize, cfg.WorkerQueueSize, worker.WithLogger(logger))
	if err := pool.Start(ctx); err != nil {
		logger.Error("Failed to start worker pool", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, groups, pool)

	var refreshScheduler *scheduler.RateRefreshScheduler
	if cfg.RateRefreshSchedule != "" {
		refreshScheduler, err = scheduler.New(cfg.RateRefreshSchedule, serviceContainer.Rates, scheduler.WithLogger(logger))
		if err != nil {
			logger.Error("Failed to create rate refresh scheduler", slog.String("error", err.Error()))
			os.Exit(1)
		}
		refreshScheduler.Start()
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	rate, err := limiter.NewRateFromFormatted(cfg.APIRateLimit)
	if err != nil {
		logger.Error("Invalid API_RATE_LIMIT", slog.String("value", cfg.APIRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RateLimit(limiter.New(memory.NewStore(), rate)),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}
	if refreshScheduler != nil {
		if err := refreshScheduler.Stop(shutdownCtx); err != nil {
			logger.Error("Scheduler shutdown failed", slog.String("error", err.Error()))
		}
	}
	if err := pool.Stop(shutdownCtx); err != nil {
		logger.Error("Worker pool shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("Shutdown complete")
}

// runMigrations applies every pending migration from ./migrations.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
