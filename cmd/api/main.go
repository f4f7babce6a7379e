package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lampolaskuri_backend/internal/events"
	apphttp "lampolaskuri_backend/internal/http"
	"lampolaskuri_backend/internal/http/router"
	"lampolaskuri_backend/internal/leads"
	"lampolaskuri_backend/internal/lookups"
	"lampolaskuri_backend/internal/notification"
	"lampolaskuri_backend/internal/report"
	"lampolaskuri_backend/internal/scheduler"
	"lampolaskuri_backend/platform/config"
	"lampolaskuri_backend/platform/db"
	"lampolaskuri_backend/platform/logger"
	"lampolaskuri_backend/platform/ratelimit"
	"lampolaskuri_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reportScheduler, closeScheduler := initReportScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	publicLimiter := initPublicLimiter(cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	lookupSvc, err := lookups.New(lookups.NewPgRepository(pool), cfg.GetLookupOverridesFile(), log)
	if err != nil {
		log.Error("failed to initialize lookup service", "error", err)
		panic("failed to initialize lookup service: " + err.Error())
	}

	leadsModule := leads.NewModule(pool, lookupSvc, eventBus, val, log)
	reportModule := report.NewModule(leadsModule.Service(), lookupSvc)

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(reportScheduler, log)
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:        cfg,
		Logger:        log,
		Health:        db.NewPoolAdapter(pool),
		EventBus:      eventBus,
		PublicLimiter: publicLimiter,
		Modules: []apphttp.Module{
			leadsModule,
			reportModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReportScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReportScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; report emails disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize report scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

// initPublicLimiter prefers the Redis-backed fixed-window limiter so the
// limit holds across instances; without Redis it falls back to per-process
// token buckets.
func initPublicLimiter(cfg *config.Config, log *logger.Logger) ratelimit.KeyLimiter {
	limit := cfg.GetPublicRatePerMinute()
	burst := cfg.GetPublicRateBurst()

	if cfg.GetRedisURL() != "" {
		opt, err := redis.ParseURL(cfg.GetRedisURL())
		if err == nil {
			store := ratelimit.NewRedisStore(redis.NewClient(opt), "rl:public")
			return ratelimit.NewLimiter(store, limit, time.Minute)
		}
		log.Warn("invalid REDIS_URL for rate limiting, using in-memory limiter", "error", err)
	}

	return ratelimit.NewMemoryLimiter(limit, time.Minute, burst)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
