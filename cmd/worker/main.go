// The worker process consumes queued jobs: report email deliveries and
// recalculation sweeps. It shares the domain wiring with the API server but
// exposes no HTTP surface.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lampolaskuri_backend/internal/email"
	"lampolaskuri_backend/internal/events"
	"lampolaskuri_backend/internal/leads/normalizer"
	leadrepo "lampolaskuri_backend/internal/leads/repository"
	leadservice "lampolaskuri_backend/internal/leads/service"
	"lampolaskuri_backend/internal/lookups"
	"lampolaskuri_backend/internal/report"
	"lampolaskuri_backend/internal/scheduler"
	"lampolaskuri_backend/platform/config"
	"lampolaskuri_backend/platform/db"
	"lampolaskuri_backend/platform/logger"
	"lampolaskuri_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.AsynqQueueName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	val := validator.New()

	lookupSvc, err := lookups.New(lookups.NewPgRepository(pool), cfg.GetLookupOverridesFile(), log)
	if err != nil {
		log.Error("failed to initialize lookup service", "error", err)
		panic("failed to initialize lookup service: " + err.Error())
	}

	leadSvc := leadservice.New(leadrepo.New(pool), normalizer.New(val), lookupSvc, log)
	leadSvc.SetEventBus(eventBus)
	reportSvc := report.NewService(leadSvc, lookupSvc)

	worker, err := scheduler.NewWorker(cfg, leadSvc, reportSvc, sender, eventBus, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	log.Info("worker running")
	worker.Run(ctx)
	log.Info("worker stopped")
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
