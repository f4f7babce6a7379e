// lead-recalc recomputes the stored metrics of every lead against the
// current lookup snapshot. Run it after editing lookup values or formulas.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lampolaskuri_backend/internal/leads/normalizer"
	leadrepo "lampolaskuri_backend/internal/leads/repository"
	leadservice "lampolaskuri_backend/internal/leads/service"
	"lampolaskuri_backend/internal/lookups"
	"lampolaskuri_backend/platform/config"
	"lampolaskuri_backend/platform/db"
	"lampolaskuri_backend/platform/logger"
	"lampolaskuri_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	lookupSvc, err := lookups.New(lookups.NewPgRepository(pool), cfg.GetLookupOverridesFile(), log)
	if err != nil {
		log.Error("failed to initialize lookup service", "error", err)
		os.Exit(1)
	}

	leadSvc := leadservice.New(leadrepo.New(pool), normalizer.New(validator.New()), lookupSvc, log)

	processed, err := leadSvc.RecalculateAll(ctx)
	if err != nil {
		log.Error("recalculation failed", "error", err, "processed", processed)
		os.Exit(1)
	}

	log.Info("recalculation complete", "processed", processed)
}
