package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/ticketagent/marketplace/internal/app"
	"github.com/ticketagent/marketplace/internal/config"
	"github.com/ticketagent/marketplace/internal/observability"
	"github.com/ticketagent/marketplace/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("component", "syncworker")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.BuildServices(ctx, cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}
	defer func() { _ = services.Close() }()

	logger.Info("sync worker starting",
		"interval", cfg.SyncInterval.String(),
		"workers", cfg.SyncWorkers,
	)

	runCycle(ctx, cfg, services, logger)

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := shutdownUptrace(shutdownCtx); err != nil {
				logger.Error("shutdown uptrace failed", "error", err)
			}
			cancel()
			logger.Info("sync worker stopped")
			return
		case <-ticker.C:
			runCycle(ctx, cfg, services, logger)
		}
	}
}

// runCycle executes one full pass: fixture reconciliation per league,
// then supplier price syncs, then the derived snapshots.
func runCycle(ctx context.Context, cfg config.Config, services *app.Services, logger *logging.Logger) {
	started := time.Now()

	syncFixtures(ctx, cfg, services, logger)
	syncSuppliers(ctx, services, logger)
	refreshDerived(ctx, services, logger)

	logger.InfoContext(ctx, "sync cycle finished", "duration_ms", time.Since(started).Milliseconds())
}

func syncFixtures(ctx context.Context, cfg config.Config, services *app.Services, logger *logging.Logger) {
	if services.FixtureSync == nil {
		logger.InfoContext(ctx, "fixture sync skipped", "reason", "provider disabled")
		return
	}

	leagues, err := services.LeagueRepo.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "list leagues for sync failed", "error", err)
		return
	}

	pool, err := ants.NewPool(cfg.SyncWorkers)
	if err != nil {
		logger.ErrorContext(ctx, "create worker pool failed", "error", err)
		return
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, lg := range leagues {
		if ctx.Err() != nil {
			break
		}
		leagueID := lg.ID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			run, err := services.FixtureSync.SyncLeague(ctx, leagueID)
			if err != nil {
				logger.WarnContext(ctx, "league sync failed", "league_id", leagueID, "error", err)
				return
			}
			logger.InfoContext(ctx, "league sync finished",
				"league_id", leagueID,
				"processed", run.Counters.Processed,
				"updated", run.Counters.Updated,
				"unresolved", len(run.Unresolved),
				"date_mismatches", len(run.DateMismatches),
			)
		}); err != nil {
			workers.Done()
			logger.WarnContext(ctx, "submit league sync failed", "league_id", leagueID, "error", err)
		}

		// Pace submissions so the provider sees a steady request rate.
		if cfg.RequestPace > 0 {
			time.Sleep(cfg.RequestPace)
		}
	}
	workers.Wait()
}

func syncSuppliers(ctx context.Context, services *app.Services, logger *logging.Logger) {
	if services.SupplierSync == nil {
		logger.InfoContext(ctx, "supplier sync skipped", "reason", "no supplier sources enabled")
		return
	}

	suppliers, err := services.SupplierRepo.ListActive(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "list active suppliers failed", "error", err)
		return
	}

	var wg conc.WaitGroup
	for _, sup := range suppliers {
		slug := sup.Slug
		wg.Go(func() {
			run, err := services.SupplierSync.Sync(ctx, slug)
			if err != nil {
				logger.WarnContext(ctx, "supplier sync failed", "supplier_slug", slug, "error", err)
				return
			}
			logger.InfoContext(ctx, "supplier sync finished",
				"supplier_slug", slug,
				"processed", run.Counters.Processed,
				"updated", run.Counters.Updated,
				"unresolved", len(run.Unresolved),
			)
		})
	}
	wg.Wait()
}

func refreshDerived(ctx context.Context, services *app.Services, logger *logging.Logger) {
	if changed, err := services.MinPrice.RecomputeUpcoming(ctx); err != nil {
		logger.ErrorContext(ctx, "min price recompute failed", "error", err)
	} else {
		logger.InfoContext(ctx, "min price recompute finished", "changed_fixtures", changed)
	}

	if updated, err := services.LeagueMonths.RecomputeAll(ctx); err != nil {
		logger.ErrorContext(ctx, "league months recompute failed", "error", err)
	} else {
		logger.InfoContext(ctx, "league months recompute finished", "updated_leagues", updated)
	}
}
