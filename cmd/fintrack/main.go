package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/edit"
	apphttp "fintrack/internal/http"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/stats"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		cli.Fatal(logger, "Server failed", err)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err.Error())
		}
	}()

	budget, err := cfg.BudgetLimit()
	if err != nil {
		return err
	}
	l := ledger.New(res.Persister(), ledger.WithBudget(budget))
	if err := l.Load(ctx); err != nil {
		return err
	}

	reports := cache.NewLRUCache[stats.Report](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	caches := cache.NewManager()
	caches.Register(reports)
	caches.StartCleanup(cfg.ReportCacheTTL)
	defer caches.Stop()

	opts := []services.LedgerServiceOption{
		services.WithReportCache(reports),
		services.WithLogger(logger),
	}
	if res.Publisher != nil {
		opts = append(opts, services.WithPublisher(res.Publisher))
	}
	svc := services.NewLedgerService(l, opts...)

	if cfg.SeedDemo {
		added, err := svc.Seed(ctx)
		switch {
		case err != nil && !ledger.IsPersistError(err):
			return fmt.Errorf("seed demo data: %w", err)
		case err != nil:
			logger.Warn("Demo data seeded but not persisted", applog.FieldError, err.Error())
		case added:
			logger.Info("Seeded demo data", applog.FieldCount, l.Len())
		}
	}

	srv := apphttp.NewServer(apphttp.Config{
		Addr:           ":" + cfg.Port,
		RecentLimit:    cfg.RecentLimit,
		PageSize:       cfg.PageSize,
		WriteRateLimit: cfg.WriteRateLimit,
		Ready:          res.Ping,
		Logger:         logger,
	}, svc, edit.NewSession())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fintrack server",
			"port", cfg.Port,
			"backend", res.Type,
			"amqp_enabled", res.Publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	})
	return g.Wait()
}
