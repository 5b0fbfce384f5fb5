package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	mem "fintrack/internal/sheets/memory"
	"fintrack/internal/stats"
	"fintrack/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting fintrack-worker")

	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		cli.Fatal(logger, "Worker failed", err)
	}
	logger.Info("Worker shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	store, err := backend.CreateStore(bcfg)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	writer, err := newReportWriter(ctx, cfg, logger)
	if err != nil {
		return err
	}

	budget, err := cfg.BudgetLimit()
	if err != nil {
		return err
	}
	exporter := worker.NewExportWorker(store, writer, stats.Budget{Limit: budget})

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect to AMQP: %w", err)
	}
	defer client.Close()

	scheduler := services.NewExportScheduler(exporter, services.ExportSchedulerConfig{Interval: cfg.ExportInterval})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := scheduler.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return scheduler.Stop(stopCtx)
	})
	g.Go(func() error {
		err := client.ConsumeLedgerEvents(gctx, exporter.HandleLedgerEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	err = g.Wait()
	logger.Info("Worker stopped", applog.FieldCount, exporter.Exports())
	return err
}

// newReportWriter picks Google Sheets when a spreadsheet is configured and
// an in-memory sink otherwise.
func newReportWriter(ctx context.Context, cfg *config.Config, logger *applog.Logger) (sheets.ReportWriter, error) {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets disabled, exports are kept in memory")
		return mem.New(), nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		ExpensesSheet:   cfg.GoogleSheetName,
		SummarySheet:    cfg.GoogleSummarySheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}
