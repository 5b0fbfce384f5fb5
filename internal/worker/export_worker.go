package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets"
	"fintrack/internal/stats"
)

// SnapshotSource reads the persisted expense array. Storage backends
// implement it through their Load method.
type SnapshotSource interface {
	Load(ctx context.Context) ([]core.Expense, error)
}

// ExportWorker rebuilds the report from the persisted snapshot and writes
// it to a ReportWriter. Events carry no data, so every export is a full,
// idempotent rewrite and redelivered events are harmless.
type ExportWorker struct {
	source SnapshotSource
	writer sheets.ReportWriter
	budget stats.Budget
	now    func() time.Time

	mu          sync.Mutex
	lastVersion int64
	exports     int
}

// NewExportWorker creates a worker. The budget is the configured limit,
// since budgets are not persisted alongside expenses.
func NewExportWorker(source SnapshotSource, writer sheets.ReportWriter, budget stats.Budget) *ExportWorker {
	return &ExportWorker{
		source: source,
		writer: writer,
		budget: budget,
		now:    time.Now,
	}
}

// HandleLedgerEvent processes one ledger event from AMQP.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"op", ev.Op,
		"expense_id", ev.ExpenseID,
		"version", ev.Version)

	if err := w.export(ctx, ev.Version); err != nil {
		return fmt.Errorf("export after %s: %w", ev.Op, err)
	}
	return nil
}

// Export writes the current snapshot. It backs up event delivery and runs
// at startup to recover from missed events.
func (w *ExportWorker) Export(ctx context.Context) error {
	w.mu.Lock()
	v := w.lastVersion
	w.mu.Unlock()
	return w.export(ctx, v)
}

// Exports returns how many exports succeeded.
func (w *ExportWorker) Exports() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exports
}

func (w *ExportWorker) export(ctx context.Context, version int64) error {
	expenses, err := w.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	now := w.now()
	x := sheets.Export{
		Version:  version,
		Expenses: stats.SortByDateDesc(expenses),
		Report:   stats.BuildReport(expenses, stats.Baseline(expenses, now), w.budget, now),
	}
	if err := w.writer.WriteReport(ctx, x); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	w.mu.Lock()
	if version > w.lastVersion {
		w.lastVersion = version
	}
	w.exports++
	w.mu.Unlock()

	slog.InfoContext(ctx, "Report exported",
		"version", version,
		"count", len(expenses),
		"total_cents", x.Report.Summary.TotalBalance.Value.Cents)
	return nil
}
