package sheets

import (
	"context"

	"fintrack/internal/core"
	"fintrack/internal/stats"
)

// Export is one consistent view of the ledger sent to a report sink.
type Export struct {
	Version  int64
	Expenses []core.Expense
	Report   stats.Report
}

// Ports for outbound adapters.
type (
	// ReportWriter replaces whatever the sink holds with the given export.
	ReportWriter interface {
		WriteReport(ctx context.Context, x Export) error
	}
)
