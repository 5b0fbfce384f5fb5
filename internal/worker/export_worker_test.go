package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets"
	"fintrack/internal/sheets/memory"
	"fintrack/internal/stats"
)

type staticSource struct {
	items []core.Expense
	err   error
}

func (s staticSource) Load(context.Context) ([]core.Expense, error) { return s.items, s.err }

type failingWriter struct{}

func (failingWriter) WriteReport(context.Context, sheets.Export) error {
	return errors.New("sheets unavailable")
}

func fixture() []core.Expense {
	d := time.Date(2025, 2, 6, 9, 0, 0, 0, time.UTC)
	return []core.Expense{
		{ID: 1, Description: "Advert", Category: core.Marketing, Amount: core.Money{Cents: 5000}, Date: d},
		{ID: 2, Description: "Salaries Paid", Category: core.Salary, Amount: core.Money{Cents: 200000}, Date: d.Add(time.Hour)},
	}
}

func TestHandleLedgerEvent_WritesReport(t *testing.T) {
	out := memory.New()
	w := NewExportWorker(staticSource{items: fixture()}, out, stats.Budget{Limit: core.Money{Cents: 100000}})
	w.now = func() time.Time { return time.Date(2025, 2, 7, 12, 0, 0, 0, time.UTC) }

	if err := w.HandleLedgerEvent(context.Background(), amqp.NewLedgerEvent(amqp.OpAdd, 2, 5)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	x, ok := out.Last()
	if !ok {
		t.Fatal("nothing written")
	}
	if x.Version != 5 || len(x.Expenses) != 2 {
		t.Fatalf("export = version %d, %d expenses", x.Version, len(x.Expenses))
	}
	if x.Expenses[0].ID != 2 {
		t.Error("expenses should be newest first")
	}
	if x.Report.Summary.TotalBalance.Value.Cents != 205000 {
		t.Errorf("total = %d", x.Report.Summary.TotalBalance.Value.Cents)
	}
	if !x.Report.Budget.Exceeded {
		t.Error("budget of 1000 should be exceeded by 2050")
	}

	// scheduled exports reuse the last seen version
	if err := w.Export(context.Background()); err != nil {
		t.Fatal(err)
	}
	if x, _ := out.Last(); x.Version != 5 {
		t.Errorf("scheduled export version = %d", x.Version)
	}
	if w.Exports() != 2 {
		t.Errorf("exports = %d", w.Exports())
	}
}

func TestHandleLedgerEvent_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source SnapshotSource
		writer sheets.ReportWriter
	}{
		{"load fails", staticSource{err: errors.New("corrupt")}, memory.New()},
		{"write fails", staticSource{items: fixture()}, failingWriter{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewExportWorker(tt.source, tt.writer, stats.Budget{})
			if err := w.HandleLedgerEvent(context.Background(), amqp.NewLedgerEvent(amqp.OpDelete, 1, 1)); err == nil {
				t.Fatal("expected error so the delivery is requeued")
			}
			if w.Exports() != 0 {
				t.Error("failed export should not count")
			}
		})
	}
}
