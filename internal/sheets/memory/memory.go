package memory

import (
	"context"
	"sync"

	"fintrack/internal/sheets"
)

// Writer keeps exports in memory. Useful for local runs and tests.
type Writer struct {
	mu      sync.Mutex
	last    sheets.Export
	writes  int
	history []int64
}

var _ sheets.ReportWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

// WriteReport stores x. Exports older than the last one written are ignored.
func (w *Writer) WriteReport(_ context.Context, x sheets.Export) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.writes > 0 && x.Version < w.last.Version {
		return nil
	}
	w.last = x
	w.writes++
	w.history = append(w.history, x.Version)
	return nil
}

// Last returns the most recent export and whether anything was written.
func (w *Writer) Last() (sheets.Export, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.writes > 0
}

// Versions lists the versions accepted so far, in order.
func (w *Writer) Versions() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]int64(nil), w.history...)
}
