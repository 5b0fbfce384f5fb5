package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Exporter writes the current persisted snapshot to a report sink.
type Exporter interface {
	Export(ctx context.Context) error
}

type ExportSchedulerConfig struct {
	// Interval between full exports. Events already trigger exports; this
	// covers events lost while the broker was down.
	Interval time.Duration
}

func DefaultExportSchedulerConfig() ExportSchedulerConfig {
	return ExportSchedulerConfig{Interval: 5 * time.Minute}
}

// ExportScheduler runs an Exporter on a fixed interval.
type ExportScheduler struct {
	exporter Exporter
	config   ExportSchedulerConfig

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	runs    int
	lastErr error
}

func NewExportScheduler(exporter Exporter, config ExportSchedulerConfig) *ExportScheduler {
	if config.Interval <= 0 {
		config.Interval = DefaultExportSchedulerConfig().Interval
	}
	return &ExportScheduler{exporter: exporter, config: config}
}

// Start exports once immediately and then on every tick.
func (p *ExportScheduler) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("export scheduler is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Export scheduler started", "interval", p.config.Interval)
	return nil
}

// Stop signals the loop and waits for it or for ctx.
func (p *ExportScheduler) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)
	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Export scheduler stopped")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Export scheduler stop timed out")
		return ctx.Err()
	}
}

func (p *ExportScheduler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Runs returns how many exports ran and the error of the last one.
func (p *ExportScheduler) Runs() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runs, p.lastErr
}

func (p *ExportScheduler) runLoop(ctx context.Context) {
	p.mu.Lock()
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()
	defer close(doneCh)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	p.exportOnce(ctx)
	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.exportOnce(ctx)
		}
	}
}

func (p *ExportScheduler) exportOnce(ctx context.Context) {
	err := p.exporter.Export(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Scheduled export failed", "error", err)
	}
	p.mu.Lock()
	p.runs++
	p.lastErr = err
	p.mu.Unlock()
}
