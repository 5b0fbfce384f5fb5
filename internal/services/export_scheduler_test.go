package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingExporter struct{ n int32 }

func (c *countingExporter) Export(context.Context) error {
	atomic.AddInt32(&c.n, 1)
	return nil
}

func TestExportScheduler_Lifecycle(t *testing.T) {
	exp := &countingExporter{}
	p := NewExportScheduler(exp, ExportSchedulerConfig{Interval: 10 * time.Millisecond})
	ctx := context.Background()

	if p.IsRunning() {
		t.Fatal("should not run before Start")
	}
	if err := p.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := p.Start(ctx); err == nil {
		t.Error("second Start should fail")
	}

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&exp.n) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if atomic.LoadInt32(&exp.n) < 2 {
		t.Fatalf("exports = %d", atomic.LoadInt32(&exp.n))
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if p.IsRunning() {
		t.Error("should not run after Stop")
	}
	if runs, err := p.Runs(); runs < 2 || err != nil {
		t.Errorf("runs = %d, err = %v", runs, err)
	}
}

func TestExportScheduler_StopNotRunning(t *testing.T) {
	p := NewExportScheduler(&countingExporter{}, ExportSchedulerConfig{})
	if err := p.Stop(context.Background()); err != nil {
		t.Errorf("Stop should not error when not running: %v", err)
	}
	if p.config.Interval != DefaultExportSchedulerConfig().Interval {
		t.Errorf("default interval not applied: %v", p.config.Interval)
	}
}
