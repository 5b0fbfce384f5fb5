package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/core"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentLedger, Output: &buf})

	l.Info("hello", "k", "v")
	l.WithComponent(ComponentHTTP).Debug("again")

	out := buf.String()
	if !strings.Contains(out, "component=ledger") || !strings.Contains(out, "k=v") {
		t.Errorf("missing fields in %q", out)
	}
	if !strings.Contains(out, "component=http") {
		t.Errorf("component override missing in %q", out)
	}
	if strings.Count(out, "component=") != 2 {
		t.Errorf("component should appear once per record: %q", out)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()).Component() != "unknown" {
		t.Error("expected fallback logger")
	}

	l := New(Config{Component: ComponentHTTP, Output: &bytes.Buffer{}})
	var got *Logger
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got == nil || got.Component() != ComponentHTTP {
		t.Fatalf("logger not propagated: %+v", got)
	}
}

func TestLogMutation(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Output: &buf}))
	e := core.Expense{ID: 7, Description: "Rent", Category: core.Rent, Amount: core.Money{Cents: 3000}}

	sl.LogMutation(context.Background(), OpAdd, NewFields().WithExpense(e), nil)
	sl.LogMutation(context.Background(), OpDelete, NewFields().WithExpense(e), errors.New("disk full"))

	out := buf.String()
	if !strings.Contains(out, "expense_id=7") || !strings.Contains(out, "operation=add") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "error_type=storage_error") {
		t.Errorf("persist warning missing in %q", out)
	}
}
