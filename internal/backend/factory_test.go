package backend

import (
	"context"
	"path/filepath"
	"testing"

	"fintrack/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil config should fail")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("unknown backend should fail")
	}
	bc, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", StorageKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if bc.Type != SQLiteBackend || bc.SQLiteDBPath != "x.db" || bc.StorageKey != "k" {
		t.Errorf("unexpected backend config %+v", bc)
	}
}

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name      string
		cfg       Config
		wantStore bool
		wantErr   bool
	}{
		{"memory", Config{Type: MemoryBackend}, false, false},
		{"file", Config{Type: FileBackend, DataFile: filepath.Join(dir, "expenses.json")}, true, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "fintrack.db"), StorageKey: "expenses"}, true, false},
		{"file without path", Config{Type: FileBackend}, false, true},
		{"invalid", Config{Type: "sheets"}, false, true},
	}

	f := NewFactory(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateBackend(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateBackend() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer res.Cleanup()

			if (res.Store != nil) != tt.wantStore {
				t.Errorf("store = %v, want store %v", res.Store, tt.wantStore)
			}
			if !tt.wantStore && res.Persister() != nil {
				t.Error("memory backend must return a nil persister interface")
			}
			if err := res.Ping(context.Background()); err != nil {
				t.Errorf("ping: %v", err)
			}
			if res.Publisher != nil {
				t.Error("no AMQP URL configured, publisher should be nil")
			}
		})
	}
}
