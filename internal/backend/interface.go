package backend

import (
	"context"

	"fintrack/internal/amqp"
	"fintrack/internal/ledger"
)

// Store is a persistent home for the expense array.
type Store interface {
	ledger.Persister
	Ping(ctx context.Context) error
	Close() error
}

type CleanupFunc func() error

// BackendResult holds what the factory built. Store is nil for the memory
// backend; Publisher is nil when AMQP is not configured or unreachable.
type BackendResult struct {
	Type      BackendType
	Store     Store
	Publisher *amqp.Client
	Cleanup   CleanupFunc
}

// Persister returns the store as a ledger.Persister, or a nil interface for
// the memory backend.
func (r *BackendResult) Persister() ledger.Persister {
	if r.Store == nil {
		return nil
	}
	return r.Store
}

// Ping checks the store. The memory backend is always ready.
func (r *BackendResult) Ping(ctx context.Context) error {
	if r.Store == nil {
		return nil
	}
	return r.Store.Ping(ctx)
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	DataFile     string
	SQLiteDBPath string
	StorageKey   string

	// AMQP is optional; an empty URL disables change events.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type BackendType string

const (
	MemoryBackend BackendType = "memory"
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
