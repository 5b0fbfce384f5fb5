package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/storage"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createStore(config)
	if err != nil {
		return nil, err
	}
	result := &BackendResult{Type: config.Type, Store: store}
	if config.AMQPURL != "" {
		result.Publisher = f.createPublisher(ctx, config)
	}
	result.Cleanup = cleanup(result)

	f.logger.InfoContext(ctx, "Initialized backend",
		"type", config.Type,
		"amqp_enabled", result.Publisher != nil)
	return result, nil
}

// CreateStore builds only the storage backend.
func CreateStore(config Config) (Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return (&DefaultFactory{logger: slog.Default()}).createStore(config)
}

func (f *DefaultFactory) createStore(config Config) (Store, error) {
	switch config.Type {
	case FileBackend:
		s, err := storage.NewFileStore(config.DataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		f.logger.Info("Using file store", "path", config.DataFile)
		return s, nil
	case SQLiteBackend:
		s, err := storage.NewSQLiteStore(config.SQLiteDBPath, config.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Using SQLite store", "db_path", config.SQLiteDBPath, "key", config.StorageKey)
		return s, nil
	case MemoryBackend:
		f.logger.Info("Using memory backend, changes are lost on restart")
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// createPublisher connects to AMQP. Failure is not fatal for the API; it
// runs without change events.
func (f *DefaultFactory) createPublisher(ctx context.Context, config Config) *amqp.Client {
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

func cleanup(r *BackendResult) CleanupFunc {
	return func() error {
		var errs []error
		if r.Publisher != nil {
			if err := r.Publisher.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if r.Store != nil {
			if err := r.Store.Close(); err != nil {
				errs = append(errs, fmt.Errorf("storage: %w", err))
			}
		}
		return errors.Join(errs...)
	}
}
