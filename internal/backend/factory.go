package backend

import (
	"context"
	"fmt"
	"log/slog"

	"moneta/internal/kv"
	"moneta/internal/kv/memory"
	"moneta/internal/kv/remote"
	"moneta/internal/kv/sqlite"
	applog "moneta/internal/log"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new store factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*StoreResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case MemoryBackend:
		return f.createMemoryStore()
	case SQLiteBackend:
		return f.createSQLiteStore(config)
	case RemoteBackend:
		return f.createRemoteStore(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createMemoryStore() (*StoreResult, error) {
	store := memory.New()

	f.logger.Info("Initialized memory backend",
		applog.FieldComponent, applog.ComponentStore)

	return &StoreResult{
		Store:   store,
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (*StoreResult, error) {
	store, err := sqlite.New(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend",
		applog.FieldComponent, applog.ComponentStore,
		"db_path", config.SQLiteDBPath)

	return &StoreResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

// createRemoteStore layers the remote API over a local fallback so the
// application keeps working when the remote endpoint is unreachable.
func (f *DefaultFactory) createRemoteStore(config Config) (*StoreResult, error) {
	if config.RemoteAPIURL == "" {
		return nil, fmt.Errorf("remote API URL is required for remote backend")
	}

	remoteStore := remote.New(config.RemoteAPIURL)

	var local kv.Store
	var cleanup CleanupFunc
	if config.SQLiteDBPath != "" {
		sqliteStore, err := sqlite.New(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local fallback store: %w", err)
		}
		local = sqliteStore
		cleanup = sqliteStore.Close
	} else {
		local = memory.New()
	}

	f.logger.Info("Initialized remote backend with local fallback",
		applog.FieldComponent, applog.ComponentStore,
		"remote_url", config.RemoteAPIURL,
		"local_sqlite", config.SQLiteDBPath != "")

	return &StoreResult{
		Store:   kv.NewFallback(remoteStore, local),
		Cleanup: cleanup,
	}, nil
}
