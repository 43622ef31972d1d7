// pkg/connector/factory.go
package connector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/config"
)

// StoreFactory creates row stores
type StoreFactory struct {
	cfg    *config.StoreConfig
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.StoreConfig, logger *zap.Logger) *StoreFactory {
	if logger == nil {
		logger = zap.L()
	}
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore connects to the configured driver. The connection is verified
// before returning so an unreachable store fails the run up front.
func (f *StoreFactory) CreateStore(ctx context.Context) (*SQLStore, error) {
	if f.cfg == nil {
		return nil, fmt.Errorf("store configuration is required")
	}
	if err := f.cfg.Validate(); err != nil {
		return nil, err
	}

	f.logger.Info("Creating store", zap.String("driver", f.cfg.Driver))

	switch f.cfg.Driver {
	case config.DriverPostgres:
		store, err := NewPostgresStore(ctx, f.cfg.Postgres, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL store: %w", err)
		}
		return store, nil
	case config.DriverSQLite:
		store, err := NewSQLiteStore(ctx, f.cfg.SQLite, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", f.cfg.Driver)
	}
}
