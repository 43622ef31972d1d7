// pkg/connector/sqlite.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/cl0ver012/whd-ai-assistant/pkg/config"
	"github.com/cl0ver012/whd-ai-assistant/pkg/converter"
)

// NewSQLiteStore opens a local SQLite database file, creating it if needed
func NewSQLiteStore(ctx context.Context, cfg *config.SQLiteConfig, logger *zap.Logger) (*SQLStore, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("sqlite-store")

	logger.Info("Opening SQLite database", zap.String("path", cfg.Path))

	db, err := sql.Open("sqlite", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)

	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open SQLite database %s: %w", cfg.Path, err)
	}

	// "sqlite3" selects ? bind variables in sqlx
	store := newSQLStore(
		sqlx.NewDb(db, "sqlite3"),
		cfg.Path,
		converter.NewTypeConverter(logger, converter.SQLite),
		logger,
		30*time.Second,
	)
	return store, nil
}
