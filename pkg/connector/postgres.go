// pkg/connector/postgres.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/config"
	"github.com/cl0ver012/whd-ai-assistant/pkg/converter"
)

// NewPostgresStore connects to PostgreSQL (a Supabase database or any other
// server) through the pgx stdlib driver
func NewPostgresStore(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*SQLStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("postgres configuration is required")
	}
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("postgres-store")

	if cfg.URL != "" {
		logger.Info("Connecting to PostgreSQL", zap.Bool("url", true))
	} else {
		logger.Info("Connecting to PostgreSQL",
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
			zap.String("database", cfg.Database),
			zap.String("user", cfg.User))
	}

	db, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	ApplyConnectionSettings(
		db,
		cfg.MaxOpenConns,
		cfg.MaxIdleConns,
		cfg.ConnMaxLifetime,
		cfg.ConnMaxIdleTime,
	)

	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// "postgres" selects $n bind variables in sqlx
	store := newSQLStore(
		sqlx.NewDb(db, "postgres"),
		cfg.Database,
		converter.NewTypeConverter(logger, converter.Postgres),
		logger,
		cfg.StatementTimeout,
	)

	LogConnectionStats(logger, cfg.Database, db)
	return store, nil
}
