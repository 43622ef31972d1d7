// pkg/connector/connector.go
package connector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
)

// ErrNotConnected is returned by stores used after Close
var ErrNotConnected = errors.New("store is not connected")

// Filters are equality conditions joined with AND
type Filters map[string]interface{}

// RowStore is the target store the pipeline writes to
type RowStore interface {
	// Select returns rows of table matching filters. A limit of zero or less
	// means no limit.
	Select(ctx context.Context, table string, columns []string, filters Filters, limit int) ([]model.Row, error)

	// Insert stores rows as one all-or-nothing unit and returns the number stored
	Insert(ctx context.Context, table string, rows []model.Row) (int64, error)

	// Delete removes rows by id and returns the number removed
	Delete(ctx context.Context, table string, ids []interface{}) (int64, error)

	// Count returns the number of rows matching filters
	Count(ctx context.Context, table string, filters Filters) (int64, error)

	// EnsureTable registers the column kinds of a table and, when create is
	// set, creates the table if it does not exist
	EnsureTable(ctx context.Context, metadata *model.TableMetadata, create bool) error

	// Ping verifies the store is reachable
	Ping(ctx context.Context) error

	// Dialect names the SQL dialect in use
	Dialect() string

	// Close closes the connection and releases resources
	Close() error
}

// ConnStats contains standardized connection statistics
type ConnStats struct {
	OpenConnections int
	InUse           int
	Idle            int
	MaxOpenConns    int
	WaitCount       int64
	WaitDuration    time.Duration
}

// GetConnectionStats returns connection pool statistics for logging
func GetConnectionStats(db *sql.DB) ConnStats {
	stats := db.Stats()
	return ConnStats{
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
		MaxOpenConns:    stats.MaxOpenConnections,
		WaitCount:       stats.WaitCount,
		WaitDuration:    stats.WaitDuration,
	}
}

// LogConnectionStats logs connection pool statistics
func LogConnectionStats(logger *zap.Logger, name string, db *sql.DB) {
	stats := GetConnectionStats(db)
	logger.Debug("Connection pool stats",
		zap.String("database", name),
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int("in_use", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int("max_open", stats.MaxOpenConns),
		zap.Int64("wait_count", stats.WaitCount),
		zap.Duration("wait_duration", stats.WaitDuration),
	)
}

// PingWithTimeout attempts to ping a database with a timeout
func PingWithTimeout(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- db.PingContext(pingCtx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-pingCtx.Done():
		return fmt.Errorf("ping timed out after %v: %w", timeout, pingCtx.Err())
	}
}

// ApplyConnectionSettings configures database connection pool settings
func ApplyConnectionSettings(db *sql.DB, maxOpen, maxIdle int, maxLifetime, maxIdleTime time.Duration) {
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if maxLifetime > 0 {
		db.SetConnMaxLifetime(maxLifetime)
	}
	if maxIdleTime > 0 {
		db.SetConnMaxIdleTime(maxIdleTime)
	}
}

// sortedKeys returns filter columns in a stable order so generated SQL is
// deterministic
func (f Filters) sortedKeys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
