// pkg/connector/store.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/converter"
	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
)

// Bind variable ceilings per statement
const (
	postgresMaxBindVars = 65535
	sqliteMaxBindVars   = 32766
)

// SQLStore implements RowStore over database/sql for the Postgres and SQLite
// dialects. Values are converted by a dialect TypeConverter and statements
// are rebound to the dialect's placeholder style by sqlx.
type SQLStore struct {
	db        *sqlx.DB
	name      string
	converter *converter.TypeConverter
	logger    *zap.Logger
	timeout   time.Duration

	// maxBindVars caps the placeholders of one INSERT statement
	maxBindVars int

	mu     sync.RWMutex
	tables map[string]*model.TableMetadata
	closed bool
}

func newSQLStore(db *sqlx.DB, name string, conv *converter.TypeConverter, logger *zap.Logger, timeout time.Duration) *SQLStore {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxBindVars := postgresMaxBindVars
	if conv.Dialect() == converter.SQLite {
		maxBindVars = sqliteMaxBindVars
	}
	return &SQLStore{
		db:          db,
		name:        name,
		converter:   conv,
		logger:      logger,
		timeout:     timeout,
		maxBindVars: maxBindVars,
		tables:      make(map[string]*model.TableMetadata),
	}
}

// DB returns the underlying sqlx handle
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

// Dialect names the SQL dialect in use
func (s *SQLStore) Dialect() string {
	return s.converter.Dialect()
}

// Ping verifies the store is reachable
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	return PingWithTimeout(ctx, s.db.DB, 5*time.Second)
}

// Version reports the server (or library) version string
func (s *SQLStore) Version(ctx context.Context) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	query := "SELECT version()"
	if s.Dialect() == converter.SQLite {
		query = "SELECT sqlite_version()"
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var version string
	if err := s.db.GetContext(queryCtx, &version, query); err != nil {
		return "", fmt.Errorf("failed to query version: %w", err)
	}
	return version, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Info("Closing store connection", zap.String("database", s.name))
	LogConnectionStats(s.logger, s.name, s.db.DB)
	return s.db.Close()
}

// EnsureTable registers the column kinds of a table and optionally creates it
func (s *SQLStore) EnsureTable(ctx context.Context, metadata *model.TableMetadata, create bool) error {
	if err := s.check(); err != nil {
		return err
	}
	if metadata == nil || metadata.Table == "" {
		return fmt.Errorf("table metadata requires a table name")
	}

	s.mu.Lock()
	s.tables[metadata.Table] = metadata
	s.mu.Unlock()

	if !create {
		return nil
	}

	if s.Dialect() == converter.Postgres && hasVectorColumn(metadata) {
		if _, err := s.exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
			return fmt.Errorf("failed to enable pgvector: %w", err)
		}
	}

	columnDefs, err := s.converter.GenerateColumnDefinitions(metadata)
	if err != nil {
		return fmt.Errorf("failed to generate columns for %s: %w", metadata.Table, err)
	}

	createSQL := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		converter.QuoteIdentifier(metadata.Table),
		strings.Join(columnDefs, ",\n\t"),
	)
	if _, err := s.exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", metadata.Table, err)
	}

	s.logger.Info("Ensured table", zap.String("table", metadata.Table), zap.Int("columns", len(metadata.Columns)))
	return nil
}

// Select returns rows of table matching filters
func (s *SQLStore) Select(ctx context.Context, table string, columns []string, filters Filters, limit int) ([]model.Row, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	selectList := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = converter.QuoteIdentifier(c)
		}
		selectList = strings.Join(quoted, ", ")
	}

	where, args, err := s.whereClause(table, filters)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s", selectList, converter.QuoteIdentifier(table), where)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryxContext(queryCtx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s failed: %w", table, err)
	}
	defer rows.Close()

	var out []model.Row
	for rows.Next() {
		scanned := make(map[string]interface{})
		if err := rows.MapScan(scanned); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", table, err)
		}
		out = append(out, scannedRow(scanned))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select from %s failed: %w", table, err)
	}
	return out, nil
}

// Count returns the number of rows matching filters
func (s *SQLStore) Count(ctx context.Context, table string, filters Filters) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	where, args, err := s.whereClause(table, filters)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", converter.QuoteIdentifier(table), where)

	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var n int64
	if err := s.db.GetContext(queryCtx, &n, s.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("count on %s failed: %w", table, err)
	}
	return n, nil
}

// Insert stores rows inside one transaction, so the batch either lands
// completely or not at all. A batch whose placeholders would exceed the
// dialect's bind variable limit is split into several multi-row statements.
func (s *SQLStore) Insert(ctx context.Context, table string, rows []model.Row) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	columns := s.insertColumns(table, rows)
	if len(columns) == 0 {
		return 0, fmt.Errorf("insert into %s: rows have no known columns", table)
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		converted, err := s.converter.ConvertRow(row, columns)
		if err != nil {
			return 0, fmt.Errorf("insert into %s: row %d: %w", table, i, err)
		}
		values[i] = converted
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTxx(queryCtx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin insert into %s: %w", table, err)
	}

	chunk := s.rowsPerStatement(len(columns))
	var inserted int64
	for start := 0; start < len(values); start += chunk {
		end := start + chunk
		if end > len(values) {
			end = len(values)
		}

		query, args := s.insertStatement(table, columns, values[start:end])
		result, err := tx.ExecContext(queryCtx, s.db.Rebind(query), args...)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("batch insert into %s failed at row %d: %w", table, start, err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			s.logger.Warn("Couldn't get rows affected", zap.Error(err))
			n = int64(end - start)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit insert into %s: %w", table, err)
	}
	return inserted, nil
}

// rowsPerStatement returns how many rows of the given width fit under the
// bind variable limit, at least one
func (s *SQLStore) rowsPerStatement(width int) int {
	n := s.maxBindVars / width
	if n < 1 {
		return 1
	}
	return n
}

// insertStatement renders one multi-row INSERT with ? placeholders
func (s *SQLStore) insertStatement(table string, columns []model.Column, values [][]interface{}) (string, []interface{}) {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = converter.QuoteIdentifier(col.Name)
	}
	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	placeholders := make([]string, len(values))
	args := make([]interface{}, 0, len(values)*len(columns))
	for i, v := range values {
		placeholders[i] = rowPlaceholder
		args = append(args, v...)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		converter.QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	return query, args
}

// Delete removes rows by id
func (s *SQLStore) Delete(ctx context.Context, table string, ids []interface{}) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(
		fmt.Sprintf("DELETE FROM %s WHERE %s IN (?)", converter.QuoteIdentifier(table), converter.QuoteIdentifier("id")),
		ids,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to build delete for %s: %w", table, err)
	}

	result, err := s.exec(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s failed: %w", table, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Couldn't get rows affected", zap.Error(err))
		deleted = int64(len(ids))
	}
	return deleted, nil
}

func (s *SQLStore) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.db.ExecContext(queryCtx, query, args...)
}

func (s *SQLStore) check() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || s.db == nil {
		return ErrNotConnected
	}
	return nil
}

// whereClause renders filters as " WHERE a = ? AND b IS NULL"
func (s *SQLStore) whereClause(table string, filters Filters) (string, []interface{}, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	conds := make([]string, 0, len(filters))
	args := make([]interface{}, 0, len(filters))
	for _, name := range filters.sortedKeys() {
		value := filters[name]
		if value == nil {
			conds = append(conds, converter.QuoteIdentifier(name)+" IS NULL")
			continue
		}
		converted, err := s.converter.ConvertValue(value, s.columnKind(table, name))
		if err != nil {
			return "", nil, fmt.Errorf("filter %s: %w", name, err)
		}
		conds = append(conds, converter.QuoteIdentifier(name)+" = ?")
		args = append(args, converted)
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (s *SQLStore) columnKind(table, column string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if meta, ok := s.tables[table]; ok {
		if col := meta.GetColumnByName(column); col != nil {
			return col.Kind
		}
	}
	return ""
}

// insertColumns picks the target columns for a batch: the registered columns
// that appear in at least one row, or the sorted union of row keys for tables
// that were never registered
func (s *SQLStore) insertColumns(table string, rows []model.Row) []model.Column {
	present := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			present[k] = true
		}
	}

	s.mu.RLock()
	meta, ok := s.tables[table]
	s.mu.RUnlock()

	if ok {
		cols := make([]model.Column, 0, len(meta.Columns))
		for _, col := range meta.Columns {
			if present[col.Name] {
				cols = append(cols, col)
			}
		}
		return cols
	}

	names := make([]string, 0, len(present))
	for k := range present {
		names = append(names, k)
	}
	sort.Strings(names)
	cols := make([]model.Column, len(names))
	for i, n := range names {
		cols[i] = model.Column{Name: n, Nullable: true}
	}
	return cols
}

func hasVectorColumn(metadata *model.TableMetadata) bool {
	for _, col := range metadata.Columns {
		if col.Kind == model.KindVector {
			return true
		}
	}
	return false
}

// scannedRow converts driver byte slices to text so values compare equal to
// normalized ones
func scannedRow(scanned map[string]interface{}) model.Row {
	row := make(model.Row, len(scanned))
	for k, v := range scanned {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
			continue
		}
		row[k] = v
	}
	return row
}
