// pkg/model/metadata.go
package model

import "strings"

// Semantic column kinds shared by the normalizer, the converter and the stores
const (
	KindString    = "string"
	KindInteger   = "integer"
	KindFloat     = "float"
	KindBoolean   = "boolean"
	KindDate      = "date"
	KindJSON      = "json"
	KindVector    = "vector"
	KindTimestamp = "timestamp"
)

// TableMetadata contains the structure information for a target table
type TableMetadata struct {
	Table       string   // Table name
	Columns     []Column // Column definitions, in insert order
	PrimaryKeys []string // List of primary key column names
}

// Column represents metadata about a target column
type Column struct {
	Name         string // Column name
	Kind         string // Semantic kind (KindString, KindInteger, ...)
	SQLType      string // Mapped type for the active dialect, filled by the converter
	Dimensions   int    // Vector width for KindVector columns
	Nullable     bool   // Whether column allows NULL values
	IsPrimaryKey bool   // Whether column is part of primary key
}

// GetColumnByName returns a column by name (case-insensitive)
// Returns nil if column not found
func (tm *TableMetadata) GetColumnByName(name string) *Column {
	normalizedName := normalizeColumnName(name)
	for i, col := range tm.Columns {
		if normalizeColumnName(col.Name) == normalizedName {
			return &tm.Columns[i]
		}
	}
	return nil
}

// ColumnNames returns the column names in declaration order
func (tm *TableMetadata) ColumnNames() []string {
	names := make([]string, len(tm.Columns))
	for i, col := range tm.Columns {
		names[i] = col.Name
	}
	return names
}

func normalizeColumnName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
