// pkg/converter/converter.go
package converter

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
)

// Dialect names
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// TypeConverter handles mapping and conversion of column kinds and values for
// one SQL dialect
type TypeConverter struct {
	logger *zap.Logger
	// Configuration options
	config TypeConverterConfig
}

// TypeConverterConfig provides configuration options for type conversion
type TypeConverterConfig struct {
	// Target SQL dialect
	Dialect string
	// Whether to treat empty strings as NULL
	EmptyStringAsNull bool
	// Width of vector columns when the column does not say
	VectorDimensions int
}

// DefaultConfig returns the default configuration for a dialect
func DefaultConfig(dialect string) TypeConverterConfig {
	return TypeConverterConfig{
		Dialect:           dialect,
		EmptyStringAsNull: false,
		VectorDimensions:  768,
	}
}

// NewTypeConverter creates a new TypeConverter with default configuration
func NewTypeConverter(logger *zap.Logger, dialect string) *TypeConverter {
	return NewTypeConverterWithConfig(logger, DefaultConfig(dialect))
}

// NewTypeConverterWithConfig creates a TypeConverter with custom configuration
func NewTypeConverterWithConfig(logger *zap.Logger, config TypeConverterConfig) *TypeConverter {
	if logger == nil {
		logger = zap.L()
	}
	return &TypeConverter{
		logger: logger.Named("converter"),
		config: config,
	}
}

// Dialect returns the configured dialect
func (c *TypeConverter) Dialect() string { return c.config.Dialect }

// GenerateColumnDefinitions creates column definitions for CREATE TABLE
func (c *TypeConverter) GenerateColumnDefinitions(metadata *model.TableMetadata) ([]string, error) {
	definitions := make([]string, 0, len(metadata.Columns)+1)

	definitions = append(definitions, c.primaryKeyDefinition())

	for _, col := range metadata.Columns {
		if strings.EqualFold(col.Name, "id") {
			continue
		}

		sqlType := col.SQLType
		if sqlType == "" {
			var err error
			sqlType, err = c.MapKind(col)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Name, err)
			}
		}

		nullability := "NULL"
		if !col.Nullable {
			nullability = "NOT NULL"
		}

		definitions = append(definitions, fmt.Sprintf("%s %s %s",
			QuoteIdentifier(col.Name),
			sqlType,
			nullability))
	}

	return definitions, nil
}

func (c *TypeConverter) primaryKeyDefinition() string {
	if c.config.Dialect == SQLite {
		return `"id" INTEGER PRIMARY KEY AUTOINCREMENT`
	}
	return `"id" BIGSERIAL PRIMARY KEY`
}

// QuoteIdentifier properly quotes and escapes an identifier. Double-quoted
// identifiers are valid in both dialects.
func QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}
