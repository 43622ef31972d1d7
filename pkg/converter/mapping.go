// pkg/converter/mapping.go
package converter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
)

var postgresTypes = map[string]string{
	model.KindString:    "TEXT",
	model.KindInteger:   "BIGINT",
	model.KindFloat:     "DOUBLE PRECISION",
	model.KindBoolean:   "BOOLEAN",
	model.KindDate:      "DATE",
	model.KindTimestamp: "TIMESTAMP WITH TIME ZONE",
	model.KindJSON:      "JSONB",
}

var sqliteTypes = map[string]string{
	model.KindString:    "TEXT",
	model.KindInteger:   "INTEGER",
	model.KindFloat:     "REAL",
	model.KindBoolean:   "INTEGER",
	model.KindDate:      "TEXT",
	model.KindTimestamp: "TEXT",
	model.KindJSON:      "TEXT",
	model.KindVector:    "TEXT",
}

// MapKind converts a semantic column kind to the dialect's SQL type
func (c *TypeConverter) MapKind(col model.Column) (string, error) {
	if c.config.Dialect == SQLite {
		if t, ok := sqliteTypes[col.Kind]; ok {
			return t, nil
		}
		return "TEXT", fmt.Errorf("unknown column kind: %s", col.Kind)
	}

	if col.Kind == model.KindVector {
		dims := col.Dimensions
		if dims <= 0 {
			dims = c.config.VectorDimensions
		}
		// pgvector
		return fmt.Sprintf("vector(%d)", dims), nil
	}

	if t, ok := postgresTypes[col.Kind]; ok {
		return t, nil
	}

	c.logger.Warn("Unknown column kind encountered", zap.String("kind", col.Kind), zap.String("column", col.Name))
	return "TEXT", fmt.Errorf("unknown column kind: %s (mapped to TEXT as fallback)", col.Kind)
}
