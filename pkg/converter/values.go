// pkg/converter/values.go
package converter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
)

// ConvertRow orders and converts one row's values for the given columns.
// Columns absent from the row are sent as NULL.
func (c *TypeConverter) ConvertRow(row model.Row, columns []model.Column) ([]interface{}, error) {
	values := make([]interface{}, len(columns))
	for i, col := range columns {
		v, err := c.ConvertValue(row[col.Name], col.Kind)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		values[i] = v
	}
	return values, nil
}

// ConvertValue converts a normalized value to a driver value for the dialect.
// An empty kind infers the conversion from the Go type.
func (c *TypeConverter) ConvertValue(value interface{}, kind string) (interface{}, error) {
	if isNull(value, c.config.EmptyStringAsNull) {
		return nil, nil
	}

	if kind == "" {
		kind = inferKind(value)
	}

	switch kind {
	case model.KindBoolean:
		return c.convertToBoolean(value)
	case model.KindJSON:
		return c.convertToJSON(value)
	case model.KindVector:
		return c.convertToVector(value)
	case model.KindTimestamp:
		if t, ok := value.(time.Time); ok {
			if c.config.Dialect == SQLite {
				return t.UTC().Format(time.RFC3339), nil
			}
			return t, nil
		}
		return value, nil
	case model.KindInteger, model.KindFloat:
		return convertToNumeric(value, kind)
	default:
		return value, nil
	}
}

func inferKind(value interface{}) string {
	switch value.(type) {
	case bool:
		return model.KindBoolean
	case []float32, []float64:
		return model.KindVector
	case map[string]interface{}, model.Row, *model.RawData, model.RawData, []interface{}:
		return model.KindJSON
	case time.Time:
		return model.KindTimestamp
	case int, int64, int32:
		return model.KindInteger
	case float64, float32:
		return model.KindFloat
	default:
		return model.KindString
	}
}

// isNull determines if a value should be treated as NULL
func isNull(value interface{}, emptyStringAsNull bool) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return emptyStringAsNull && v == ""
	case *model.RawData:
		return v == nil
	case []float32:
		return v == nil
	}
	return false
}

// convertToBoolean keeps booleans native for Postgres and stores 1/0 for SQLite
func (c *TypeConverter) convertToBoolean(value interface{}) (interface{}, error) {
	var b bool
	switch v := value.(type) {
	case bool:
		b = v
	case int64:
		b = v != 0
	case int:
		b = v != 0
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("cannot convert string '%s' to boolean", v)
		}
		b = parsed
	default:
		return nil, fmt.Errorf("cannot convert %T to boolean", value)
	}

	if c.config.Dialect == SQLite {
		if b {
			return int64(1), nil
		}
		return int64(0), nil
	}
	return b, nil
}

// convertToNumeric passes numbers through and parses numeric strings
func convertToNumeric(value interface{}, kind string) (interface{}, error) {
	switch v := value.(type) {
	case int, int32, int64, float32, float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot convert string '%s' to numeric", v)
		}
		if kind == model.KindInteger {
			return int64(f), nil
		}
		return f, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to numeric", value)
	}
}
