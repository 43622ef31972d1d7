// pkg/converter/array.go
package converter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// convertToJSON serializes JSON column values. Strings that already hold
// valid JSON pass through unchanged.
func (c *TypeConverter) convertToJSON(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		if json.Valid([]byte(v)) {
			return v, nil
		}
		b, _ := json.Marshal(v)
		return string(b), nil

	case []byte:
		if len(v) == 0 {
			return nil, nil
		}
		if json.Valid(v) {
			return string(v), nil
		}
		b, _ := json.Marshal(string(v))
		return string(b), nil

	case nil:
		return nil, nil

	default:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		return string(jsonBytes), nil
	}
}

// convertToVector renders an embedding in the pgvector text form "[1,2,3]",
// which SQLite stores as plain text
func (c *TypeConverter) convertToVector(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case []float32:
		return FormatVector(v), nil
	case []float64:
		f32 := make([]float32, len(v))
		for i, x := range v {
			f32[i] = float32(x)
		}
		return FormatVector(f32), nil
	case string:
		if _, err := ParseVector(v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to vector", value)
	}
}

// FormatVector renders a vector literal
func FormatVector(vec []float32) string {
	var b strings.Builder
	b.Grow(len(vec) * 10)
	b.WriteByte('[')
	for i, x := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(x), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// ParseVector reads a vector literal produced by FormatVector or pgvector
func ParseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("invalid vector literal %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return []float32{}, nil
	}
	parts := strings.Split(body, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector element %q: %w", p, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}
