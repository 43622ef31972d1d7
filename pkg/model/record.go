// pkg/model/record.go
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Row is one stored row keyed by column name
type Row map[string]interface{}

// SourceRecord is one raw data row from a tabular file. Values are looked up
// by header name; a column the file does not carry reads as missing.
type SourceRecord struct {
	FileName string
	Line     int

	header []string
	index  map[string]int
	values []string
}

// NewSourceRecord builds a record over a shared header index
func NewSourceRecord(fileName string, line int, header []string, index map[string]int, values []string) SourceRecord {
	return SourceRecord{
		FileName: fileName,
		Line:     line,
		header:   header,
		index:    index,
		values:   values,
	}
}

// Get returns the raw value of a column. ok is false when the column is not
// in the header or the row is too short to carry it.
func (r SourceRecord) Get(column string) (value string, ok bool) {
	i, found := r.index[column]
	if !found || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// Columns returns the header this record was read under
func (r SourceRecord) Columns() []string {
	return r.header
}

// Original returns the row as column -> value, with empty cells as nil
func (r SourceRecord) Original() map[string]interface{} {
	out := make(map[string]interface{}, len(r.header))
	for i, col := range r.header {
		if i >= len(r.values) || strings.TrimSpace(r.values[i]) == "" {
			out[col] = nil
			continue
		}
		out[col] = r.values[i]
	}
	return out
}

// RawData is the opaque provenance blob stored by zero-loss sources
type RawData struct {
	SourceFile      string                 `json:"source_file"`
	ReportTitle     string                 `json:"report_title"`
	ReportDateRange string                 `json:"report_date_range"`
	OriginalRow     map[string]interface{} `json:"original_row"`
}

// NormalizedRecord is one cleaned record ready for storage. It is not
// mutated after being handed to the loader.
type NormalizedRecord struct {
	Source     string
	FileName   string
	Line       int
	Fields     Row
	Content    string
	Raw        *RawData
	Embedding  []float32
	Operations []CleaningOperation
}

// NaturalKey identifies a record as the same real-world fact across runs
type NaturalKey string

const keySeparator = "\x1f"

// NewNaturalKey joins key parts using a canonical text form so that values
// read back from the store compare equal to freshly normalized ones
func NewNaturalKey(parts ...interface{}) NaturalKey {
	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = KeyPart(p)
	}
	return NaturalKey(strings.Join(texts, keySeparator))
}

// KeyPart renders one key value canonically
func KeyPart(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return formatFloat(float64(t))
	case float64:
		return formatFloat(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
