// pkg/cleaner/operations.go
package cleaner

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// missingLiterals are cell texts that mean "no value". "nan" and friends are
// what spreadsheet and dataframe exports write for empty numeric cells.
var missingLiterals = map[string]struct{}{
	"":     {},
	"nan":  {},
	"null": {},
	"none": {},
	"nat":  {},
}

// IsMissing reports whether a raw cell carries no value
func IsMissing(raw string) bool {
	_, ok := missingLiterals[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// CleanNumeric strips thousands separators and a percent sign and parses
// the rest. ok is false for missing or unparsable input.
func CleanNumeric(raw string) (value float64, ok bool) {
	if IsMissing(raw) {
		return 0, false
	}
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	return parseFloat(s)
}

// CleanCurrency is CleanNumeric that also strips a dollar sign
func CleanCurrency(raw string) (value float64, ok bool) {
	if IsMissing(raw) {
		return 0, false
	}
	s := strings.ReplaceAll(strings.TrimSpace(raw), "$", "")
	return CleanNumeric(s)
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	// "(12.50)" is an accounting negative
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// DateLayout is one accepted date format
type DateLayout struct {
	Layout string
	// ShortYear marks two-digit year layouts; parsed years are moved into 2000-2099
	ShortYear bool
}

// DefaultDateLayouts are tried in order by ParseDate
var DefaultDateLayouts = []DateLayout{
	{Layout: "2006-01-02"},
	{Layout: "2006-01-02 15:04:05"},
	{Layout: "Monday, January 2, 2006"},
	{Layout: "January 2, 2006"},
	{Layout: "2-Jan-2006"},
	{Layout: "2-Jan-06", ShortYear: true},
}

// ParseDate tries each layout in order; the first match wins
func ParseDate(raw string, layouts []DateLayout) (time.Time, bool) {
	if IsMissing(raw) {
		return time.Time{}, false
	}
	s := strings.TrimSpace(raw)
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	for _, l := range layouts {
		t, err := time.Parse(l.Layout, s)
		if err != nil {
			continue
		}
		if l.ShortYear && t.Year() < 2000 {
			t = t.AddDate(100, 0, 0)
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// toString converts an interface to string
func toString(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return formatFloat(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// toFloat reads a normalized numeric value; missing and non-numeric read as 0
func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case string:
		f, _ := CleanNumeric(val)
		return f
	default:
		return 0
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatThousands renders an integer with comma separators
func formatThousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 && !(neg && b.Len() == 1) {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
