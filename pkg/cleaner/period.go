// pkg/cleaner/period.go
package cleaner

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Period is the reporting period a file or row belongs to
type Period struct {
	Year      string // "2025"
	Month     string // "03"
	MonthName string // "March"
	Key       string // "2025_03"
}

// IsZero reports whether no period is known
func (p Period) IsZero() bool { return p.Key == "" }

// Part returns one component by provenance field name
func (p Period) Part(name string) (string, bool) {
	switch name {
	case PartPeriod:
		return p.Key, p.Key != ""
	case PartYear:
		return p.Year, p.Year != ""
	case PartMonth:
		return p.Month, p.Month != ""
	case PartMonthName:
		return p.MonthName, p.MonthName != ""
	}
	return "", false
}

// Provenance field names filled from a Period
const (
	PartPeriod    = "period"
	PartYear      = "year"
	PartMonth     = "month"
	PartMonthName = "month_name"
)

// NewPeriod builds a period from a year and a 1-based month
func NewPeriod(year int, month time.Month) Period {
	y := strconv.Itoa(year)
	m := fmt.Sprintf("%02d", int(month))
	return Period{Year: y, Month: m, MonthName: month.String(), Key: y + "_" + m}
}

// PeriodOf derives the period of a parsed date
func PeriodOf(t time.Time) Period {
	return NewPeriod(t.Year(), t.Month())
}

// PeriodError reports a file name that does not follow the source convention
type PeriodError struct {
	FileName string
	Strategy string
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("file name %q does not match the %s convention", e.FileName, e.Strategy)
}

// PeriodStrategy extracts the reporting period from a file name
type PeriodStrategy interface {
	Name() string
	Extract(fileName string) (Period, error)
}

// YearMonthSuffix matches "<prefix>YYYY_MM.csv", e.g. meta_ads_export_2025_03.csv
type YearMonthSuffix struct {
	Prefix string
}

var yearMonthSuffix = regexp.MustCompile(`^(\d{4})_(\d{2})$`)

// Name implements PeriodStrategy
func (s YearMonthSuffix) Name() string { return s.Prefix + "YYYY_MM" }

// Extract implements PeriodStrategy
func (s YearMonthSuffix) Extract(fileName string) (Period, error) {
	base := filepath.Base(fileName)
	if !strings.HasPrefix(base, s.Prefix) {
		return Period{}, &PeriodError{FileName: base, Strategy: s.Name()}
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(base, s.Prefix), filepath.Ext(base))
	m := yearMonthSuffix.FindStringSubmatch(rest)
	if m == nil {
		return Period{}, &PeriodError{FileName: base, Strategy: s.Name()}
	}
	return periodFromParts(base, s.Name(), m[1], m[2])
}

// DateRangePrefix matches "Mon-DD-YYYY_Mon-DD-YYYY_<id>.csv" and takes the
// period from the first date
type DateRangePrefix struct{}

var dateRangePrefix = regexp.MustCompile(`^([A-Z][a-z]{2})-(\d{1,2})-(\d{4})_`)

// Name implements PeriodStrategy
func (DateRangePrefix) Name() string { return "Mon-DD-YYYY_Mon-DD-YYYY_id" }

// Extract implements PeriodStrategy
func (s DateRangePrefix) Extract(fileName string) (Period, error) {
	base := filepath.Base(fileName)
	m := dateRangePrefix.FindStringSubmatch(base)
	if m == nil {
		return Period{}, &PeriodError{FileName: base, Strategy: s.Name()}
	}
	t, err := time.Parse("Jan", m[1])
	if err != nil {
		return Period{}, &PeriodError{FileName: base, Strategy: s.Name()}
	}
	year, _ := strconv.Atoi(m[3])
	return NewPeriod(year, t.Month()), nil
}

// MonthYearPair matches "MM YY.csv", e.g. "01 25.csv"; years are 20YY
type MonthYearPair struct{}

var monthYearPair = regexp.MustCompile(`^(\d{2}) (\d{2})$`)

// Name implements PeriodStrategy
func (MonthYearPair) Name() string { return "MM YY" }

// Extract implements PeriodStrategy
func (s MonthYearPair) Extract(fileName string) (Period, error) {
	base := filepath.Base(fileName)
	m := monthYearPair.FindStringSubmatch(strings.TrimSuffix(base, filepath.Ext(base)))
	if m == nil {
		return Period{}, &PeriodError{FileName: base, Strategy: s.Name()}
	}
	return periodFromParts(base, s.Name(), "20"+m[2], m[1])
}

// FirstMatch tries each strategy in order
type FirstMatch []PeriodStrategy

// Name implements PeriodStrategy
func (f FirstMatch) Name() string {
	names := make([]string, len(f))
	for i, s := range f {
		names[i] = s.Name()
	}
	return strings.Join(names, " | ")
}

// Extract implements PeriodStrategy
func (f FirstMatch) Extract(fileName string) (Period, error) {
	for _, s := range f {
		if p, err := s.Extract(fileName); err == nil {
			return p, nil
		}
	}
	return Period{}, &PeriodError{FileName: filepath.Base(fileName), Strategy: f.Name()}
}

func periodFromParts(base, strategy, year, month string) (Period, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return Period{}, &PeriodError{FileName: base, Strategy: strategy}
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return Period{}, &PeriodError{FileName: base, Strategy: strategy}
	}
	return NewPeriod(y, time.Month(m)), nil
}
