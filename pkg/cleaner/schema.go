// pkg/cleaner/schema.go
package cleaner

import (
	"text/template"

	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
)

// FieldKind selects how a raw cell is cleaned
type FieldKind int

const (
	// Text is trimmed and stored as-is
	Text FieldKind = iota
	// Integer is cleaned like a number and truncated
	Integer
	// Float is cleaned like a number (thousands separators and % stripped)
	Float
	// Currency is Float that also strips a dollar sign
	Currency
	// Date is parsed with the schema's date layouts and stored as YYYY-MM-DD
	Date
)

// String returns the kind name
func (k FieldKind) String() string {
	switch k {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Currency:
		return "currency"
	case Date:
		return "date"
	default:
		return "unknown"
	}
}

// ModelKind maps the field kind onto the stored column kind
func (k FieldKind) ModelKind() string {
	switch k {
	case Integer:
		return model.KindInteger
	case Float, Currency:
		return model.KindFloat
	case Date:
		return model.KindDate
	default:
		return model.KindString
	}
}

// Field maps one source column onto one normalized field
type Field struct {
	Name   string    // normalized field name (target column)
	Column string    // source column header
	Kind   FieldKind // cleaning rule
	// Nullable fields store nil when the value is missing or unparsable;
	// other numeric fields store 0 and other text fields store Default
	Nullable bool
	Default  string
	// Fallback names a period part (PartYear, PartMonthName, ...) used when the
	// cell is missing
	Fallback string
}

// ComputeFunc derives a value from the fields normalized so far
type ComputeFunc func(fields model.Row) interface{}

// Computed is a derived field
type Computed struct {
	Name string
	Kind string // model kind of the result
	Func ComputeFunc
	// Nullable results may be nil
	Nullable bool
}

// Schema is everything the normalizer needs to know about one source
type Schema struct {
	Fields   []Field
	Computed []Computed

	// Period extracts the reporting period from the file name; nil means the
	// file name carries none
	Period PeriodStrategy
	// PeriodFromField names a Date field whose value, when it parses, sets the
	// period fields instead of the file name
	PeriodFromField string
	// Provenance lists the period parts stored with every record
	Provenance []string
	// ReportHeader stores the preamble title and date range lines
	ReportHeader bool
	// ZeroLoss keeps the original row next to the normalized fields
	ZeroLoss bool

	DateLayouts []DateLayout
	Template    *template.Template
}

// fieldColumn returns the CSV column read by the named field
func (s *Schema) fieldColumn(name string) string {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Column
		}
	}
	return ""
}

// Columns describes the structured columns this schema produces, in order
func (s *Schema) Columns() []model.Column {
	cols := []model.Column{{Name: "file_name", Kind: model.KindString}}
	if s.ReportHeader {
		cols = append(cols,
			model.Column{Name: "report_title", Kind: model.KindString, Nullable: true},
			model.Column{Name: "report_date_range", Kind: model.KindString, Nullable: true},
		)
	}
	seen := map[string]bool{"file_name": true, "report_title": s.ReportHeader, "report_date_range": s.ReportHeader}
	for _, p := range s.Provenance {
		seen[p] = true
		cols = append(cols, model.Column{Name: p, Kind: model.KindString, Nullable: true})
	}
	for _, f := range s.Fields {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		cols = append(cols, model.Column{
			Name:     f.Name,
			Kind:     f.Kind.ModelKind(),
			Nullable: f.Nullable || f.Kind == Date || f.Kind == Text,
		})
	}
	for _, c := range s.Computed {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		cols = append(cols, model.Column{Name: c.Name, Kind: c.Kind, Nullable: c.Nullable})
	}
	if s.Template != nil {
		cols = append(cols, model.Column{Name: "content", Kind: model.KindString, Nullable: true})
	}
	return cols
}
