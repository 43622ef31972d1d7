// pkg/cleaner/cleaner.go
package cleaner

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
)

// Cleaning operation names
const (
	OpNumericFallback = "numeric_fallback"
	OpDateFallback    = "date_fallback"
	OpPeriodFallback  = "period_fallback"
	OpTemplateFailed  = "template_failed"
)

// FileContext carries what the normalizer knows about the file a row came from
type FileContext struct {
	Source   string
	FileName string
	Period   Period
	// Preamble lines, used when the schema stores the report header
	ReportTitle     string
	ReportDateRange string
}

// DataCleaner turns SourceRecords into NormalizedRecords for one schema. It has
// no side effects beyond debug logging and never fails on data quality.
type DataCleaner struct {
	schema *Schema
	logger *zap.Logger
}

// NewDataCleaner creates a new DataCleaner for a schema
func NewDataCleaner(schema *Schema, logger *zap.Logger) (*DataCleaner, error) {
	if schema == nil {
		return nil, errors.New("schema cannot be nil")
	}
	if len(schema.Fields) == 0 {
		return nil, errors.New("schema has no fields")
	}
	if logger == nil {
		logger = zap.L()
	}

	return &DataCleaner{
		schema: schema,
		logger: logger.Named("cleaner"),
	}, nil
}

// FilePeriod extracts the period from a file name with the schema's strategy.
// A schema without a strategy yields the zero Period and no error.
func (c *DataCleaner) FilePeriod(fileName string) (Period, error) {
	if c.schema.Period == nil {
		return Period{}, nil
	}
	return c.schema.Period.Extract(fileName)
}

// Normalize cleans one row
func (c *DataCleaner) Normalize(rec model.SourceRecord, file FileContext) model.NormalizedRecord {
	cctx := model.CleaningContext{Source: file.Source, FileName: file.FileName, Line: rec.Line}
	fields := model.Row{"file_name": file.FileName}
	var ops []model.CleaningOperation

	if c.schema.ReportHeader {
		fields["report_title"] = nullableText(file.ReportTitle)
		fields["report_date_range"] = nullableText(file.ReportDateRange)
	}

	for _, f := range c.schema.Fields {
		value, op := c.cleanField(f, rec, file.Period, cctx)
		fields[f.Name] = value
		if op != nil {
			ops = append(ops, *op)
		}
	}

	period := file.Period
	if name := c.schema.PeriodFromField; name != "" {
		if p, ok := rowPeriod(fields[name]); ok {
			period = p
		} else {
			column := c.schema.fieldColumn(name)
			raw, _ := rec.Get(column)
			ops = append(ops, cctx.Operation(column, PartPeriod, raw, period.Key, OpPeriodFallback, "no row date, using the file period"))
		}
	}
	for _, part := range c.schema.Provenance {
		if _, set := fields[part]; set {
			continue
		}
		if v, ok := period.Part(part); ok {
			fields[part] = v
		} else {
			fields[part] = nil
		}
	}

	for _, comp := range c.schema.Computed {
		fields[comp.Name] = comp.Func(fields)
	}

	out := model.NormalizedRecord{
		Source:   file.Source,
		FileName: file.FileName,
		Line:     rec.Line,
		Fields:   fields,
	}

	if c.schema.Template != nil {
		content, err := Render(c.schema.Template, fields)
		if err != nil {
			ops = append(ops, cctx.Operation("", "content", "", "", OpTemplateFailed, err.Error()))
			c.logger.Debug("Failed to render content", zap.String("file", file.FileName), zap.Int("line", rec.Line), zap.Error(err))
		}
		out.Content = content
		fields["content"] = content
	}

	if c.schema.ZeroLoss {
		out.Raw = &model.RawData{
			SourceFile:      file.FileName,
			ReportTitle:     file.ReportTitle,
			ReportDateRange: file.ReportDateRange,
			OriginalRow:     rec.Original(),
		}
	}

	for _, op := range ops {
		c.logger.Debug("Value degraded",
			zap.String("file", op.FileName),
			zap.Int("line", op.Line),
			zap.String("column", op.ColumnName),
			zap.String("original", op.OriginalValue),
			zap.String("operation", op.Operation))
	}
	out.Operations = ops
	return out
}

// cleanField returns the normalized value and, when the cell held text that
// could not be used, the operation describing the fallback
func (c *DataCleaner) cleanField(f Field, rec model.SourceRecord, period Period, cctx model.CleaningContext) (interface{}, *model.CleaningOperation) {
	raw, ok := rec.Get(f.Column)
	missing := !ok || IsMissing(raw)

	switch f.Kind {
	case Integer, Float, Currency:
		var v float64
		var parsed bool
		if f.Kind == Currency {
			v, parsed = CleanCurrency(raw)
		} else {
			v, parsed = CleanNumeric(raw)
		}
		if !parsed {
			fallback := c.numericZero(f)
			if missing {
				return fallback, nil
			}
			op := cctx.Operation(f.Column, f.Name, raw, fallback, OpNumericFallback, "unparsable")
			return fallback, &op
		}
		if f.Kind == Integer {
			return int64(math.Trunc(v)), nil
		}
		return v, nil

	case Date:
		t, parsed := ParseDate(raw, c.schema.DateLayouts)
		if !parsed {
			if missing {
				return nil, nil
			}
			op := cctx.Operation(f.Column, f.Name, raw, nil, OpDateFallback, "no matching layout")
			return nil, &op
		}
		return t.Format("2006-01-02"), nil

	default:
		if missing {
			if f.Fallback != "" {
				if v, ok := period.Part(f.Fallback); ok {
					return v, nil
				}
			}
			if f.Nullable {
				return nil, nil
			}
			return f.Default, nil
		}
		return strings.TrimSpace(raw), nil
	}
}

func (c *DataCleaner) numericZero(f Field) interface{} {
	if f.Nullable {
		return nil
	}
	if f.Kind == Integer {
		return int64(0)
	}
	return 0.0
}

func nullableText(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Render executes a content template over normalized fields. Nil values
// render as empty text and floats render without exponent notation.
func Render(tmpl *template.Template, fields model.Row) (string, error) {
	view := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		switch t := v.(type) {
		case nil:
			view[k] = ""
		case float64:
			view[k] = formatFloat(t)
		default:
			view[k] = v
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return strings.TrimSpace(buf.String()), err
	}
	return strings.TrimSpace(buf.String()), nil
}

// TemplateFuncs are available to every content template
var TemplateFuncs = template.FuncMap{
	// comma renders a count with thousands separators: 12345 -> 12,345
	"comma": func(v interface{}) string {
		return formatThousands(int64(toFloat(v)))
	},
	// money renders two decimals with thousands separators: 1234.5 -> 1,234.50
	"money": func(v interface{}) string {
		f := toFloat(v)
		whole := int64(f)
		cents := int64(math.Round(math.Abs(f-float64(whole)) * 100))
		if cents == 100 {
			cents = 0
			if f < 0 {
				whole--
			} else {
				whole++
			}
		}
		sign := ""
		if f < 0 && whole == 0 {
			sign = "-"
		}
		return sign + formatThousands(whole) + "." + twoDigits(cents)
	},
	// positive reports whether a numeric value is above zero
	"positive": func(v interface{}) bool {
		return toFloat(v) > 0
	},
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + formatThousands(n)
	}
	return formatThousands(n)
}

// MustTemplate parses a content template with TemplateFuncs
func MustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(TemplateFuncs).Parse(text))
}

func rowPeriod(v interface{}) (Period, bool) {
	day, ok := v.(string)
	if !ok {
		return Period{}, false
	}
	t, parsed := ParseDate(day, nil)
	if !parsed {
		return Period{}, false
	}
	return PeriodOf(t), true
}
