// pkg/source/definition.go
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cl0ver012/whd-ai-assistant/pkg/cleaner"
	"github.com/cl0ver012/whd-ai-assistant/pkg/config"
	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
	"github.com/cl0ver012/whd-ai-assistant/pkg/reader"
)

// Mode selects how the loader submits records
type Mode string

const (
	// ModeBatch inserts BatchSize records per call
	ModeBatch Mode = "batch"
	// ModeRow inserts one record per call and waits RowDelay between calls
	ModeRow Mode = "row"
)

// Layout selects the stored row shape
type Layout int

const (
	// LayoutColumns stores every normalized field as its own column
	LayoutColumns Layout = iota
	// LayoutDocument stores content, a metadata blob, the original row and an
	// embedding
	LayoutDocument
)

func (l Layout) String() string {
	if l == LayoutDocument {
		return "document"
	}
	return "columns"
}

// Document layout columns
const (
	ColumnContent   = "content"
	ColumnMetadata  = "metadata"
	ColumnRawData   = "raw_data"
	ColumnEmbedding = "embedding"
	ColumnFileName  = "file_name"
)

// Definition is everything the pipeline needs to know about one source
type Definition struct {
	Name        string
	Description string
	Table       string

	// Folder is relative to the data root unless absolute
	Folder   string
	Patterns []string
	Reader   reader.Options
	Schema   *cleaner.Schema

	// KeyFields form the natural key used for deduplication; empty disables it
	KeyFields []string

	Mode      Mode
	BatchSize int // zero means the run default
	RowDelay  time.Duration

	Layout     Layout
	SourceType string // metadata.source_type for documents
	Embed      bool
	Enabled    bool
}

// Clone returns a copy that can be overridden without touching the original.
// The schema is shared.
func (d *Definition) Clone() *Definition {
	c := *d
	c.Patterns = append([]string(nil), d.Patterns...)
	c.KeyFields = append([]string(nil), d.KeyFields...)
	return &c
}

// Validate checks the definition is usable
func (d *Definition) Validate() error {
	if d.Name == "" {
		return errors.New("source name is required")
	}
	if d.Table == "" {
		return fmt.Errorf("source %s: table is required", d.Name)
	}
	if len(d.Patterns) == 0 {
		return fmt.Errorf("source %s: at least one file pattern is required", d.Name)
	}
	for _, p := range d.Patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("source %s: invalid pattern %q", d.Name, p)
		}
	}
	if d.Schema == nil || len(d.Schema.Fields) == 0 {
		return fmt.Errorf("source %s: schema has no fields", d.Name)
	}
	switch d.Mode {
	case ModeBatch, ModeRow:
	default:
		return fmt.Errorf("source %s: unknown mode %q", d.Name, d.Mode)
	}
	if d.Layout == LayoutDocument {
		if !d.Schema.ZeroLoss || d.Schema.Template == nil {
			return fmt.Errorf("source %s: documents need a zero-loss schema with a content template", d.Name)
		}
		if len(d.KeyFields) > 0 {
			return fmt.Errorf("source %s: documents have no key columns to deduplicate on", d.Name)
		}
	}
	return nil
}

// ApplyOverride adjusts the definition; zero values leave settings untouched
func (d *Definition) ApplyOverride(o config.SourceOverride) {
	if o.Folder != "" {
		d.Folder = o.Folder
	}
	if o.Pattern != "" {
		d.Patterns = []string{o.Pattern}
	}
	if o.Table != "" {
		d.Table = o.Table
	}
	if o.BatchSize > 0 {
		d.BatchSize = o.BatchSize
	}
	if o.Mode != "" {
		d.Mode = Mode(o.Mode)
	}
	if o.RowDelay > 0 {
		d.RowDelay = o.RowDelay
	}
	if o.Enabled != nil {
		d.Enabled = *o.Enabled
	}
}

// Dir resolves the source folder against the data root
func (d *Definition) Dir(root string) string {
	if filepath.IsAbs(d.Folder) {
		return d.Folder
	}
	return filepath.Join(root, d.Folder)
}

// Match reports whether a file name belongs to this source
func (d *Definition) Match(name string) bool {
	for _, p := range d.Patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Files lists the files directly in dir whose names match, sorted by name
func (d *Definition) Files(dir string) ([]string, error) {
	for _, p := range d.Patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("source %s: bad pattern %q", d.Name, p)
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("source %s: data folder: %w", d.Name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s: %s is not a folder", d.Name, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("source %s: data folder: %w", d.Name, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !d.Match(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// Metadata describes the target table
func (d *Definition) Metadata(dimensions int) *model.TableMetadata {
	if d.Layout == LayoutDocument {
		return &model.TableMetadata{
			Table: d.Table,
			Columns: []model.Column{
				{Name: ColumnContent, Kind: model.KindString},
				{Name: ColumnMetadata, Kind: model.KindJSON},
				{Name: ColumnRawData, Kind: model.KindJSON, Nullable: true},
				{Name: ColumnEmbedding, Kind: model.KindVector, Dimensions: dimensions, Nullable: true},
			},
		}
	}
	return &model.TableMetadata{Table: d.Table, Columns: d.Schema.Columns()}
}

// Row builds the stored row for a normalized record
func (d *Definition) Row(rec model.NormalizedRecord) model.Row {
	if d.Layout == LayoutDocument {
		meta := make(map[string]interface{}, len(rec.Fields)+1)
		for k, v := range rec.Fields {
			if k == ColumnContent {
				continue
			}
			meta[k] = v
		}
		meta["source_type"] = d.SourceType

		row := model.Row{
			ColumnContent:  rec.Content,
			ColumnMetadata: meta,
			ColumnRawData:  rec.Raw,
		}
		if rec.Embedding != nil {
			row[ColumnEmbedding] = rec.Embedding
		}
		return row
	}

	row := make(model.Row, len(rec.Fields))
	for k, v := range rec.Fields {
		row[k] = v
	}
	return row
}

// Key computes the natural key of a row, either freshly built or read back
// from the store
func (d *Definition) Key(row model.Row) model.NaturalKey {
	parts := make([]interface{}, len(d.KeyFields))
	for i, f := range d.KeyFields {
		parts[i] = row[f]
	}
	return model.NewNaturalKey(parts...)
}

// Deduplicates reports whether the source filters already stored rows
func (d *Definition) Deduplicates() bool {
	return len(d.KeyFields) > 0 && d.Layout == LayoutColumns
}

// IsNotExist reports whether err means the data folder is missing
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
