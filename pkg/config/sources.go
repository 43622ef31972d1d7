// pkg/config/sources.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SourceOverride adjusts one built-in source without recompiling. Zero values
// leave the built-in setting untouched.
type SourceOverride struct {
	Folder    string        `yaml:"folder"`
	Pattern   string        `yaml:"pattern"`
	Table     string        `yaml:"table"`
	BatchSize int           `yaml:"batch_size"`
	Mode      string        `yaml:"mode"`
	RowDelay  time.Duration `yaml:"row_delay"`
	Enabled   *bool         `yaml:"enabled"`
}

// SourcesFile is the on-disk layout of the override file
type SourcesFile struct {
	Sources map[string]SourceOverride `yaml:"sources"`
}

// LoadSourceOverrides reads the YAML override file. When required is false a
// missing file yields an empty set.
func LoadSourceOverrides(path string, required bool) (map[string]SourceOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return map[string]SourceOverride{}, nil
		}
		return nil, fmt.Errorf("failed to read sources file %s: %w", path, err)
	}

	var file SourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file %s: %w", path, err)
	}

	for name, o := range file.Sources {
		if o.BatchSize < 0 {
			return nil, fmt.Errorf("source %s: batch_size cannot be negative", name)
		}
		if o.RowDelay < 0 {
			return nil, fmt.Errorf("source %s: row_delay cannot be negative", name)
		}
		switch o.Mode {
		case "", "batch", "row":
		default:
			return nil, fmt.Errorf("source %s: mode must be batch or row, got %q", name, o.Mode)
		}
	}

	if file.Sources == nil {
		file.Sources = map[string]SourceOverride{}
	}
	return file.Sources, nil
}
