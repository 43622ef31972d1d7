// pkg/transfer/dedup.go
package transfer

import (
	"context"

	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/connector"
	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
	"github.com/cl0ver012/whd-ai-assistant/pkg/source"
)

// KeySet holds the natural keys already stored for one file
type KeySet map[model.NaturalKey]struct{}

// Has reports whether key is in the set
func (s KeySet) Has(key model.NaturalKey) bool {
	_, ok := s[key]
	return ok
}

// ExistingKeys fetches, with one query, the natural keys stored for fileName.
// When the query fails the returned set is empty and usable, and the error is
// returned so the caller can warn; loading continues and may insert duplicates.
func ExistingKeys(ctx context.Context, store connector.RowStore, def *source.Definition, fileName string) (KeySet, error) {
	keys := make(KeySet)
	if !def.Deduplicates() {
		return keys, nil
	}

	rows, err := store.Select(ctx, def.Table, def.KeyFields, connector.Filters{source.ColumnFileName: fileName}, 0)
	if err != nil {
		return keys, err
	}

	for _, row := range rows {
		keys[def.Key(row)] = struct{}{}
	}
	return keys, nil
}

// DedupFilter drops records whose natural key is already stored
type DedupFilter struct {
	def    *source.Definition
	keys   KeySet
	logger *zap.Logger
}

// NewDedupFilter creates a filter over a prefetched key set
func NewDedupFilter(def *source.Definition, keys KeySet, logger *zap.Logger) *DedupFilter {
	if logger == nil {
		logger = zap.L()
	}
	return &DedupFilter{def: def, keys: keys, logger: logger}
}

// Allow reports whether rec should be loaded
func (f *DedupFilter) Allow(rec model.NormalizedRecord) bool {
	if !f.def.Deduplicates() || len(f.keys) == 0 {
		return true
	}
	key := f.def.Key(rec.Fields)
	if f.keys.Has(key) {
		f.logger.Debug("Skipping stored record", zap.String("file", rec.FileName), zap.Int("line", rec.Line))
		return false
	}
	return true
}
