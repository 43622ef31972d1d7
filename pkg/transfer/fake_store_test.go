package transfer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cl0ver012/whd-ai-assistant/pkg/cleaner"
	"github.com/cl0ver012/whd-ai-assistant/pkg/connector"
	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
	"github.com/cl0ver012/whd-ai-assistant/pkg/source"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory RowStore with failure injection
type fakeStore struct {
	mu     sync.Mutex
	tables map[string][]model.Row
	nextID int64

	insertCalls [][]model.Row
	selectCalls int
	deleteCalls int
	countCalls  int

	failInsertCall int   // 1-based insert call that fails; zero never
	insertErr      error // returned by the failing insert, errStoreDown when nil
	failDeleteCall int // 1-based delete call that fails; zero never
	failSelect     error
	failCount      error
	failEnsure     error
}

var _ connector.RowStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{tables: make(map[string][]model.Row)}
}

func (s *fakeStore) seed(table string, rows ...model.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.nextID++
		stored := model.Row{"id": s.nextID}
		for k, v := range r {
			stored[k] = v
		}
		s.tables[table] = append(s.tables[table], stored)
	}
}

func matches(row model.Row, filters connector.Filters) bool {
	for k, v := range filters {
		if model.KeyPart(row[k]) != model.KeyPart(v) {
			return false
		}
	}
	return true
}

func (s *fakeStore) Select(_ context.Context, table string, columns []string, filters connector.Filters, limit int) ([]model.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectCalls++
	if s.failSelect != nil {
		return nil, s.failSelect
	}

	var out []model.Row
	for _, row := range s.tables[table] {
		if !matches(row, filters) {
			continue
		}
		projected := make(model.Row, len(columns))
		for _, c := range columns {
			projected[c] = row[c]
		}
		out = append(out, projected)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) Insert(_ context.Context, table string, rows []model.Row) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls = append(s.insertCalls, rows)
	if len(s.insertCalls) == s.failInsertCall {
		if s.insertErr != nil {
			return 0, s.insertErr
		}
		return 0, errStoreDown
	}
	for _, r := range rows {
		s.nextID++
		stored := model.Row{"id": s.nextID}
		for k, v := range r {
			stored[k] = v
		}
		s.tables[table] = append(s.tables[table], stored)
	}
	return int64(len(rows)), nil
}

func (s *fakeStore) Delete(_ context.Context, table string, ids []interface{}) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if s.deleteCalls == s.failDeleteCall {
		return 0, errStoreDown
	}

	drop := make(map[interface{}]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []model.Row
	var n int64
	for _, row := range s.tables[table] {
		if drop[row["id"]] {
			n++
			continue
		}
		kept = append(kept, row)
	}
	s.tables[table] = kept
	return n, nil
}

func (s *fakeStore) Count(_ context.Context, table string, filters connector.Filters) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countCalls++
	if s.failCount != nil {
		return 0, s.failCount
	}
	var n int64
	for _, row := range s.tables[table] {
		if matches(row, filters) {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) EnsureTable(_ context.Context, _ *model.TableMetadata, _ bool) error {
	return s.failEnsure
}

func (s *fakeStore) Ping(context.Context) error { return nil }
func (s *fakeStore) Dialect() string            { return "fake" }
func (s *fakeStore) Close() error               { return nil }

func (s *fakeStore) rows(table string) []model.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Row(nil), s.tables[table]...)
}

func (s *fakeStore) batchSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sizes := make([]int, len(s.insertCalls))
	for i, b := range s.insertCalls {
		sizes[i] = len(b)
	}
	return sizes
}

// adsDefinition is a small column-layout source keyed on day and campaign
func adsDefinition() *source.Definition {
	return &source.Definition{
		Name:     "ads",
		Table:    "ads",
		Patterns: []string{"ads_*.csv"},
		Schema: &cleaner.Schema{
			Fields: []cleaner.Field{
				{Name: "day", Column: "Day", Kind: cleaner.Date},
				{Name: "campaign", Column: "Campaign", Kind: cleaner.Text},
				{Name: "spend", Column: "Spend", Kind: cleaner.Currency},
			},
			Period:     cleaner.YearMonthSuffix{Prefix: "ads_"},
			Provenance: []string{cleaner.PartPeriod},
		},
		KeyFields: []string{"day", "campaign"},
		Mode:      source.ModeBatch,
		BatchSize: 3,
		Layout:    source.LayoutColumns,
		Enabled:   true,
	}
}

func normalized(file string, line int, day, campaign string) model.NormalizedRecord {
	return model.NormalizedRecord{
		Source:   "ads",
		FileName: file,
		Line:     line,
		Fields:   model.Row{"file_name": file, "day": day, "campaign": campaign, "spend": 1.5},
		Content:  "Campaign " + campaign + " on " + day,
	}
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// adsCSV renders n distinct rows for March 2025
func adsCSV(n int) string {
	content := "Day,Campaign,Spend\n"
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		content += start.AddDate(0, 0, i).Format("2006-01-02") + ",Spring,\"$1,234.50\"\n"
	}
	return content
}
