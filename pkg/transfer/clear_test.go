package transfer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
)

func seedRows(store *fakeStore, table string, n int) {
	rows := make([]model.Row, n)
	for i := range rows {
		rows[i] = model.Row{"file_name": "old.csv"}
	}
	store.seed(table, rows...)
}

func TestClearer_DeletesPageByPage(t *testing.T) {
	tests := []struct {
		name        string
		rows        int
		wantDeletes int
		wantSelects int
	}{
		{name: "empty table", rows: 0, wantDeletes: 0, wantSelects: 0},
		{name: "short last page", rows: 25, wantDeletes: 3, wantSelects: 3},
		{name: "exact pages", rows: 20, wantDeletes: 2, wantSelects: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			seedRows(store, "ads", tt.rows)

			deleted, err := NewClearer(store, 10, zap.NewNop()).Clear(context.Background(), "ads")
			require.NoError(t, err)

			assert.Equal(t, int64(tt.rows), deleted)
			assert.Empty(t, store.rows("ads"))
			assert.Equal(t, 1, store.countCalls)
			assert.Equal(t, tt.wantDeletes, store.deleteCalls)
			assert.Equal(t, tt.wantSelects, store.selectCalls)
		})
	}
}

func TestClearer_FailureMidPage(t *testing.T) {
	store := newFakeStore()
	seedRows(store, "ads", 25)
	store.failDeleteCall = 2

	deleted, err := NewClearer(store, 10, zap.NewNop()).Clear(context.Background(), "ads")

	var clearErr *ClearError
	require.ErrorAs(t, err, &clearErr)
	assert.Equal(t, ClearPagingDelete, clearErr.State)
	assert.Equal(t, int64(10), clearErr.Deleted)
	assert.Equal(t, int64(10), deleted)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Len(t, store.rows("ads"), 15)
	assert.Equal(t, ErrorCategorySourceLevel, CategorizeError(err, ErrorCategoryBatchLevel))
}

func TestClearer_CountFailure(t *testing.T) {
	store := newFakeStore()
	store.failCount = errStoreDown

	_, err := NewClearer(store, 10, zap.NewNop()).Clear(context.Background(), "ads")

	var clearErr *ClearError
	require.ErrorAs(t, err, &clearErr)
	assert.Equal(t, ClearCounting, clearErr.State)
	assert.Contains(t, err.Error(), "counting")
}
