package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSourceRecord_Get(t *testing.T) {
	header := []string{"Day", "Campaign name", "Reach"}
	index := map[string]int{"Day": 0, "Campaign name": 1, "Reach": 2}
	rec := NewSourceRecord("meta_ads_export_2025_03.csv", 2, header, index, []string{"2025-03-01", "Spring"})

	v, ok := rec.Get("Day")
	assert.True(t, ok)
	assert.Equal(t, "2025-03-01", v)

	_, ok = rec.Get("Reach")
	assert.False(t, ok, "short row reads as missing")

	_, ok = rec.Get("Objective")
	assert.False(t, ok, "unknown column reads as missing")

	assert.Equal(t, map[string]interface{}{
		"Day":           "2025-03-01",
		"Campaign name": "Spring",
		"Reach":         nil,
	}, rec.Original())
}

func TestNewNaturalKey_StoreAndRecordAgree(t *testing.T) {
	fromRecord := NewNaturalKey("2025-03-01", "Spring", 1250.0)
	fromStore := NewNaturalKey(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), []byte("Spring"), int64(1250))
	assert.Equal(t, fromRecord, fromStore)

	assert.NotEqual(t, NewNaturalKey("a", "bc"), NewNaturalKey("ab", "c"))
	assert.Equal(t, "12.5", KeyPart(12.5))
	assert.Equal(t, "", KeyPart(nil))
	assert.Equal(t, "true", KeyPart(true))
}

func TestTableMetadata_GetColumnByName(t *testing.T) {
	tm := TableMetadata{Table: "t", Columns: []Column{{Name: "file_name"}, {Name: "Day"}}}
	assert.NotNil(t, tm.GetColumnByName("day"))
	assert.Nil(t, tm.GetColumnByName("reach"))
	assert.Equal(t, []string{"file_name", "Day"}, tm.ColumnNames())
}
