package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
)

func TestGenerateColumnDefinitions(t *testing.T) {
	meta := &model.TableMetadata{
		Table: "google_ads_documents",
		Columns: []model.Column{
			{Name: "content", Kind: model.KindString, Nullable: true},
			{Name: "metadata", Kind: model.KindJSON},
			{Name: "has_clicks", Kind: model.KindBoolean},
			{Name: "embedding", Kind: model.KindVector, Nullable: true},
		},
	}

	pg, err := NewTypeConverter(nil, Postgres).GenerateColumnDefinitions(meta)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`"id" BIGSERIAL PRIMARY KEY`,
		`"content" TEXT NULL`,
		`"metadata" JSONB NOT NULL`,
		`"has_clicks" BOOLEAN NOT NULL`,
		`"embedding" vector(768) NULL`,
	}, pg)

	lite, err := NewTypeConverter(nil, SQLite).GenerateColumnDefinitions(meta)
	require.NoError(t, err)
	assert.Equal(t, `"id" INTEGER PRIMARY KEY AUTOINCREMENT`, lite[0])
	assert.Equal(t, `"has_clicks" INTEGER NOT NULL`, lite[3])
	assert.Equal(t, `"embedding" TEXT NULL`, lite[4])
}

func TestMapKind_Unknown(t *testing.T) {
	typ, err := NewTypeConverter(nil, Postgres).MapKind(model.Column{Name: "x", Kind: "money"})
	assert.Error(t, err)
	assert.Equal(t, "TEXT", typ)
}

func TestConvertValue(t *testing.T) {
	pg := NewTypeConverter(nil, Postgres)
	lite := NewTypeConverter(nil, SQLite)

	v, err := pg.ConvertValue(true, model.KindBoolean)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = lite.ConvertValue(true, model.KindBoolean)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = pg.ConvertValue(map[string]interface{}{"a": 1}, "")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, v)

	v, err = pg.ConvertValue(&model.RawData{SourceFile: "f.csv", OriginalRow: map[string]interface{}{"Day": nil}}, model.KindJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"source_file":"f.csv","report_title":"","report_date_range":"","original_row":{"Day":null}}`, v.(string))

	v, err = pg.ConvertValue([]float32{0.5, -1, 2.25}, "")
	require.NoError(t, err)
	assert.Equal(t, "[0.5,-1,2.25]", v)

	v, err = pg.ConvertValue("12", model.KindInteger)
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)

	v, err = pg.ConvertValue(nil, model.KindFloat)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = pg.ConvertValue("maybe", model.KindBoolean)
	assert.Error(t, err)
}

func TestConvertRow(t *testing.T) {
	cols := []model.Column{{Name: "file_name", Kind: model.KindString}, {Name: "reach", Kind: model.KindInteger}, {Name: "missing", Kind: model.KindString}}
	values, err := NewTypeConverter(nil, SQLite).ConvertRow(model.Row{"file_name": "a.csv", "reach": int64(5)}, cols)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a.csv", int64(5), nil}, values)
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.125, -3, 1e-3}
	parsed, err := ParseVector(FormatVector(vec))
	require.NoError(t, err)
	assert.Equal(t, vec, parsed)

	_, err = ParseVector("0.1,0.2")
	assert.Error(t, err)
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"meta_ads_performance"`, QuoteIdentifier("meta_ads_performance"))
	assert.Equal(t, `"we""ird"`, QuoteIdentifier(`we"ird`))
}
