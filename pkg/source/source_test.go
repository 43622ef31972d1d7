package source

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/cleaner"
	"github.com/cl0ver012/whd-ai-assistant/pkg/config"
	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
	"github.com/cl0ver012/whd-ai-assistant/pkg/reader"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuiltin_AllValid(t *testing.T) {
	r := Builtin()
	require.Len(t, r.List(), 11)
	for _, d := range r.List() {
		assert.NoError(t, d.Validate(), d.Name)
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := Builtin()

	all, err := r.Resolve(nil)
	require.NoError(t, err)
	for _, d := range all {
		assert.True(t, d.Enabled, d.Name)
		assert.NotEqual(t, LayoutDocument, d.Layout, d.Name)
	}

	picked, err := r.Resolve([]string{"google_ads_documents", "meta_ads", "meta_ads"})
	require.NoError(t, err)
	require.Len(t, picked, 3)
	assert.Equal(t, "meta_ads", picked[0].Name)
	assert.Equal(t, "google_ads_performance_documents", picked[1].Name)
	assert.Equal(t, "google_ads_actions_documents", picked[2].Name)

	_, err = r.Resolve([]string{"myspace"})
	assert.ErrorContains(t, err, "myspace")
}

func TestRegistry_ApplyOverrides(t *testing.T) {
	r := Builtin()
	original, _ := r.Get("powerbi_sales")
	enabled := false

	err := r.ApplyOverrides(map[string]config.SourceOverride{
		"powerbi_sales": {Folder: "/data/pbi", Mode: "batch", BatchSize: 250, Enabled: &enabled},
	})
	require.NoError(t, err)

	d, _ := r.Get("powerbi_sales")
	assert.Equal(t, "/data/pbi", d.Folder)
	assert.Equal(t, ModeBatch, d.Mode)
	assert.Equal(t, 250, d.BatchSize)
	assert.False(t, d.Enabled)
	assert.Equal(t, "NBX/Power BI", original.Folder, "built-in definition must not change")

	err = r.ApplyOverrides(map[string]config.SourceOverride{"nope": {}})
	assert.Error(t, err)
}

func TestDefinition_FilesAndMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "meta_ads_export_2025_04.csv", "Day\n")
	writeFile(t, dir, "meta_ads_export_2025_03.csv", "Day\n")
	writeFile(t, dir, "notes.txt", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "meta_ads_export_dir.csv"), 0o755))

	d := metaAds()
	d.Folder = dir

	files, err := d.Files(d.Dir("/ignored"))
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "meta_ads_export_2025_03.csv", filepath.Base(files[0]))
	assert.Equal(t, "meta_ads_export_2025_04.csv", filepath.Base(files[1]))

	assert.True(t, d.Match("meta_ads_export_2025_03.csv"))
	assert.False(t, d.Match("tiktok_ads_export_2025_03.csv"))

	_, err = d.Files(filepath.Join(dir, "missing"))
	assert.True(t, IsNotExist(err))
}

func TestDefinition_FilesOnlyListsTopLevelMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Uber Eats Offers March.csv", "x\n")
	writeFile(t, dir, "Uber Eats Sales March.csv", "x\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))
	writeFile(t, filepath.Join(dir, "archive"), "Old Offers.csv", "x\n")

	d := uberEatsOffers()
	files, err := d.Files(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "Uber Eats Offers March.csv"), files[0])

	d.Patterns = []string{"[unclosed"}
	_, err = d.Files(dir)
	assert.ErrorContains(t, err, "bad pattern")
}

func TestDefinition_DirRelativeToRoot(t *testing.T) {
	d := uberEatsOffers()
	assert.Equal(t, filepath.Join("/data", "NBX/Uber Eats Promos"), d.Dir("/data"))
}

func normalizeFile(t *testing.T, d *Definition, path string) []model.NormalizedRecord {
	t.Helper()
	c, err := cleaner.NewDataCleaner(d.Schema, zap.NewNop())
	require.NoError(t, err)

	period, err := c.FilePeriod(filepath.Base(path))
	require.NoError(t, err)

	r, err := reader.Open(path, d.Reader)
	require.NoError(t, err)
	defer r.Close()

	file := cleaner.FileContext{Source: d.Name, FileName: filepath.Base(path), Period: period}
	if pre := r.Preamble(); len(pre) == 2 {
		file.ReportTitle, file.ReportDateRange = pre[0], pre[1]
	}

	var out []model.NormalizedRecord
	for {
		rec, err := r.Next()
		if err != nil {
			break
		}
		out = append(out, c.Normalize(rec, file))
	}
	return out
}

func TestMetaAds_Normalize(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "meta_ads_export_2025_03.csv",
		"Day,Campaign name,Ad set name,Ad name,Results,Amount spent (AUD),Link clicks,ThruPlays\n"+
			"2025-03-01,Spring,Set A,Ad 1,3,\"1,234.50\",10,nan\n")

	d := metaAds()
	recs := normalizeFile(t, d, path)
	require.Len(t, recs, 1)

	f := recs[0].Fields
	assert.Equal(t, "2025_03", f["period"])
	assert.Equal(t, "2025", f["year"])
	assert.Equal(t, "03", f["month"])
	assert.Equal(t, 1234.5, f["amount_spent"])
	assert.Equal(t, int64(0), f["thru_plays"])
	assert.Equal(t, int64(0), f["reach"])
	assert.Equal(t, true, f["has_results"])
	assert.Equal(t, false, f["has_video_content"])
	assert.Contains(t, recs[0].Content, "Amount Spent: AUD 1,234.50")

	row := d.Row(recs[0])
	assert.Equal(t, d.Key(row), d.Key(model.Row{
		"day": "2025-03-01", "campaign_name": "Spring", "ad_set_name": "Set A", "ad_name": "Ad 1",
	}))
}

func TestOrganicSocial_Normalize(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Apr-01-2025_Apr-30-2025_12345.csv",
		"Post ID,Post type,Duration (sec),Likes,Shares,Comments,Saves,Views\n"+
			"p1,IG reel,0,0,0,0,0,\n"+
			"p2,IG image,12,1,0,0,0,5\n")

	recs := normalizeFile(t, organicSocial(), path)
	require.Len(t, recs, 2)

	assert.Equal(t, "2025", recs[0].Fields["year"])
	assert.Equal(t, "04", recs[0].Fields["month"])
	assert.Equal(t, "April", recs[0].Fields["month_name"])
	assert.Equal(t, true, recs[0].Fields["is_video"])
	assert.Equal(t, false, recs[0].Fields["has_engagement"])
	assert.Equal(t, false, recs[0].Fields["has_views"])

	assert.Equal(t, true, recs[1].Fields["is_video"])
	assert.Equal(t, true, recs[1].Fields["has_engagement"])
	assert.Contains(t, recs[1].Content, "Video Duration: 12s")
	assert.NotContains(t, recs[0].Content, "Video Duration")
}

func TestUberEats_Normalize(t *testing.T) {
	dir := t.TempDir()
	offers := writeFile(t, dir, "Store Offers.csv",
		"Offer,Promo Start Date,Promo End Date\n"+
			"20% off,2025-01-01,2025-01-31\n"+
			"$5 meal deal,2025-01-01,2025-01-31\n")

	recs := normalizeFile(t, uberEatsOffers(), offers)
	require.Len(t, recs, 2)
	assert.Equal(t, true, recs[0].Fields["has_discount"])
	assert.Equal(t, false, recs[0].Fields["has_fixed_price"])
	assert.Equal(t, false, recs[1].Fields["has_discount"])
	assert.Equal(t, true, recs[1].Fields["has_fixed_price"])
	assert.Nil(t, recs[0].Fields["items"])

	sales := writeFile(t, dir, "Store Sales.csv",
		"Date,Store Name,Channel Type,Total Sales\n"+
			"\"Tuesday, October 01, 2024\",Bondi,Delivery,\"$1,200.00\"\n"+
			"1-Jul-24,Bondi,Pickup,$0\n"+
			"someday,Bondi,Pickup,\n")

	recs = normalizeFile(t, uberEatsSales(), sales)
	require.Len(t, recs, 3)
	assert.Equal(t, "2024-10-01", recs[0].Fields["parsed_date"])
	assert.Equal(t, "2024_10", recs[0].Fields["period"])
	assert.Equal(t, "October", recs[0].Fields["month_name"])
	assert.Equal(t, true, recs[0].Fields["has_sales"])

	assert.Equal(t, "2024-07-01", recs[1].Fields["parsed_date"])
	assert.Equal(t, "2024", recs[1].Fields["year"])
	assert.Equal(t, false, recs[1].Fields["has_sales"])

	assert.Nil(t, recs[2].Fields["parsed_date"])
	assert.Nil(t, recs[2].Fields["period"])
	assert.Equal(t, 0.0, recs[2].Fields["total_sales"])
	assert.Len(t, recs[2].Operations, 1)
}

func TestPowerBI_Normalize(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "01 25.csv",
		"Store Name,Total Sales,Year,Month Name\n"+
			"Bondi,\"$1,000.00\",,\n"+
			"Store Name,Total Sales,Year,Month Name\n"+
			"Manly,$50,2024,December\n")

	recs := normalizeFile(t, powerBISales(), path)
	require.Len(t, recs, 2)

	assert.Equal(t, "2025", recs[0].Fields["year"])
	assert.Equal(t, "January", recs[0].Fields["month_name"])
	assert.Equal(t, "2025_01", recs[0].Fields["period"])
	assert.Equal(t, "01", recs[0].Fields["month"])
	assert.Equal(t, 1000.0, recs[0].Fields["total_sales"])

	assert.Equal(t, "2024", recs[1].Fields["year"])
	assert.Equal(t, "December", recs[1].Fields["month_name"])
	assert.Contains(t, recs[1].Content, "Period: December 2024")
}

func TestTikTok_CompletionRate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tiktok_ads_export_2025_02.csv",
		"By Day,Campaign name,Video views,Video views at 100%\n"+
			"2025-02-01,C,200,50\n"+
			"2025-02-02,C,0,0\n")

	recs := normalizeFile(t, tiktokAds(), path)
	require.Len(t, recs, 2)
	assert.Equal(t, 25.0, recs[0].Fields["completion_rate"])
	assert.Equal(t, 0.0, recs[1].Fields["completion_rate"])
	assert.Equal(t, "AUD", recs[0].Fields["currency_code"])
}

func TestGoogleDocuments_Row(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "google_ads_performance_2025_05.csv",
		"Campaign performance\nMay 1, 2025 - May 31, 2025\n"+
			"Day,Campaign,Cost,Conversions,Clicks\n"+
			"2025-05-02,Brand,10,0,4\n")

	d := googleAdsPerformanceDocuments()
	recs := normalizeFile(t, d, path)
	require.Len(t, recs, 1)

	rec := recs[0]
	rec.Embedding = []float32{0.1, 0.2}
	row := d.Row(rec)

	assert.Equal(t, rec.Content, row[ColumnContent])
	assert.Equal(t, rec.Embedding, row[ColumnEmbedding])

	meta, ok := row[ColumnMetadata].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "google_ads_performance", meta["source_type"])
	assert.Equal(t, "Campaign performance", meta["report_title"])
	assert.Nil(t, meta["cost_per_conversion"])
	assert.NotContains(t, meta, ColumnContent)

	raw, err := json.Marshal(row[ColumnRawData])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"source_file":"google_ads_performance_2025_05.csv"`)
	assert.Contains(t, string(raw), `"report_date_range":"May 1, 2025 - May 31, 2025"`)
	assert.Contains(t, string(raw), `"Campaign":"Brand"`)

	cols := d.Metadata(768).Columns
	require.Len(t, cols, 4)
	assert.Equal(t, 768, cols[3].Dimensions)
	assert.False(t, d.Deduplicates())
}

func TestDefinition_Validate(t *testing.T) {
	d := metaAds()
	d.Mode = "stream"
	assert.Error(t, d.Validate())

	d = metaAds()
	d.Patterns = []string{"[unclosed"}
	assert.Error(t, d.Validate())

	d = tiktokAdsDocuments()
	d.KeyFields = []string{"day"}
	assert.Error(t, d.Validate())

	d = metaAds()
	d.RowDelay = time.Second
	assert.NoError(t, d.Validate())
}
