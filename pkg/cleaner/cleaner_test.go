package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
)

func record(line int, cols []string, values ...string) model.SourceRecord {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}
	return model.NewSourceRecord("f.csv", line, cols, index, values)
}

func videoSchema() *Schema {
	return &Schema{
		Fields: []Field{
			{Name: "day", Column: "By Day", Kind: Date, Nullable: true},
			{Name: "campaign_name", Column: "Campaign name", Kind: Text},
			{Name: "currency_code", Column: "Currency", Kind: Text, Default: "AUD"},
			{Name: "cost", Column: "Cost", Kind: Currency},
			{Name: "ctr", Column: "CTR", Kind: Float},
			{Name: "video_views", Column: "Video views", Kind: Integer},
			{Name: "video_views_100", Column: "Video views at 100%", Kind: Integer},
		},
		Computed: []Computed{
			{Name: "has_video_views", Kind: model.KindBoolean, Func: AnyPositive("video_views")},
			{Name: "completion_rate", Kind: model.KindFloat, Func: Ratio("video_views_100", "video_views", 100)},
		},
		Period:     YearMonthSuffix{Prefix: "tiktok_ads_export_"},
		Provenance: []string{PartPeriod, PartYear, PartMonth},
		Template:   MustTemplate("t", "Campaign: {{.campaign_name}}\nCost: {{.currency_code}} {{money .cost}}\nViews: {{comma .video_views}}\nDay: {{.day}}"),
	}
}

var videoCols = []string{"By Day", "Campaign name", "Currency", "Cost", "CTR", "Video views", "Video views at 100%"}

func TestNormalize_CleansAndComputes(t *testing.T) {
	c, err := NewDataCleaner(videoSchema(), nil)
	require.NoError(t, err)

	period, err := c.FilePeriod("tiktok_ads_export_2025_03.csv")
	require.NoError(t, err)

	rec := record(2, videoCols, "2025-03-04", " Launch ", "", "$1,234.5", "1.25%", "2,000", "500")
	out := c.Normalize(rec, FileContext{Source: "tiktok_ads", FileName: "tiktok_ads_export_2025_03.csv", Period: period})

	assert.Equal(t, "2025-03-04", out.Fields["day"])
	assert.Equal(t, "Launch", out.Fields["campaign_name"])
	assert.Equal(t, "AUD", out.Fields["currency_code"])
	assert.Equal(t, 1234.5, out.Fields["cost"])
	assert.Equal(t, 1.25, out.Fields["ctr"])
	assert.Equal(t, int64(2000), out.Fields["video_views"])
	assert.Equal(t, true, out.Fields["has_video_views"])
	assert.Equal(t, 25.0, out.Fields["completion_rate"])
	assert.Equal(t, "2025_03", out.Fields["period"])
	assert.Equal(t, "2025", out.Fields["year"])
	assert.Equal(t, "03", out.Fields["month"])
	assert.Equal(t, "tiktok_ads_export_2025_03.csv", out.Fields["file_name"])
	assert.Empty(t, out.Operations)
	assert.Nil(t, out.Raw)

	assert.Equal(t, "Campaign: Launch\nCost: AUD 1,234.50\nViews: 2,000\nDay: 2025-03-04", out.Content)
	assert.Equal(t, out.Content, out.Fields["content"])
}

func TestNormalize_MissingAndUnparsableDegrade(t *testing.T) {
	c, err := NewDataCleaner(videoSchema(), nil)
	require.NoError(t, err)

	// short row: the last two columns are missing entirely
	rec := record(7, videoCols, "not a date", "nan", "AUD", "abc", "")
	out := c.Normalize(rec, FileContext{Source: "tiktok_ads", FileName: "tiktok_ads_export_2025_03.csv"})

	assert.Nil(t, out.Fields["day"])
	assert.Equal(t, "", out.Fields["campaign_name"])
	assert.Equal(t, 0.0, out.Fields["cost"])
	assert.Equal(t, 0.0, out.Fields["ctr"])
	assert.Equal(t, int64(0), out.Fields["video_views"])
	assert.Equal(t, false, out.Fields["has_video_views"])
	assert.Equal(t, 0.0, out.Fields["completion_rate"], "zero denominator yields 0")
	assert.Nil(t, out.Fields["period"])

	require.Len(t, out.Operations, 2)
	assert.Equal(t, OpDateFallback, out.Operations[0].Operation)
	assert.Equal(t, "not a date", out.Operations[0].OriginalValue)
	assert.Equal(t, 7, out.Operations[0].Line)
	assert.Equal(t, OpNumericFallback, out.Operations[1].Operation)
	assert.Equal(t, "cost", out.Operations[1].FieldName)
	assert.Contains(t, out.Content, "Cost: AUD 0.00\n")
}

func TestNormalize_PeriodFromFieldAndFallbacks(t *testing.T) {
	schema := &Schema{
		Fields: []Field{
			{Name: "date", Column: "Date", Kind: Text, Nullable: true},
			{Name: "parsed_date", Column: "Date", Kind: Date, Nullable: true},
			{Name: "total_sales", Column: "Total Sales", Kind: Currency},
			{Name: "month_name", Column: "Month Name", Kind: Text, Fallback: PartMonthName},
		},
		Period:          MonthYearPair{},
		PeriodFromField: "parsed_date",
		Provenance:      []string{PartPeriod, PartYear, PartMonth, PartMonthName},
	}
	c, err := NewDataCleaner(schema, nil)
	require.NoError(t, err)
	filePeriod, err := c.FilePeriod("01 25.csv")
	require.NoError(t, err)
	cols := []string{"Date", "Total Sales"}

	out := c.Normalize(record(2, cols, "1-Jul-24", "$10"), FileContext{FileName: "01 25.csv", Period: filePeriod})
	assert.Equal(t, "1-Jul-24", out.Fields["date"])
	assert.Equal(t, "2024-07-01", out.Fields["parsed_date"])
	assert.Equal(t, "2024_07", out.Fields["period"])
	assert.Equal(t, "2024", out.Fields["year"])
	assert.Equal(t, "January", out.Fields["month_name"], "explicit field wins over provenance, falling back to the file period")

	out = c.Normalize(record(3, cols, "", "$10"), FileContext{FileName: "01 25.csv", Period: filePeriod})
	assert.Nil(t, out.Fields["parsed_date"])
	assert.Equal(t, "2025_01", out.Fields["period"], "missing row date falls back to the file name")
	assert.Equal(t, "2025", out.Fields["year"])
	require.Len(t, out.Operations, 1)
	assert.Equal(t, OpPeriodFallback, out.Operations[0].Operation)
	assert.Equal(t, "Date", out.Operations[0].ColumnName)
	assert.Equal(t, "2025_01", out.Operations[0].NewValue)

	out = c.Normalize(record(4, cols, "sometime", "$10"), FileContext{FileName: "01 25.csv", Period: filePeriod})
	assert.Equal(t, "2025_01", out.Fields["period"])
	require.Len(t, out.Operations, 2)
	assert.Equal(t, OpDateFallback, out.Operations[0].Operation)
	assert.Equal(t, OpPeriodFallback, out.Operations[1].Operation)
	assert.Equal(t, "sometime", out.Operations[1].OriginalValue)
}

func TestNormalize_ZeroLossAndReportHeader(t *testing.T) {
	schema := &Schema{
		Fields:       []Field{{Name: "cost_per_conversion", Column: "CPA", Kind: Float, Nullable: true}},
		ReportHeader: true,
		ZeroLoss:     true,
	}
	c, err := NewDataCleaner(schema, nil)
	require.NoError(t, err)

	out := c.Normalize(record(4, []string{"CPA", "Extra"}, "", "kept"), FileContext{
		FileName:        "google_ads_performance_2025_03.csv",
		ReportTitle:     "Campaign report",
		ReportDateRange: "March 2025",
	})

	assert.Nil(t, out.Fields["cost_per_conversion"])
	assert.Equal(t, "Campaign report", out.Fields["report_title"])
	require.NotNil(t, out.Raw)
	assert.Equal(t, "google_ads_performance_2025_03.csv", out.Raw.SourceFile)
	assert.Equal(t, "March 2025", out.Raw.ReportDateRange)
	assert.Equal(t, map[string]interface{}{"CPA": nil, "Extra": "kept"}, out.Raw.OriginalRow)
}

func TestComputedHelpers(t *testing.T) {
	row := model.Row{"likes": int64(0), "shares": int64(2), "post_type": "IG Reel", "cost": 10.0, "conversions": 4.0, "zero": 0.0}

	assert.Equal(t, true, SumPositive("likes", "shares")(row))
	assert.Equal(t, false, AnyPositive("likes", "missing")(row))
	assert.Equal(t, true, ContainsAny("post_type", "reel", "video")(row))
	assert.Equal(t, 2.5, NullableRatio("cost", "conversions")(row))
	assert.Nil(t, NullableRatio("cost", "zero")(row))
	assert.Equal(t, 0.0, Ratio("cost", "missing", 100)(row))
	assert.Equal(t, true, Either(AnyPositive("likes"), ContainsAny("post_type", "reel"))(row))
}

func TestSchemaColumns(t *testing.T) {
	cols := videoSchema().Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	assert.Equal(t, []string{
		"file_name", "period", "year", "month",
		"day", "campaign_name", "currency_code", "cost", "ctr", "video_views", "video_views_100",
		"has_video_views", "completion_rate", "content",
	}, names)
	assert.Equal(t, model.KindInteger, cols[9].Kind)
}

func TestNewDataCleaner_Validation(t *testing.T) {
	_, err := NewDataCleaner(nil, nil)
	assert.Error(t, err)
	_, err = NewDataCleaner(&Schema{}, nil)
	assert.Error(t, err)
}
