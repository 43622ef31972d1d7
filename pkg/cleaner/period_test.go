package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearMonthSuffix(t *testing.T) {
	s := YearMonthSuffix{Prefix: "meta_ads_export_"}

	p, err := s.Extract("meta_ads_export_2025_03.csv")
	require.NoError(t, err)
	assert.Equal(t, Period{Year: "2025", Month: "03", MonthName: "March", Key: "2025_03"}, p)

	p, err = s.Extract("/data/NBX/meta_ads_export_2024_12.csv")
	require.NoError(t, err)
	assert.Equal(t, "2024_12", p.Key)

	for _, bad := range []string{"meta_ads_export_2025_13.csv", "meta_ads_export_2025.csv", "tiktok_ads_export_2025_03.csv", "meta_ads_export_2025_03_v2.csv"} {
		_, err := s.Extract(bad)
		var perr *PeriodError
		assert.ErrorAs(t, err, &perr, bad)
	}
}

func TestDateRangePrefix(t *testing.T) {
	p, err := DateRangePrefix{}.Extract("Apr-01-2025_Apr-30-2025_1541562187185864.csv")
	require.NoError(t, err)
	assert.Equal(t, "2025", p.Year)
	assert.Equal(t, "04", p.Month)
	assert.Equal(t, "April", p.MonthName)
	assert.Equal(t, "2025_04", p.Key)

	_, err = DateRangePrefix{}.Extract("Foo-01-2025_Apr-30-2025_1.csv")
	assert.Error(t, err)
	_, err = DateRangePrefix{}.Extract("export.csv")
	assert.Error(t, err)
}

func TestMonthYearPair(t *testing.T) {
	p, err := MonthYearPair{}.Extract("01 25.csv")
	require.NoError(t, err)
	assert.Equal(t, Period{Year: "2025", Month: "01", MonthName: "January", Key: "2025_01"}, p)

	_, err = MonthYearPair{}.Extract("1 25.csv")
	assert.Error(t, err)
}

func TestFirstMatch(t *testing.T) {
	s := FirstMatch{YearMonthSuffix{Prefix: "powerbi_LFL_Sales_"}, MonthYearPair{}}

	p, err := s.Extract("powerbi_LFL_Sales_2025_10.csv")
	require.NoError(t, err)
	assert.Equal(t, "October", p.MonthName)

	p, err = s.Extract("09 24.csv")
	require.NoError(t, err)
	assert.Equal(t, "2024_09", p.Key)

	_, err = s.Extract("summary.csv")
	var perr *PeriodError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "MM YY")
}

func TestPeriodPart(t *testing.T) {
	p := NewPeriod(2025, 3)
	v, ok := p.Part(PartMonthName)
	assert.True(t, ok)
	assert.Equal(t, "March", v)

	_, ok = Period{}.Part(PartYear)
	assert.False(t, ok)
	assert.True(t, Period{}.IsZero())
}
