package cleaner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanNumeric(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{raw: "12.5%", want: 12.5, wantOK: true},
		{raw: "1,234", want: 1234, wantOK: true},
		{raw: " 42 ", want: 42, wantOK: true},
		{raw: "-3.25", want: -3.25, wantOK: true},
		{raw: "", wantOK: false},
		{raw: "nan", wantOK: false},
		{raw: "NaN", wantOK: false},
		{raw: "None", wantOK: false},
		{raw: "n/a value", wantOK: false},
		{raw: "$5", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := CleanNumeric(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanCurrency(t *testing.T) {
	got, ok := CleanCurrency("$1,234.56")
	assert.True(t, ok)
	assert.Equal(t, 1234.56, got)

	got, ok = CleanCurrency("($12.00)")
	assert.True(t, ok)
	assert.Equal(t, -12.0, got)

	_, ok = CleanCurrency("$")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "2025-03-01", want: "2025-03-01"},
		{raw: "Tuesday, October 01, 2024", want: "2024-10-01"},
		{raw: "October 1, 2024", want: "2024-10-01"},
		{raw: "1-Jul-24", want: "2024-07-01"},
		{raw: "15-Mar-99", want: "2099-03-15"},
		{raw: "1-Jul-2024", want: "2024-07-01"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseDate(tt.raw, nil)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}

	_, ok := ParseDate("31/02/2024", nil)
	assert.False(t, ok)
	_, ok = ParseDate("nan", nil)
	assert.False(t, ok)

	got, ok := ParseDate("03/04/2025", []DateLayout{{Layout: "02/01/2006"}})
	assert.True(t, ok)
	assert.Equal(t, time.April, got.Month())
}

func TestFormatThousands(t *testing.T) {
	for n, want := range map[int64]string{0: "0", 123: "123", 1234: "1,234", 1234567: "1,234,567", -1234: "-1,234", -123: "-123"} {
		assert.Equal(t, want, formatThousands(n))
	}
}
