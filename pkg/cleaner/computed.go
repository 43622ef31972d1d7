// pkg/cleaner/computed.go
package cleaner

import (
	"strings"

	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
)

// AnyPositive is true when at least one of the fields is greater than zero
func AnyPositive(fields ...string) ComputeFunc {
	return func(row model.Row) interface{} {
		for _, f := range fields {
			if toFloat(row[f]) > 0 {
				return true
			}
		}
		return false
	}
}

// SumPositive is true when the fields add up to more than zero
func SumPositive(fields ...string) ComputeFunc {
	return func(row model.Row) interface{} {
		var total float64
		for _, f := range fields {
			total += toFloat(row[f])
		}
		return total > 0
	}
}

// Ratio returns numerator / denominator * scale, or 0 when the denominator is
// zero or missing
func Ratio(numerator, denominator string, scale float64) ComputeFunc {
	return func(row model.Row) interface{} {
		den := toFloat(row[denominator])
		if den == 0 {
			return 0.0
		}
		return toFloat(row[numerator]) / den * scale
	}
}

// NullableRatio returns numerator / denominator, or nil when the denominator is
// not positive
func NullableRatio(numerator, denominator string) ComputeFunc {
	return func(row model.Row) interface{} {
		den := toFloat(row[denominator])
		if den <= 0 {
			return nil
		}
		return toFloat(row[numerator]) / den
	}
}

// ContainsAny is true when the text field contains any of the needles,
// ignoring case
func ContainsAny(field string, needles ...string) ComputeFunc {
	return func(row model.Row) interface{} {
		return containsAny(toString(row[field]), needles...)
	}
}

// Either is true when either function yields true
func Either(a, b ComputeFunc) ComputeFunc {
	return func(row model.Row) interface{} {
		return isTrue(a(row)) || isTrue(b(row))
	}
}

func containsAny(s string, needles ...string) bool {
	s = strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(s, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func isTrue(v interface{}) bool {
	b, ok := v.(bool)
	return ok && b
}
