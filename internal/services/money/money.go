// Package money holds the small helpers shared by both ledgers.
package money

import (
	"math"
)

// Round rounds v to two decimals with exact halves going toward zero,
// matching how stored balances are reported.
func Round(v float64) float64 {
	scaled := v * 100
	if math.Abs(scaled-math.Trunc(scaled)) == 0.5 {
		return math.Trunc(scaled) / 100
	}
	return math.Round(scaled) / 100
}

// Truncate limits s to max bytes. Used for audit descriptions persisted
// into bounded columns.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
