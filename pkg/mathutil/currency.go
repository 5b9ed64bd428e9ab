// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"
)

// ToMinorUnits converts amount to an integer count of the currency's minor
// unit, rounding half away from zero, e.g. ToMinorUnits(73.77, 2) == 7377.
func ToMinorUnits(amount float64, fraction int) int64 {
	return int64(math.Round(amount * math.Pow10(fraction)))
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// PercentChange returns the relative change from first to last in percent.
// It is NaN when either value is absent or first is zero.
func PercentChange(first, last float64) float64 {
	if math.IsNaN(first) || math.IsNaN(last) || first == 0 {
		return math.NaN()
	}
	return (last - first) / math.Abs(first) * 100
}

// FirstLast returns the first and last present values of values, skipping
// absent (NaN) entries. ok is false when every value is absent.
func FirstLast(values []float64) (first, last float64, ok bool) {
	i, j := 0, len(values)-1
	for i <= j && math.IsNaN(values[i]) {
		i++
	}
	for j >= i && math.IsNaN(values[j]) {
		j--
	}
	if i > j {
		return math.NaN(), math.NaN(), false
	}
	return values[i], values[j], true
}
