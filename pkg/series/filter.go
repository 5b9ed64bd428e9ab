package series

import (
	"math"

	"github.com/iwvelando/peso-dashboard/pkg/datetime"
)

func inRange(d, from, to datetime.Date) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

// Filter returns the rows dated within [from, to], sorted ascending. A zero bound
// is open. The input is not modified.
func Filter(rows []PriceObservation, from, to datetime.Date) []PriceObservation {
	out := make([]PriceObservation, 0, len(rows))
	for _, row := range rows {
		if inRange(row.Date, from, to) {
			out = append(out, row)
		}
	}
	SortObservations(out)
	return out
}

// FilterPoints is Filter for auxiliary points.
func FilterPoints(points []Point, from, to datetime.Date) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if inRange(p.Date, from, to) {
			out = append(out, p)
		}
	}
	SortPoints(out)
	return out
}

// Markers returns the event rows that carry a value, which are the only ones the
// chart can place on the price line.
func Markers(rows []PriceObservation) []PriceObservation {
	var out []PriceObservation
	for _, row := range rows {
		if row.IsEvent() && row.HasValue() {
			out = append(out, row)
		}
	}
	return out
}

// Range returns the minimum and maximum present value of rows. ok is false when
// every value is absent.
func Range(rows []PriceObservation) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		if !row.HasValue() {
			continue
		}
		lo = math.Min(lo, row.Value)
		hi = math.Max(hi, row.Value)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// MonthTicks returns the first day of every month within [from, to].
func MonthTicks(from, to datetime.Date) []datetime.Date {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil
	}
	var ticks []datetime.Date
	tick := datetime.MonthStart(from)
	if tick.Before(from) {
		tick = datetime.NewDate(tick.Year(), tick.Month()+1, 1)
	}
	for !tick.After(to) {
		ticks = append(ticks, tick)
		tick = datetime.NewDate(tick.Year(), tick.Month()+1, 1)
	}
	return ticks
}
