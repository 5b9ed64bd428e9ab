// Package aligner fills weekend gaps in the primary series and turns raw event
// descriptions into display labels.
package aligner

import (
	"fmt"

	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/iwvelando/peso-dashboard/pkg/series"
)

// carryBack is how many days back an absent weekend value is looked up.
var carryBack = map[int]int{
	datetime.Saturday: 1,
	datetime.Sunday:   2,
}

// CarryForwardWeekends returns a copy of rows where every absent Saturday value
// takes the value of the day before and every absent Sunday value takes the
// value of two days before. Lookups only see the values as given, never values
// substituted by this call, so a Sunday never inherits a filled Saturday. A
// lookup that finds nothing leaves the value absent.
func CarryForwardWeekends(rows []series.PriceObservation) []series.PriceObservation {
	original := make(map[datetime.Date]float64, len(rows))
	for _, row := range rows {
		original[row.Date] = row.Value
	}

	out := make([]series.PriceObservation, len(rows))
	for i, row := range rows {
		out[i] = row
		if row.HasValue() {
			continue
		}
		back, weekend := carryBack[datetime.WeekdayIndex(row.Date)]
		if !weekend {
			continue
		}
		if v, ok := original[row.Date.AddDays(-back)]; ok {
			out[i].Value = v
		}
	}
	return out
}

// FormatEventLabel renders an event as "<description> - <Month> <day>, <year>".
// An empty description yields an empty label.
func FormatEventLabel(description string, d datetime.Date) string {
	if description == "" {
		return ""
	}
	return fmt.Sprintf("%s - %s %d, %d", description, d.Month(), d.Day(), d.Year())
}

// Align runs the carry-forward and label formatting stages over a merged table
// and returns a new table sorted by date. It does not modify rows, and labels
// are always derived from Description, so Align(Align(rows)) == Align(rows).
func Align(rows []series.PriceObservation) []series.PriceObservation {
	out := CarryForwardWeekends(rows)
	for i := range out {
		out[i].EventLabel = FormatEventLabel(out[i].Description, out[i].Date)
		out[i].Category = series.CategoryFor(out[i].Description)
	}
	series.SortObservations(out)
	return out
}
