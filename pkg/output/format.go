// Package output provides utilities for printing the aligned series on a terminal.
package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/peso-dashboard/internal/export"
	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/iwvelando/peso-dashboard/pkg/format"
	"github.com/iwvelando/peso-dashboard/pkg/mathutil"
	"github.com/iwvelando/peso-dashboard/pkg/series"
)

// PrettyFormat writes a human-readable rather than machine-readable table of the
// primary series, followed by a summary of each overlay.
func PrettyFormat(w io.Writer, snap *series.Snapshot, from, to datetime.Date) {
	rows := series.Filter(snap.Primary, from, to)

	fmt.Fprintf(w, "--- USD to COP, %s to %s ---\n", from, to)
	fmt.Fprintf(w, "Date       | Close              | Event\n")
	fmt.Fprintf(w, "__________ | __________________ | _____\n")
	for _, row := range rows {
		fmt.Fprintf(w, "%s | %18s | %s\n", row.Date, format.Currency(row.Value, constants.PrimaryCurrency), row.EventLabel)
	}

	if lo, hi, ok := series.Range(rows); ok {
		fmt.Fprintf(w, "\nRange: %s - %s\n", format.Currency(lo, constants.PrimaryCurrency), format.Currency(hi, constants.PrimaryCurrency))
	}

	overlays := snap.Overlays()
	if len(overlays) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- Overlays ---\n")
	for _, aux := range overlays {
		points := series.FilterPoints(aux.Points, from, to)
		if len(points) == 0 {
			fmt.Fprintf(w, "%-22s | no data in range\n", aux.Label)
			continue
		}
		values := make([]float64, len(points))
		for i, p := range points {
			values[i] = p.Value
		}
		first, last, ok := mathutil.FirstLast(values)
		if !ok {
			fmt.Fprintf(w, "%-22s | %4d points | all absent\n", aux.Label, len(points))
			continue
		}
		fmt.Fprintf(w, "%-22s | %4d points | last %s %s | change %s\n",
			aux.Label, len(points), format.Number(last, 2), aux.Unit, format.Percent(mathutil.PercentChange(first, last)))
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, snap *series.Snapshot, from, to datetime.Date) error {
	return export.WriteCSV(w, snap, from, to)
}
