package loader

import (
	"math"

	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/iwvelando/peso-dashboard/pkg/series"
)

// Merge outer-joins the primary value column with the events on date. Dates
// only in the events get a NaN value; dates only in the table get no label.
// Descriptions are stored raw; the aligner derives the display labels.
func Merge(primary *Table, column string, events []series.HistoricalEvent) []series.PriceObservation {
	values := primary.Values(column)
	rows := make([]series.PriceObservation, 0, primary.Len()+len(events))
	index := make(map[datetime.Date]int, primary.Len())

	for i, d := range primary.Dates {
		v := math.NaN()
		if i < len(values) {
			v = values[i]
		}
		index[d] = len(rows)
		rows = append(rows, series.PriceObservation{
			Date:     d,
			Value:    v,
			Category: series.CategoryFor(""),
		})
	}

	for _, ev := range events {
		if k, ok := index[ev.Date]; ok {
			rows[k].Description = ev.Description
			rows[k].Category = series.CategoryFor(ev.Description)
			continue
		}
		index[ev.Date] = len(rows)
		rows = append(rows, series.PriceObservation{
			Date:        ev.Date,
			Value:       math.NaN(),
			Description: ev.Description,
			Category:    series.CategoryFor(ev.Description),
		})
	}

	series.SortObservations(rows)
	return rows
}
