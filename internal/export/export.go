// Package export writes the filtered snapshot tables as CSV or XLSX downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/iwvelando/peso-dashboard/internal/loader"
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/iwvelando/peso-dashboard/pkg/series"
)

// Row is one date of the wide export table. Missing values are NaN.
type Row struct {
	Date       datetime.Date
	Value      float64
	EventLabel string
	Category   string
	Overlays   []float64
}

// Table is the wide export table: the primary series followed by one column
// per auxiliary series, over the union of their dates.
type Table struct {
	Header []string
	Rows   []Row
}

// Build assembles the wide table for rows dated within [from, to].
func Build(snap *series.Snapshot, from, to datetime.Date) Table {
	overlays := snap.Overlays()

	header := []string{"date", "value", "event_label", "category"}
	for _, aux := range overlays {
		header = append(header, aux.ID)
	}

	byDate := make(map[datetime.Date]*Row)
	get := func(d datetime.Date) *Row {
		if r, ok := byDate[d]; ok {
			return r
		}
		r := &Row{Date: d, Value: math.NaN(), Overlays: make([]float64, len(overlays))}
		for i := range r.Overlays {
			r.Overlays[i] = math.NaN()
		}
		byDate[d] = r
		return r
	}

	for _, obs := range series.Filter(snap.Primary, from, to) {
		r := get(obs.Date)
		r.Value = obs.Value
		r.EventLabel = obs.EventLabel
		r.Category = obs.Category
	}
	for i, aux := range overlays {
		for _, p := range series.FilterPoints(aux.Points, from, to) {
			get(p.Date).Overlays[i] = p.Value
		}
	}

	rows := make([]Row, 0, len(byDate))
	for _, r := range byDate {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	return Table{Header: header, Rows: rows}
}

// WriteCSV writes the wide table as comma-separated values with standard
// number formatting; absent values are empty cells.
func WriteCSV(w io.Writer, snap *series.Snapshot, from, to datetime.Date) error {
	table := Build(snap, from, to)

	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range table.Rows {
		record := []string{
			r.Date.String(),
			loader.FormatNumber(r.Value, loader.Standard),
			r.EventLabel,
			r.Category,
		}
		for _, v := range r.Overlays {
			record = append(record, loader.FormatNumber(v, loader.Standard))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", r.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
