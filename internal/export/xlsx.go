package export

import (
	"fmt"
	"io"
	"math"

	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/iwvelando/peso-dashboard/pkg/series"
	"github.com/xuri/excelize/v2"
)

// PrimarySheet is the name of the sheet holding the primary series.
const PrimarySheet = "USD_COP"

// WriteXLSX writes a workbook with one sheet for the primary series and one
// sheet per auxiliary series, each filtered to [from, to].
func WriteXLSX(w io.Writer, snap *series.Snapshot, from, to datetime.Date) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PrimarySheet); err != nil {
		return fmt.Errorf("failed to name primary sheet: %w", err)
	}
	if err := writeRow(f, PrimarySheet, 1, "date", "value", "event_label", "category"); err != nil {
		return err
	}
	for i, obs := range series.Filter(snap.Primary, from, to) {
		if err := writeRow(f, PrimarySheet, i+2, obs.Date.String(), cellValue(obs.Value), obs.EventLabel, obs.Category); err != nil {
			return err
		}
	}

	for _, aux := range snap.Overlays() {
		if _, err := f.NewSheet(aux.ID); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", aux.ID, err)
		}
		if err := writeRow(f, aux.ID, 1, "date", aux.ID); err != nil {
			return err
		}
		for i, p := range series.FilterPoints(aux.Points, from, to) {
			if err := writeRow(f, aux.ID, i+2, p.Date.String(), cellValue(p.Value)); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// cellValue leaves absent values as empty cells.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
