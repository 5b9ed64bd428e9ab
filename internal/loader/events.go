package loader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iwvelando/peso-dashboard/internal/config"
	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/iwvelando/peso-dashboard/pkg/series"
)

// LoadEvents opens path and reads it with ReadEvents.
func LoadEvents(path string, spec config.EventsTable) ([]series.HistoricalEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrLoad, path, err)
	}
	defer f.Close()
	return ReadEvents(f, path, spec)
}

// ReadEvents parses the historical-events table. Descriptions sharing a date are
// joined in file order. A row with an empty description still contributes its
// date, so the merged table has a row for it.
func ReadEvents(r io.Reader, name string, spec config.EventsTable) ([]series.HistoricalEvent, error) {
	table := spec.Table()
	header, records, err := readRecords(r, name, table.Delimiter)
	if err != nil {
		return nil, err
	}
	dateIdx, err := columnIndex(header, table.DateColumn, name)
	if err != nil {
		return nil, err
	}
	descIdx, err := columnIndex(header, spec.DescriptionColumn, name)
	if err != nil {
		return nil, err
	}

	var events []series.HistoricalEvent
	byDate := make(map[datetime.Date]int)
	for i, record := range records {
		if isBlank(record) {
			continue
		}
		d, err := ParseDate(cell(record, dateIdx), table.DateLayout)
		if err != nil {
			return nil, &ParseError{File: name, Row: i + 2, Column: table.DateColumn, Text: cell(record, dateIdx), Err: err}
		}
		desc := cell(record, descIdx)
		k, ok := byDate[d]
		switch {
		case !ok:
			byDate[d] = len(events)
			events = append(events, series.HistoricalEvent{Date: d, Description: desc})
		case desc == "":
		case events[k].Description == "":
			events[k].Description = desc
		default:
			events[k].Description = strings.Join([]string{events[k].Description, desc}, constants.EventJoinSeparator)
		}
	}
	return events, nil
}
