package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/iwvelando/peso-dashboard/internal/config"
	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/shopspring/decimal"
)

var scaleFactor = decimal.NewFromInt(constants.ScaleFactor)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Column selects a value column to load.
type Column struct {
	Name string
	// Scaled columns are multiplied by constants.ScaleFactor.
	Scaled bool
}

// Table is a parsed input file: one date per row and one float column per
// requested value column, sorted ascending by date.
type Table struct {
	File    string
	Dates   []datetime.Date
	Columns map[string][]float64
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Dates) }

// Values returns the named column.
func (t *Table) Values(column string) []float64 { return t.Columns[column] }

// LoadTable opens path and reads it with ReadTable.
func LoadTable(path string, spec config.Table, columns ...Column) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrLoad, path, err)
	}
	defer f.Close()
	return ReadTable(f, path, spec, columns...)
}

// ReadTable parses a delimited table. name identifies the source in errors.
// The first malformed cell aborts the whole table.
func ReadTable(r io.Reader, name string, spec config.Table, columns ...Column) (*Table, error) {
	header, records, err := readRecords(r, name, spec.Delimiter)
	if err != nil {
		return nil, err
	}

	dateIdx, err := columnIndex(header, spec.DateColumn, name)
	if err != nil {
		return nil, err
	}
	valueIdx := make([]int, len(columns))
	for i, col := range columns {
		if valueIdx[i], err = columnIndex(header, col.Name, name); err != nil {
			return nil, err
		}
	}

	locale := NumberLocale(spec.NumberLocale)
	table := &Table{
		File:    name,
		Dates:   make([]datetime.Date, 0, len(records)),
		Columns: make(map[string][]float64, len(columns)),
	}
	for _, col := range columns {
		table.Columns[col.Name] = make([]float64, 0, len(records))
	}

	seen := make(map[datetime.Date]int, len(records))
	for i, record := range records {
		row := i + 2
		if isBlank(record) {
			continue
		}

		d, err := ParseDate(cell(record, dateIdx), spec.DateLayout)
		if err != nil {
			return nil, &ParseError{File: name, Row: row, Column: spec.DateColumn, Text: cell(record, dateIdx), Err: err}
		}
		if prev, dup := seen[d]; dup {
			return nil, &ParseError{File: name, Row: row, Column: spec.DateColumn, Text: cell(record, dateIdx),
				Err: fmt.Errorf("duplicate date, first seen on row %d", prev)}
		}
		seen[d] = row
		table.Dates = append(table.Dates, d)

		for j, col := range columns {
			text := cell(record, valueIdx[j])
			dec, ok, err := parseDecimal(text, locale)
			if err != nil {
				return nil, &ParseError{File: name, Row: row, Column: col.Name, Text: text, Err: err}
			}
			v := math.NaN()
			if ok {
				if col.Scaled {
					dec = dec.Mul(scaleFactor)
				}
				v = dec.InexactFloat64()
			}
			table.Columns[col.Name] = append(table.Columns[col.Name], v)
		}
	}

	table.sort()
	return table, nil
}

func (t *Table) sort() {
	idx := make([]int, len(t.Dates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return t.Dates[idx[a]].Before(t.Dates[idx[b]]) })

	dates := make([]datetime.Date, len(idx))
	for i, k := range idx {
		dates[i] = t.Dates[k]
	}
	t.Dates = dates
	for name, values := range t.Columns {
		sorted := make([]float64, len(idx))
		for i, k := range idx {
			sorted[i] = values[k]
		}
		t.Columns[name] = sorted
	}
}

// readRecords returns the header and the data records of a delimited file.
func readRecords(r io.Reader, name, delimiter string) ([]string, [][]string, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	if delimiter != "" {
		reader.Comma = []rune(delimiter)[0]
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %w", ErrLoad, name, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: %s: missing header row", ErrLoad, name)
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, records[1:], nil
}

func columnIndex(header []string, column, name string) (int, error) {
	for i, h := range header {
		if h == column {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s: column %q not found in header %v", ErrLoad, name, column, header)
}

func cell(record []string, idx int) string {
	if idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
