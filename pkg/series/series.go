// Package series defines the normalized tables produced by the loading pipeline
// and the range queries the presentation layer runs over them.
package series

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
)

// PriceObservation is one calendar day of the primary series. Value is NaN when
// absent. Description is the raw event text; EventLabel is its display form.
type PriceObservation struct {
	Date        datetime.Date
	Value       float64
	Description string
	EventLabel  string
	Category    string
}

// HasValue reports whether the observation carries a price.
func (o PriceObservation) HasValue() bool { return !math.IsNaN(o.Value) }

// IsEvent reports whether the observation is an event marker.
func (o PriceObservation) IsEvent() bool { return o.Category == constants.CategoryEvent }

// CategoryFor returns the category tag for a row with the given event label.
func CategoryFor(label string) string {
	if label != "" {
		return constants.CategoryEvent
	}
	return constants.CategoryPrice
}

// HistoricalEvent is a dated annotation from the events table.
type HistoricalEvent struct {
	Date        datetime.Date
	Description string
}

// Point is one (date, value) pair of an auxiliary series.
type Point struct {
	Date  datetime.Date
	Value float64
}

// AuxiliarySeries is a secondary dataset overlaid on the primary series.
type AuxiliarySeries struct {
	ID     string
	Label  string
	Unit   string
	Axis   string
	Color  string
	Points []Point
}

// FileSignature identifies the state of one input file.
type FileSignature struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Snapshot is the result of one load cycle.
type Snapshot struct {
	ID         uuid.UUID
	LoadedAt   time.Time
	Primary    []PriceObservation
	Auxiliary  map[string]AuxiliarySeries
	Order      []string
	Signatures []FileSignature
}

// Overlay returns the auxiliary series with the given id.
func (s *Snapshot) Overlay(id string) (AuxiliarySeries, bool) {
	aux, ok := s.Auxiliary[id]
	return aux, ok
}

// Overlays returns the auxiliary series in configuration order.
func (s *Snapshot) Overlays() []AuxiliarySeries {
	out := make([]AuxiliarySeries, 0, len(s.Order))
	for _, id := range s.Order {
		if aux, ok := s.Auxiliary[id]; ok {
			out = append(out, aux)
		}
	}
	return out
}

// SortObservations sorts rows ascending by date in place.
func SortObservations(rows []PriceObservation) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
}

// SortPoints sorts points ascending by date in place.
func SortPoints(points []Point) {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
}
