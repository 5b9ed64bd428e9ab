// Package loader reads the raw input tables, converts their locale-specific
// cells into canonical types and builds the aligned snapshot served to the
// dashboard.
package loader

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/peso-dashboard/internal/aligner"
	"github.com/iwvelando/peso-dashboard/internal/config"
	"github.com/iwvelando/peso-dashboard/pkg/series"
	"go.uber.org/zap"
)

// Loader builds snapshots from the configured datasets.
type Loader struct {
	data   config.DataConfig
	logger *zap.Logger
	now    func() time.Time
}

// New returns a Loader for the given data configuration.
func New(logger *zap.Logger, data config.DataConfig) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{data: data, logger: logger, now: time.Now}
}

// Files returns the input paths the loader reads.
func (l *Loader) Files() []string { return l.data.Files() }

// Load reads every dataset and returns the aligned snapshot. Any failure aborts
// the whole load; no partial snapshot is ever returned.
func (l *Loader) Load(ctx context.Context) (*series.Snapshot, error) {
	start := l.now()
	id := uuid.New()
	logger := l.logger.With(zap.String("op", "loader.Load"), zap.String("load_id", id.String()))

	sigs, err := Stat(l.Files())
	if err != nil {
		return nil, err
	}

	primary, err := l.loadPrimary(ctx)
	if err != nil {
		return nil, err
	}

	events, err := l.loadEvents(ctx)
	if err != nil {
		return nil, err
	}

	merged := Merge(primary, l.data.Primary.ValueColumn, events)
	aligned := aligner.Align(merged)
	logger.Debug("primary series aligned",
		zap.Int("rows", len(aligned)),
		zap.Int("events", len(events)),
		zap.Int("filled", countFilled(merged, aligned)),
	)

	aux, order, err := l.loadAuxiliary(ctx)
	if err != nil {
		return nil, err
	}

	snap := &series.Snapshot{
		ID:         id,
		LoadedAt:   start,
		Primary:    aligned,
		Auxiliary:  aux,
		Order:      order,
		Signatures: sigs,
	}

	logger.Info("datasets loaded",
		zap.Int("files", len(sigs)),
		zap.Int("primary_rows", len(aligned)),
		zap.Int("overlays", len(order)),
		zap.Duration("duration", l.now().Sub(start)),
	)
	return snap, nil
}

func (l *Loader) loadPrimary(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spec := l.data.Primary
	table, err := LoadTable(l.data.Path(spec.File), spec.Table, Column{Name: spec.ValueColumn})
	if err != nil {
		return nil, fmt.Errorf("failed to load primary table: %w", err)
	}
	return table, nil
}

func (l *Loader) loadEvents(ctx context.Context) ([]series.HistoricalEvent, error) {
	if l.data.Events.File == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events, err := LoadEvents(l.data.Path(l.data.Events.File), l.data.Events)
	if err != nil {
		return nil, fmt.Errorf("failed to load events table: %w", err)
	}
	return events, nil
}

func (l *Loader) loadAuxiliary(ctx context.Context) (map[string]series.AuxiliarySeries, []string, error) {
	aux := make(map[string]series.AuxiliarySeries)
	var order []string

	for _, spec := range l.data.Auxiliary {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		columns := make([]Column, len(spec.Series))
		for i, s := range spec.Series {
			columns[i] = Column{Name: s.Column, Scaled: s.Scaled}
		}
		table, err := LoadTable(l.data.Path(spec.File), spec.Table, columns...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load auxiliary table: %w", err)
		}

		for _, s := range spec.Series {
			values := table.Values(s.Column)
			points := make([]series.Point, len(table.Dates))
			for i, d := range table.Dates {
				points[i] = series.Point{Date: d, Value: values[i]}
			}
			aux[s.ID] = series.AuxiliarySeries{
				ID:     s.ID,
				Label:  s.Label,
				Unit:   s.Unit,
				Axis:   s.Axis,
				Color:  s.Color,
				Points: points,
			}
			order = append(order, s.ID)
		}
	}
	return aux, order, nil
}

func countFilled(before, after []series.PriceObservation) int {
	n := 0
	for i := range before {
		if math.IsNaN(before[i].Value) && !math.IsNaN(after[i].Value) {
			n++
		}
	}
	return n
}
