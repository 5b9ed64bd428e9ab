package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/google/subcommands"
	"github.com/iwvelando/peso-dashboard/internal/config"
	"github.com/iwvelando/peso-dashboard/internal/loader"
	"github.com/iwvelando/peso-dashboard/pkg/series"
	"go.uber.org/zap"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate the configuration and every input file" }
func (*checkCmd) Usage() string {
	return `check

  Loads every configured dataset exactly as the server would and prints a
  summary per series. Exits non-zero on the first malformed cell, naming the
  file, row and column.
`
}

func (*checkCmd) SetFlags(*flag.FlagSet) {}

func (*checkCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, logger, ok := setup(config.LoggingConfig{})
	if !ok {
		return subcommands.ExitFailure
	}
	defer func() {
		_ = logger.Sync()
	}()

	snap, err := loader.New(logger, conf.Data).Load(ctx)
	if err != nil {
		fields := []zap.Field{zap.String("op", "main.check"), zap.Error(err)}
		var perr *loader.ParseError
		if errors.As(err, &perr) {
			fields = append(fields,
				zap.String("file", perr.File),
				zap.Int("row", perr.Row),
				zap.String("column", perr.Column),
				zap.String("text", perr.Text),
			)
		}
		logger.Error("input check failed", fields...)
		return subcommands.ExitFailure
	}

	writeCheckReport(os.Stdout, snap)
	return subcommands.ExitSuccess
}

func writeCheckReport(w io.Writer, snap *series.Snapshot) {
	var values, events int
	for _, row := range snap.Primary {
		if row.HasValue() {
			values++
		}
		if row.IsEvent() {
			events++
		}
	}
	fmt.Fprintf(w, "%-14s | %6d rows | %6d values | %4d events | %s\n",
		"USD_COP", len(snap.Primary), values, events, span(observationDates(snap.Primary)))

	for _, aux := range snap.Overlays() {
		var present int
		dates := make([]string, 0, len(aux.Points))
		for _, p := range aux.Points {
			if !math.IsNaN(p.Value) {
				present++
			}
			dates = append(dates, p.Date.String())
		}
		fmt.Fprintf(w, "%-14s | %6d rows | %6d values | %4s        | %s\n",
			aux.ID, len(aux.Points), present, "", span(dates))
	}
	fmt.Fprintf(w, "load %s OK\n", snap.ID)
}

func observationDates(rows []series.PriceObservation) []string {
	dates := make([]string, len(rows))
	for i, row := range rows {
		dates[i] = row.Date.String()
	}
	return dates
}

// span formats the first and last of sorted dates.
func span(dates []string) string {
	if len(dates) == 0 {
		return "empty"
	}
	return dates[0] + " .. " + dates[len(dates)-1]
}
