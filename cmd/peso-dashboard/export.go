package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/iwvelando/peso-dashboard/internal/config"
	"github.com/iwvelando/peso-dashboard/internal/export"
	"github.com/iwvelando/peso-dashboard/internal/loader"
	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/iwvelando/peso-dashboard/pkg/series"
	"github.com/iwvelando/peso-dashboard/pkg/validation"
	"go.uber.org/zap"
)

type exportCmd struct {
	start  string
	end    string
	format string
	out    string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the aligned series as CSV or XLSX" }
func (*exportCmd) Usage() string {
	return `export [-format csv|xlsx] [-o <file>] [-start YYYY-MM-DD] [-end YYYY-MM-DD]

  Writes one row per date with the primary value, its event label and every
  overlay series. Without -o the table is written to stdout. Without -start and
  -end every date is exported.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "first date of the range")
	f.StringVar(&c.end, "end", "", "last date of the range")
	f.StringVar(&c.format, "format", constants.OutputFormatCSV, "export format: csv, xlsx")
	f.StringVar(&c.out, "o", "", "output file (default: stdout)")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, logger, ok := setup(config.LoggingConfig{})
	if !ok {
		return subcommands.ExitFailure
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := validation.ValidateExportFormat(c.format); err != nil {
		logger.Error(err.Error(), zap.String("op", "main.export"))
		return subcommands.ExitUsageError
	}
	from, to, err := validation.ValidateDateRange(c.start, c.end)
	if err != nil {
		logger.Error("invalid date range", zap.String("op", "main.export"), zap.Error(err))
		return subcommands.ExitUsageError
	}

	snap, err := loader.New(logger, conf.Data).Load(ctx)
	if err != nil {
		logger.Error("failed to load datasets",
			zap.String("op", "main.export"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}

	if err := c.write(snap, from, to); err != nil {
		logger.Error("failed to export",
			zap.String("op", "main.export"),
			zap.String("file", c.out),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *exportCmd) write(snap *series.Snapshot, from, to datetime.Date) (err error) {
	var w io.Writer = os.Stdout
	if c.out != "" {
		f, createErr := os.Create(c.out)
		if createErr != nil {
			return fmt.Errorf("failed to create %s: %w", c.out, createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if c.format == constants.OutputFormatXLSX {
		return export.WriteXLSX(w, snap, from, to)
	}
	return export.WriteCSV(w, snap, from, to)
}
