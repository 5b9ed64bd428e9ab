package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/iwvelando/peso-dashboard/internal/cache"
	"github.com/iwvelando/peso-dashboard/internal/loader"
	"github.com/iwvelando/peso-dashboard/internal/server"
	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

type serveCmd struct {
	serverConfig string
	address      string
	watch        bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the dashboard web UI and API" }
func (*serveCmd) Usage() string {
	return `serve [-server-config <file>] [-address <host:port>] [-watch]

  Serves the dashboard. Datasets are loaded on the first request and reloaded
  whenever an input file changes or POST /api/cache/invalidate is called.
  -watch additionally invalidates the cache as soon as a file is written, and a
  refreshSchedule in the server configuration reloads on a cron schedule.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	f.StringVar(&c.address, "address", "", "listen address override")
	f.BoolVar(&c.watch, "watch", false, "invalidate the cache when input files change")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	srvCfg, err := server.LoadConfig(c.serverConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": %q}\n", c.serverConfig, err.Error())
		return subcommands.ExitFailure
	}
	if c.address != "" {
		srvCfg.Address = c.address
	}
	if c.watch {
		srvCfg.Watch = true
	}

	conf, logger, ok := setup(srvCfg.Logging)
	if !ok {
		return subcommands.ExitFailure
	}
	defer func() {
		_ = logger.Sync()
	}()

	viewStart, viewEnd, err := conf.ViewRange()
	if err != nil {
		logger.Error("invalid view range",
			zap.String("op", "main.serve"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := cache.New(logger, loader.New(logger, conf.Data), reg)
	if err != nil {
		logger.Error("failed to create cache",
			zap.String("op", "main.serve"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}

	// A failed warm-up is not fatal; requests answer 503 until the inputs are fixed.
	if _, err := store.Get(ctx); err != nil {
		logger.Warn("initial load failed",
			zap.String("op", "main.serve"),
			zap.Error(err),
		)
	}

	if srvCfg.Watch {
		go func() {
			if err := store.Watch(ctx); err != nil {
				logger.Error("file watcher stopped",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
			}
		}()
	}

	if srvCfg.RefreshSchedule != "" {
		go func() {
			if err := store.Refresh(ctx, srvCfg.RefreshSchedule); err != nil {
				logger.Error("scheduled refresh stopped",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
			}
		}()
	}

	handler := server.NewHandler(logger, store, server.Options{
		Version:         version,
		MaxOverlays:     srvCfg.MaxOverlays,
		ViewStart:       viewStart,
		ViewEnd:         viewEnd,
		Gatherer:        reg,
		InvalidateRate:  srvCfg.InvalidateRate,
		InvalidateBurst: srvCfg.InvalidateBurst,
	})

	if err := server.Run(ctx, logger, srvCfg, handler); err != nil {
		logger.Error("server failed",
			zap.String("op", "main.serve"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
