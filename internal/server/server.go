// Package server serves the dashboard web UI and its JSON API.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/iwvelando/peso-dashboard/pkg/series"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

//go:embed static/*
var staticFiles embed.FS

// Store provides snapshots to the handler. *cache.Cache implements it.
type Store interface {
	Get(ctx context.Context) (*series.Snapshot, error)
	Invalidate()
}

// Options configures NewHandler. Zero values select the defaults.
type Options struct {
	Version     string
	MaxOverlays int
	ViewStart   datetime.Date
	ViewEnd     datetime.Date
	Gatherer    prometheus.Gatherer

	// InvalidateRate and InvalidateBurst throttle cache invalidation requests.
	InvalidateRate  float64
	InvalidateBurst int
}

type handler struct {
	logger   *zap.Logger
	store    Store
	validate *validator.Validate
	limiter  *rate.Limiter
	opts     Options
}

// NewHandler constructs the HTTP handler that serves the web UI and series API.
func NewHandler(logger *zap.Logger, store Store, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts.Version = strings.TrimSpace(opts.Version)
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.MaxOverlays <= 0 {
		opts.MaxOverlays = constants.DefaultMaxOverlays
	}
	if opts.ViewStart.IsZero() {
		opts.ViewStart = datetime.MustParseDate(constants.DefaultViewStart)
	}
	if opts.ViewEnd.IsZero() {
		opts.ViewEnd = datetime.MustParseDate(constants.DefaultViewEnd)
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.InvalidateRate <= 0 {
		opts.InvalidateRate = constants.DefaultInvalidateRate
	}
	if opts.InvalidateBurst <= 0 {
		opts.InvalidateBurst = constants.DefaultInvalidateBurst
	}

	h := &handler{
		logger:   logger,
		store:    store,
		validate: validator.New(),
		limiter:  rate.NewLimiter(rate.Limit(opts.InvalidateRate), opts.InvalidateBurst),
		opts:     opts,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/series", h.handleSeries)
		r.Get("/overlays", h.handleOverlays)
		r.Get("/export", h.handleExport)
		r.Post("/cache/invalidate", h.handleInvalidate)
		r.Get("/version", h.handleVersion)
	})

	r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	r.Handle("/*", http.FileServer(http.FS(sub)))

	return r
}

// Run serves handler on cfg.Address until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, logger *zap.Logger, cfg *Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeoutDuration(),
		ReadTimeout:       cfg.ReadTimeoutDuration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "server.Run"),
			zap.String("address", cfg.Address),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logger.Info("server stopped", zap.String("op", "server.Run"))
	return nil
}

func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request completed",
				zap.String("op", "server.request"),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}
