// Package cache memoizes loaded snapshots keyed by the signature of their input
// files, with explicit invalidation.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/iwvelando/peso-dashboard/internal/loader"
	"github.com/iwvelando/peso-dashboard/pkg/series"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Source produces snapshots. *loader.Loader implements it.
type Source interface {
	Files() []string
	Load(ctx context.Context) (*series.Snapshot, error)
}

// Cache holds the last good snapshot of a Source.
type Cache struct {
	source  Source
	logger  *zap.Logger
	metrics *metrics

	group singleflight.Group

	mu      sync.RWMutex
	current *series.Snapshot
	stale   bool
	gen     uint64
}

// New returns an empty cache. Metrics are registered on reg when it is not nil.
func New(logger *zap.Logger, source Source, reg prometheus.Registerer) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := newMetrics()
	if reg != nil {
		if err := m.register(reg); err != nil {
			return nil, err
		}
	}
	return &Cache{source: source, logger: logger, metrics: m}, nil
}

// Get returns the cached snapshot when the input files are unchanged and the
// cache has not been invalidated, and loads a new one otherwise. A failed load
// is returned to the caller and leaves the previous snapshot in place.
func (c *Cache) Get(ctx context.Context) (*series.Snapshot, error) {
	sigs, err := loader.Stat(c.source.Files())
	if err != nil {
		c.metrics.failures.Inc()
		return nil, err
	}

	c.mu.RLock()
	current, stale := c.current, c.stale
	c.mu.RUnlock()

	if current != nil && !stale && loader.SameSignatures(current.Signatures, sigs) {
		c.metrics.hits.Inc()
		return current, nil
	}
	c.metrics.misses.Inc()

	v, err, _ := c.group.Do("load", func() (interface{}, error) {
		return c.reload(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*series.Snapshot), nil
}

func (c *Cache) reload(ctx context.Context) (*series.Snapshot, error) {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	start := time.Now()
	snap, err := c.source.Load(ctx)
	c.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.failures.Inc()
		c.logger.Error("failed to load datasets",
			zap.String("op", "cache.reload"),
			zap.Error(err),
		)
		return nil, err
	}

	c.mu.Lock()
	c.current = snap
	// An invalidation that raced with this load still applies.
	c.stale = c.gen != gen
	c.mu.Unlock()

	c.logger.Debug("snapshot cached",
		zap.String("op", "cache.reload"),
		zap.String("load_id", snap.ID.String()),
	)
	return snap, nil
}

// Invalidate forces the next Get to reload.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.gen++
	c.mu.Unlock()
	c.metrics.invalidations.Inc()
	c.logger.Info("cache invalidated", zap.String("op", "cache.Invalidate"))
}

// Current returns the cached snapshot without checking the inputs, or nil.
func (c *Cache) Current() *series.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}
