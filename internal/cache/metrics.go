package cache

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	failures      prometheus.Counter
	invalidations prometheus.Counter
	duration      prometheus.Histogram
}

func newMetrics() *metrics {
	return &metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peso_cache_hits_total",
			Help: "Snapshot requests served from the cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peso_cache_misses_total",
			Help: "Snapshot requests that required a load.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peso_load_failures_total",
			Help: "Load cycles aborted by an input error.",
		}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "peso_cache_invalidations_total",
			Help: "Explicit cache invalidations.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "peso_load_duration_seconds",
			Help:    "Duration of load cycles.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.hits, m.misses, m.failures, m.invalidations, m.duration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
