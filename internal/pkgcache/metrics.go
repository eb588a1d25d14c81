package pkgcache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Load results recorded by the loads counter.
const (
	resultOK            = "ok"
	resultContainsError = "contains_errors"
	resultNoSuchPackage = "no_such_package"
	resultCancelled     = "cancelled"
)

// Metrics instruments a Store.
type Metrics struct {
	loads     *prometheus.CounterVec
	cacheHits prometheus.Counter
	duration  prometheus.Histogram
	inFlight  prometheus.Gauge
}

// NewMetrics creates the store metrics and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "buildgraph",
			Subsystem: "package",
			Name:      "loads_total",
			Help:      "Package constructions by result.",
		}, []string{"result"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "buildgraph",
			Subsystem: "package",
			Name:      "cache_hits_total",
			Help:      "Package requests served without triggering a construction.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "buildgraph",
			Subsystem: "package",
			Name:      "load_duration_seconds",
			Help:      "Time spent constructing a package.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "buildgraph",
			Subsystem: "package",
			Name:      "loads_in_flight",
			Help:      "Package constructions currently running.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.loads, m.cacheHits, m.duration, m.inFlight)
	}
	return m
}

func (m *Metrics) observeLoad(result string, started time.Time) {
	m.loads.WithLabelValues(result).Inc()
	m.duration.Observe(time.Since(started).Seconds())
}
