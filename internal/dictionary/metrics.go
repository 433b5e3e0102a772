package dictionary

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors for dictionary lookups.
type Metrics struct {
	lookups *prometheus.CounterVec
	latency prometheus.Histogram
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wordstop",
				Name:      "dictionary_lookups_total",
				Help:      "Dictionary lookups by result (exists, missing, error)",
			},
			[]string{"result"},
		),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wordstop",
			Name:      "dictionary_lookup_seconds",
			Help:      "Dictionary lookup latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.lookups, m.latency)
	return m
}

// Instrument wraps next so every call is counted and timed.
func (m *Metrics) Instrument(next Lookup) Lookup {
	return LookupFunc(func(ctx context.Context, word string) (bool, error) {
		start := time.Now()
		ok, err := next.Exists(ctx, word)
		m.latency.Observe(time.Since(start).Seconds())

		switch {
		case err != nil:
			m.lookups.WithLabelValues("error").Inc()
		case ok:
			m.lookups.WithLabelValues("exists").Inc()
		default:
			m.lookups.WithLabelValues("missing").Inc()
		}
		return ok, err
	})
}
