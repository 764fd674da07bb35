package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the cache-through engine.
type Metrics struct {
	Requests         *prometheus.CounterVec   // labels: dataset, verdict={hit,miss}
	UpstreamFetches  *prometheus.CounterVec   // labels: dataset, outcome={success,empty,error}
	UpstreamDuration *prometheus.HistogramVec // labels: dataset
	RowsMerged       *prometheus.CounterVec   // labels: dataset
}

func newMetrics() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "esett_proxy",
			Name:      "requests_total",
			Help:      "Dataset requests by cache verdict.",
		}, []string{"dataset", "verdict"}),
		UpstreamFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "esett_proxy",
			Name:      "upstream_fetches_total",
			Help:      "Upstream eSett fetches by outcome.",
		}, []string{"dataset", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "esett_proxy",
			Name:      "upstream_fetch_duration_seconds",
			Help:      "Duration of upstream eSett fetches.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"dataset"}),
		RowsMerged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "esett_proxy",
			Name:      "rows_merged_total",
			Help:      "Rows handed to the conflict-skipping merge per dataset.",
		}, []string{"dataset"}),
	}
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.Requests, m.UpstreamFetches, m.UpstreamDuration, m.RowsMerged)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
