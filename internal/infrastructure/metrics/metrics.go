package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all prometheus metrics for podium.
// uses a custom registry to avoid polluting the global namespace.
type Metrics struct {
	Registry *prometheus.Registry

	// http_request_duration_seconds - histogram for api latency
	HTTPRequestDuration *prometheus.HistogramVec

	// podium_queries_total - counter for ranking operations by backend
	QueriesTotal *prometheus.CounterVec

	// podium_seed_duration_seconds - histogram for bulk-load batches
	SeedBatchDuration prometheus.Histogram
}

// New creates and registers all prometheus metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	// add standard go runtime and process collectors
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "podium_queries_total",
				Help: "Total ranking operations served, by operation, backend and outcome",
			},
			[]string{"operation", "backend", "outcome"},
		),

		SeedBatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "podium_seed_batch_duration_seconds",
			Help:    "Duration of bulk-load batches in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~100s
		}),
	}

	// register all custom metrics
	reg.MustRegister(
		m.HTTPRequestDuration,
		m.QueriesTotal,
		m.SeedBatchDuration,
	)

	return m
}

// RecordHTTPRequest records the duration of an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, durationSeconds float64) {
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
}

// RecordQuery increments the ranking operation counter.
func (m *Metrics) RecordQuery(operation, backend, outcome string) {
	m.QueriesTotal.WithLabelValues(operation, backend, outcome).Inc()
}

// RecordSeedBatch records the duration of a bulk-load batch.
func (m *Metrics) RecordSeedBatch(durationSeconds float64) {
	m.SeedBatchDuration.Observe(durationSeconds)
}
