package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orderledger"

// Metrics holds all Prometheus metrics. It satisfies usecase.Metrics.
type Metrics struct {
	// Entry metrics
	EntriesMutated      *prometheus.CounterVec
	BulkItems           *prometheus.CounterVec
	ImportRows          *prometheus.CounterVec
	Restores            *prometheus.CounterVec
	InterchangeSeconds  *prometheus.HistogramVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting and idempotency
	RateLimitHits      *prometheus.CounterVec
	IdempotencyReplays prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EntriesMutated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entries_mutated_total",
				Help:      "Ledger entries created, updated or deleted",
			},
			[]string{"operation"},
		),
		BulkItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bulk_items_total",
				Help:      "Items processed by bulk operations",
			},
			[]string{"operation", "outcome"},
		),
		ImportRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_rows_total",
				Help:      "CSV import rows by outcome",
			},
			[]string{"outcome"},
		),
		Restores: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "restores_total",
				Help:      "Backup restores by outcome",
			},
			[]string{"outcome"},
		),
		InterchangeSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "interchange_duration_seconds",
				Help:      "Duration of export, import, backup and restore",
				Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Requests rejected by the rate limiter",
			},
			[]string{"path"},
		),
		IdempotencyReplays: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "idempotency_replays_total",
				Help:      "Responses served from the idempotency store",
			},
		),
	}
}

func (m *Metrics) EntryMutated(operation string) {
	m.EntriesMutated.WithLabelValues(operation).Inc()
}

func (m *Metrics) BulkItem(operation, outcome string) {
	m.BulkItems.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ImportRow(outcome string) {
	m.ImportRows.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RestoreCompleted(outcome string) {
	m.Restores.WithLabelValues(outcome).Inc()
}

func (m *Metrics) InterchangeDuration(operation string, d time.Duration) {
	m.InterchangeSeconds.WithLabelValues(operation).Observe(d.Seconds())
}
