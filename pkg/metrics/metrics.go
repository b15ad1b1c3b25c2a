// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// WebhookEvents tracks inbound webhook outcomes by status and reason.
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Inbound webhook deliveries by outcome",
		},
		[]string{"status", "reason"},
	)

	// TurnDuration tracks end-to-end processing time of one turn.
	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "turn_duration_seconds",
			Help:    "End-to-end turn processing duration",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"event_type"},
	)

	// EmbeddingDuration tracks query embedding latency.
	EmbeddingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedding_duration_seconds",
			Help:    "Query embedding latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	// CatalogRefreshes counts catalog cache reloads.
	CatalogRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_refreshes_total",
			Help: "Catalog cache reloads",
		},
	)

	// CatalogEntries tracks the size of the catalog cache.
	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_entries",
			Help: "Entries in the catalog cache",
		},
	)

	// VehicleLookups counts plate lookups against the directory.
	VehicleLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vehicle_lookups_total",
			Help: "Plate lookups by result",
		},
		[]string{"result"},
	)

	// OutboundSends counts outbound gateway deliveries.
	OutboundSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_sends_total",
			Help: "Outbound message deliveries by result",
		},
		[]string{"result"},
	)

	// ReplyGenerations counts reply generation calls.
	ReplyGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reply_generations_total",
			Help: "Reply generation calls by result",
		},
		[]string{"result"},
	)
)

// RecordRequest records an HTTP request's metrics.
func RecordRequest(method, path, status string, durationSec float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSec)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}
