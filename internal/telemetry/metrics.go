package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CacheOpsTotal   *prometheus.CounterVec
	UpstreamErrors  *prometheus.CounterVec
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipengine_requests_total",
				Help: "Total number of requests by operation and status",
			},
			[]string{"operation", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shipengine_request_duration_seconds",
				Help:    "Request duration in seconds by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		CacheOpsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipengine_cache_ops_total",
				Help: "Cache lookups by domain (rates, validation, carriers) and result",
			},
			[]string{"domain", "result"},
		),
		UpstreamErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shipengine_upstream_errors_total",
				Help: "Upstream API errors by route",
			},
			[]string{"route"},
		),
	}
}

// RecordRequest records a request metric.
func (m *Metrics) RecordRequest(operation, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(operation, status).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(duration)
}

// RecordCache records a cache lookup outcome.
func (m *Metrics) RecordCache(domain, result string) {
	m.CacheOpsTotal.WithLabelValues(domain, result).Inc()
}

// RecordUpstreamError records an upstream API error.
func (m *Metrics) RecordUpstreamError(route string) {
	m.UpstreamErrors.WithLabelValues(route).Inc()
}
