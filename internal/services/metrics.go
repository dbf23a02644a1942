package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Generator metrics
	GeneratorRequests *prometheus.CounterVec
	GeneratorErrors   *prometheus.CounterVec
	GeneratorLatency  prometheus.Histogram

	// Entity metrics
	EntitiesCreated *prometheus.CounterVec
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		// Generator calls by kind ("summarize" or "report")
		GeneratorRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "projectpulse_generator_requests_total",
			Help: "Total number of generator calls by kind",
		}, []string{"kind"}),

		// Generator errors by kind and type ("rate_limited", "upstream", "malformed")
		GeneratorErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "projectpulse_generator_errors_total",
			Help: "Total number of generator errors by kind and error type",
		}, []string{"kind", "error_type"}),

		// Generator latency histogram
		GeneratorLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "projectpulse_generator_duration_seconds",
			Help:    "Generator call latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}, // up to 2 minutes for LLM responses
		}),

		// Entities created by collection
		EntitiesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "projectpulse_entities_created_total",
			Help: "Total number of entities created by collection",
		}, []string{"collection"}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance (nil before InitMetrics)
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordGeneratorRequest increments the generator request counter
func (m *Metrics) RecordGeneratorRequest(kind string) {
	if m == nil {
		return
	}
	m.GeneratorRequests.WithLabelValues(kind).Inc()
}

// RecordGeneratorError increments the generator error counter
func (m *Metrics) RecordGeneratorError(kind, errorType string) {
	if m == nil {
		return
	}
	m.GeneratorErrors.WithLabelValues(kind, errorType).Inc()
}

// RecordGeneratorLatency records a generator call duration
func (m *Metrics) RecordGeneratorLatency(seconds float64) {
	if m == nil {
		return
	}
	m.GeneratorLatency.Observe(seconds)
}

// RecordEntityCreated increments the entity creation counter
func (m *Metrics) RecordEntityCreated(collection string) {
	if m == nil {
		return
	}
	m.EntitiesCreated.WithLabelValues(collection).Inc()
}
