// Package metrics provides Prometheus metrics export for review generation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter exports generation metrics in Prometheus format.
type Exporter struct {
	registry *prometheus.Registry

	generations     *prometheus.CounterVec
	generateLatency *prometheus.HistogramVec
	tokensUsed      *prometheus.CounterVec
	sinkFailures    prometheus.Counter
	catalogLookups  *prometheus.CounterVec
}

// Config configures the exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default metrics configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
}

// NewExporter creates a new Prometheus metrics exporter.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{registry: registry}

	e.generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewgen",
			Subsystem: "review",
			Name:      "generations_total",
			Help:      "Total number of review generation requests",
		},
		[]string{"language", "style", "status"},
	)

	e.generateLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewgen",
			Subsystem: "review",
			Name:      "generate_latency_seconds",
			Help:      "Review generation latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"language"},
	)

	e.tokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewgen",
			Subsystem: "review",
			Name:      "tokens_total",
			Help:      "Total estimated completion tokens consumed",
		},
		[]string{"language"},
	)

	e.sinkFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reviewgen",
			Subsystem: "usage",
			Name:      "sink_failures_total",
			Help:      "Total number of failed usage record deliveries",
		},
	)

	e.catalogLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewgen",
			Subsystem: "catalog",
			Name:      "lookups_total",
			Help:      "Total number of store catalog lookups",
		},
		[]string{"status"},
	)

	registry.MustRegister(
		e.generations,
		e.generateLatency,
		e.tokensUsed,
		e.sinkFailures,
		e.catalogLookups,
	)

	return e
}

// RecordGeneration records one generation attempt.
func (e *Exporter) RecordGeneration(language, style, status string, latency time.Duration, tokens int) {
	e.generations.WithLabelValues(language, style, status).Inc()
	e.generateLatency.WithLabelValues(language).Observe(latency.Seconds())
	if tokens > 0 {
		e.tokensUsed.WithLabelValues(language).Add(float64(tokens))
	}
}

// RecordSinkFailure records one failed usage delivery.
func (e *Exporter) RecordSinkFailure() {
	e.sinkFailures.Inc()
}

// RecordCatalogLookup records one store lookup by outcome.
func (e *Exporter) RecordCatalogLookup(status string) {
	e.catalogLookups.WithLabelValues(status).Inc()
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}
