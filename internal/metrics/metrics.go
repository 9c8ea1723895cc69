// Package metrics exposes Prometheus instruments for the lookup endpoint.
//
// Instruments live in a private registry so tests can build as many
// Metrics values as they like. All methods are safe on a nil *Metrics,
// which is how the server runs when metrics are disabled.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "capi"

// Metrics holds the server's instruments.
type Metrics struct {
	registry *prometheus.Registry

	lookups  *prometheus.CounterVec
	duration prometheus.Histogram
	records  prometheus.Gauge
	apiKeys  prometheus.Gauge
}

// New creates and registers the instruments, plus the Go runtime and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Lookup requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Time spent serving lookup requests.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Records in the loaded dataset.",
		}),
		apiKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_keys",
			Help:      "API keys in the key ring.",
		}),
	}

	m.registry.MustRegister(
		m.lookups,
		m.duration,
		m.records,
		m.apiKeys,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveLookup counts one request and records how long it took.
func (m *Metrics) ObserveLookup(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// SetDataset publishes the sizes fixed at startup.
func (m *Metrics) SetDataset(records, apiKeys int) {
	if m == nil {
		return
	}
	m.records.Set(float64(records))
	m.apiKeys.Set(float64(apiKeys))
}

// Registry returns the registry the instruments are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
