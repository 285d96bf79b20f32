package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry creates a Prometheus registry pre-loaded with the standard
// process and Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return registry
}

// Handler returns an HTTP handler serving the registry in the Prometheus
// exposition format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Metrics bundles all Atlas metric groups behind one registry.
type Metrics struct {
	// Compliance tracks document check outcomes.
	Compliance *ComplianceMetrics

	// Audit tracks re-evaluation sweeps.
	Audit *AuditMetrics

	registry *prometheus.Registry
}

// New creates and registers all metric groups on a fresh registry.
func New(namespace string) *Metrics {
	registry := NewRegistry()
	return &Metrics{
		Compliance: NewComplianceMetrics(namespace, registry),
		Audit:      NewAuditMetrics(namespace, registry),
		registry:   registry,
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return Handler(m.registry)
}
