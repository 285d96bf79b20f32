package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AuditMetrics tracks metrics related to re-evaluation sweeps.
//
// Metrics:
//   - atlas_audit_sweeps_total: Total completed sweeps
//   - atlas_audit_documents_total: Documents examined across sweeps
//   - atlas_audit_new_issues_total: Issue records created across sweeps
//   - atlas_audit_sweep_duration_seconds: Sweep duration
type AuditMetrics struct {
	// Completed sweeps
	sweepsTotal prometheus.Counter

	// Documents examined
	documentsTotal prometheus.Counter

	// Issue records created
	newIssuesTotal prometheus.Counter

	// Sweep duration histogram
	sweepDuration prometheus.Histogram
}

// NewAuditMetrics creates and registers audit metrics with the provided
// registry.
func NewAuditMetrics(namespace string, registry *prometheus.Registry) *AuditMetrics {
	am := &AuditMetrics{
		sweepsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_sweeps_total",
				Help:      "Total number of completed re-evaluation sweeps",
			},
		),

		documentsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_documents_total",
				Help:      "Total number of documents examined by sweeps",
			},
		),

		newIssuesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_new_issues_total",
				Help:      "Total number of issue records created by sweeps",
			},
		),

		sweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "audit_sweep_duration_seconds",
				Help:      "Duration of re-evaluation sweeps in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
		),
	}

	registry.MustRegister(
		am.sweepsTotal,
		am.documentsTotal,
		am.newIssuesTotal,
		am.sweepDuration,
	)

	return am
}

// ObserveSweep records the outcome of one completed sweep.
func (am *AuditMetrics) ObserveSweep(documents, newIssues int, duration time.Duration) {
	am.sweepsTotal.Inc()
	am.documentsTotal.Add(float64(documents))
	am.newIssuesTotal.Add(float64(newIssues))
	am.sweepDuration.Observe(duration.Seconds())
}
