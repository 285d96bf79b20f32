package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"crmvault-hq/atlas/pkg/compliance"
)

// ComplianceMetrics tracks metrics related to document compliance checks.
//
// Metrics:
//   - atlas_compliance_checks_total: Total checks by pass/fail result
//   - atlas_compliance_issues_total: Detected issues by type and severity
//   - atlas_compliance_score: Distribution of computed scores
//   - atlas_compliance_check_duration_seconds: Check duration
type ComplianceMetrics struct {
	// Total document checks by result
	checksTotal *prometheus.CounterVec

	// Detected issues by type and severity
	issuesTotal *prometheus.CounterVec

	// Distribution of computed scores
	score prometheus.Histogram

	// Check duration histogram
	checkDuration prometheus.Histogram
}

// NewComplianceMetrics creates and registers compliance metrics with the
// provided registry.
func NewComplianceMetrics(namespace string, registry *prometheus.Registry) *ComplianceMetrics {
	cm := &ComplianceMetrics{
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compliance_checks_total",
				Help:      "Total number of document compliance checks",
			},
			[]string{"result"},
		),

		issuesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compliance_issues_total",
				Help:      "Total number of detected compliance issues",
			},
			[]string{"type", "severity"},
		),

		score: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compliance_score",
				Help:      "Distribution of computed compliance scores",
				Buckets:   prometheus.LinearBuckets(0, 10, 11), // 0 to 100
			},
		),

		checkDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compliance_check_duration_seconds",
				Help:      "Duration of document compliance checks in seconds",
				// Checks complete in microseconds
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 12),
			},
		),
	}

	registry.MustRegister(
		cm.checksTotal,
		cm.issuesTotal,
		cm.score,
		cm.checkDuration,
	)

	return cm
}

// ObserveCheck records the outcome of one document check.
func (cm *ComplianceMetrics) ObserveCheck(result *compliance.Result, duration time.Duration) {
	outcome := "passed"
	if !result.Passed {
		outcome = "failed"
	}
	cm.checksTotal.WithLabelValues(outcome).Inc()
	cm.score.Observe(float64(result.Score))
	cm.checkDuration.Observe(duration.Seconds())

	for _, issue := range result.Issues {
		cm.ObserveIssue(issue)
	}
}

// ObserveIssue records one detected issue.
func (cm *ComplianceMetrics) ObserveIssue(issue compliance.Issue) {
	cm.issuesTotal.WithLabelValues(string(issue.Type), string(issue.Severity)).Inc()
}
