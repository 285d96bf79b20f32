// Atlas is a compliance scoring engine for CRM-connected cloud drive
// documents.
//
// It evaluates document facts (filename, size, metadata, retention dates)
// against a configured compliance policy, producing weighted violations and a
// bounded 0-100 compliance score. It provides:
//   - Deterministic rule evaluation with a fixed check order
//   - Share-link expiry and version-count advisories
//   - Scheduled re-evaluation sweeps over stored documents
//   - SQLite-backed document and issue storage
//   - Prometheus metrics for checks and sweeps
//
// Usage:
//
//	# Start the HTTP server with default configuration
//	atlas run
//
//	# Start with a custom configuration file
//	atlas run --config /path/to/config.yaml
//
//	# Check a single document from the command line
//	atlas check --filename report.pdf --size 1048576
//
//	# Run a one-shot re-evaluation sweep
//	atlas reevaluate
//
//	# Show version information
//	atlas version
package main

func main() {
	Execute()
}
