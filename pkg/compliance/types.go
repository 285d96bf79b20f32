package compliance

import "time"

// Severity represents the ordinal importance of a compliance issue.
// Severities are ordered: low < medium < high < critical.
type Severity string

const (
	// SeverityLow indicates a minor policy deviation.
	SeverityLow Severity = "low"

	// SeverityMedium indicates a policy deviation that should be addressed.
	SeverityMedium Severity = "medium"

	// SeverityHigh indicates a significant policy violation.
	SeverityHigh Severity = "high"

	// SeverityCritical indicates a violation that fails the document outright.
	SeverityCritical Severity = "critical"
)

// severityRank maps severities to their ordinal rank for comparisons.
var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the ordinal rank of the severity (low=0 .. critical=3).
// Unknown severities rank below low.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// Valid reports whether the severity is one of the defined values.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// IssueType identifies the kind of policy violation an issue reports.
type IssueType string

const (
	// IssueFileTooLarge indicates the document exceeds the size limit.
	IssueFileTooLarge IssueType = "file_too_large"

	// IssueDisallowedFileType indicates the file extension is not permitted.
	IssueDisallowedFileType IssueType = "disallowed_file_type"

	// IssueMissingMetadata indicates required metadata is absent.
	IssueMissingMetadata IssueType = "missing_metadata"

	// IssueExpiredDocument indicates the retention date has passed.
	IssueExpiredDocument IssueType = "expired_document"

	// IssueRetentionViolation indicates the retention date is imminent.
	IssueRetentionViolation IssueType = "retention_policy_violation"

	// IssueLinkExpired indicates the share link has expired or is about to.
	IssueLinkExpired IssueType = "link_expired"

	// IssueVersionLimitExceeded indicates too many stored versions.
	IssueVersionLimitExceeded IssueType = "version_limit_exceeded"
)

// Issue represents a single detected policy violation.
type Issue struct {
	// Type identifies the kind of violation.
	Type IssueType `json:"type"`

	// Severity is the ordinal importance of the violation.
	Severity Severity `json:"severity"`

	// Message is a human-readable explanation embedding the offending values.
	Message string `json:"message"`

	// Details contains optional diagnostic key/value pairs for structured
	// reporting. Not used for scoring.
	Details map[string]any `json:"details,omitempty"`
}

// Result is the outcome of evaluating a document against the policy.
// A fresh Result is computed per call and never retained by the engine.
type Result struct {
	// Passed is true iff no issue has severity critical.
	Passed bool `json:"passed"`

	// Issues lists detected violations in check evaluation order.
	Issues []Issue `json:"issues"`

	// Score is the compliance score in [0, 100]. It starts at 100 and is
	// reduced by each issue's deduction, never dropping below 0.
	Score int `json:"score"`
}

// Metadata contains the optional descriptive facts supplied with a document.
// All fields are optional; absent fields are treated as missing, never as errors.
type Metadata struct {
	// Category is the document's business category (e.g., "contracts").
	Category string `json:"category,omitempty"`

	// Confidentiality is the document's confidentiality marking
	// (e.g., "public", "internal", "restricted").
	Confidentiality string `json:"confidentiality,omitempty"`

	// RetentionDate is the date after which the document is considered
	// expired per policy. Nil means no retention date is set.
	RetentionDate *time.Time `json:"retention_date,omitempty"`
}

// Policy is the immutable rule configuration the engine evaluates against.
// It is loaded once at process start and shared read-only across calls.
type Policy struct {
	// MaxFileSizeBytes is the maximum permitted document size in bytes.
	MaxFileSizeBytes int64

	// AllowedExtensions is the set of permitted file extensions,
	// lower-cased, without a leading dot.
	AllowedExtensions map[string]bool

	// DefaultRetentionDays is the default retention period in days.
	// Informational; actual retention dates are supplied per document.
	DefaultRetentionDays int

	// MaxVersions is the default version-count limit used by
	// CheckVersionCount when no explicit limit is given.
	MaxVersions int
}

// NewPolicy builds a Policy from a size limit and an extension list.
// Extensions are normalized to lower case with any leading dot stripped.
func NewPolicy(maxFileSizeBytes int64, extensions []string, retentionDays int) Policy {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[normalizeExtension(ext)] = true
	}
	return Policy{
		MaxFileSizeBytes:     maxFileSizeBytes,
		AllowedExtensions:    allowed,
		DefaultRetentionDays: retentionDays,
		MaxVersions:          DefaultMaxVersions,
	}
}
