package compliance

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// DefaultMaxVersions is the default version-count limit.
	DefaultMaxVersions = 50

	// retentionWarningDays is the window before a retention date during
	// which a retention_policy_violation issue is raised.
	retentionWarningDays = 30

	// linkWarningDays is the window before a share-link expiry during
	// which a link_expired warning is raised.
	linkWarningDays = 7
)

// Clock supplies the reference time for date-relative checks. Injecting the
// clock keeps retention and expiry evaluation deterministic under test.
type Clock func() time.Time

// Engine evaluates documents against an immutable compliance policy.
//
// The engine is purely functional over its inputs and the policy: it performs
// no I/O, holds no per-call state, and is safe for concurrent use. Identical
// inputs with the same reference time produce identical results.
type Engine struct {
	policy Policy
	now    Clock
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the reference clock used by date-relative checks.
// The default is time.Now.
func WithClock(clock Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// New creates an Engine for the given policy. The policy is validated once
// here; the engine never re-validates it per call.
func New(policy Policy, opts ...Option) (*Engine, error) {
	if policy.MaxFileSizeBytes <= 0 {
		return nil, fmt.Errorf("%w: max file size must be positive, got %d",
			ErrInvalidPolicy, policy.MaxFileSizeBytes)
	}
	if len(policy.AllowedExtensions) == 0 {
		return nil, fmt.Errorf("%w: allowed extension set must not be empty", ErrInvalidPolicy)
	}
	if policy.DefaultRetentionDays <= 0 {
		return nil, fmt.Errorf("%w: default retention days must be positive, got %d",
			ErrInvalidPolicy, policy.DefaultRetentionDays)
	}
	if policy.MaxVersions <= 0 {
		policy.MaxVersions = DefaultMaxVersions
	}

	e := &Engine{
		policy: policy,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Policy returns a copy of the engine's policy configuration.
func (e *Engine) Policy() Policy {
	return e.policy
}

// CheckDocument evaluates a document's facts against the policy and returns
// a fresh Result. Checks run in a fixed order (size, type, metadata,
// retention); issues accumulate in that order and each contributes its
// deduction to the score.
//
// Policy violations are results, never errors. An error is returned only for
// malformed input: an empty filename or a negative size.
func (e *Engine) CheckDocument(filename string, sizeBytes int64, meta *Metadata) (*Result, error) {
	if filename == "" {
		return nil, newInvalidInput("filename", filename, "must not be empty")
	}
	if sizeBytes < 0 {
		return nil, newInvalidInput("sizeBytes", sizeBytes, "must not be negative")
	}

	var issues []Issue
	deductions := 0

	if issue, deduction := e.checkSize(sizeBytes); issue != nil {
		issues = append(issues, *issue)
		deductions += deduction
	}
	if issue, deduction := e.checkType(filename); issue != nil {
		issues = append(issues, *issue)
		deductions += deduction
	}
	metaIssues, metaDeductions := e.checkMetadata(meta)
	issues = append(issues, metaIssues...)
	deductions += metaDeductions

	if meta != nil && meta.RetentionDate != nil {
		if issue, deduction := e.checkRetention(*meta.RetentionDate); issue != nil {
			issues = append(issues, *issue)
			deductions += deduction
		}
	}

	score := 100 - deductions
	if score < 0 {
		score = 0
	}

	return &Result{
		Passed: !hasCritical(issues),
		Issues: issues,
		Score:  score,
	}, nil
}

// CheckLinkExpiry evaluates a share link's expiry date. A nil expiry means
// the link does not expire and yields no issue.
//
// This check is invoked independently of CheckDocument: callers append the
// returned issue to a result's issue list and own any scoring impact.
func (e *Engine) CheckLinkExpiry(expiresAt *time.Time) *Issue {
	if expiresAt == nil {
		return nil
	}

	days := wholeDaysUntil(e.now(), *expiresAt)
	switch {
	case days < 0:
		return &Issue{
			Type:     IssueLinkExpired,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("share link expired %d days ago", -days),
			Details: map[string]any{
				"expiresAt":   expiresAt.Format(time.RFC3339),
				"daysExpired": -days,
			},
		}
	case days <= linkWarningDays:
		return &Issue{
			Type:     IssueLinkExpired,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("share link expires in %d days", days),
			Details: map[string]any{
				"expiresAt":     expiresAt.Format(time.RFC3339),
				"daysRemaining": days,
			},
		}
	}
	return nil
}

// CheckVersionCount evaluates a stored version count against a maximum.
// A max of 0 or less falls back to the policy's MaxVersions. The count is
// sourced from the version store collaborator, not computed here.
func (e *Engine) CheckVersionCount(count, max int) (*Issue, error) {
	if count < 0 {
		return nil, newInvalidInput("count", count, "must not be negative")
	}
	if max <= 0 {
		max = e.policy.MaxVersions
	}

	if count > max {
		return &Issue{
			Type:     IssueVersionLimitExceeded,
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("document has %d versions, exceeding the limit of %d", count, max),
			Details: map[string]any{
				"versionCount": count,
				"maxVersions":  max,
			},
		}, nil
	}
	return nil, nil
}

// hasCritical reports whether any issue has severity critical.
func hasCritical(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// wholeDaysUntil returns the whole number of days from now until t,
// flooring the difference. The result is negative once t is at least a
// full day in the past.
func wholeDaysUntil(now, t time.Time) int {
	return int(math.Floor(t.Sub(now).Hours() / 24))
}

// normalizeExtension lower-cases an extension and strips a leading dot.
func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// extensionOf extracts the extension from a filename as the lower-cased
// substring after the last dot. The second return value is false when the
// filename contains no dot at all.
func extensionOf(filename string) (string, bool) {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return "", false
	}
	return strings.ToLower(filename[idx+1:]), true
}
