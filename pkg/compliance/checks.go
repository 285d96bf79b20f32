package compliance

import (
	"fmt"
	"sort"
	"time"
)

// bytesPerMB converts byte counts to megabytes for size messages.
const bytesPerMB = 1024 * 1024

// checkSize evaluates the document size against the policy limit.
// Exceeding twice the limit is critical, anything over the limit is high.
func (e *Engine) checkSize(sizeBytes int64) (*Issue, int) {
	max := e.policy.MaxFileSizeBytes
	if sizeBytes <= max {
		return nil, 0
	}

	severity := SeverityHigh
	deduction := 25
	if sizeBytes > 2*max {
		severity = SeverityCritical
		deduction = 40
	}

	return &Issue{
		Type:     IssueFileTooLarge,
		Severity: severity,
		Message: fmt.Sprintf("file size %.2f MB exceeds the maximum allowed %.2f MB",
			float64(sizeBytes)/bytesPerMB, float64(max)/bytesPerMB),
		Details: map[string]any{
			"actualSize": sizeBytes,
			"maxSize":    max,
		},
	}, deduction
}

// checkType evaluates the file extension against the allowed set.
//
// The deduction table for this check is its own (critical 50, high 30,
// otherwise 15) and intentionally differs from the other checks; unifying
// them would change observable scores.
func (e *Engine) checkType(filename string) (*Issue, int) {
	ext, ok := extensionOf(filename)
	if !ok {
		issue := &Issue{
			Type:     IssueDisallowedFileType,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("file %q has no extension and is not allowed", filename),
		}
		return issue, typeCheckDeduction(issue.Severity)
	}

	if e.policy.AllowedExtensions[ext] {
		return nil, 0
	}

	issue := &Issue{
		Type:     IssueDisallowedFileType,
		Severity: SeverityCritical,
		Message: fmt.Sprintf("file type %q is not allowed (allowed: %v)",
			ext, e.allowedExtensionList()),
		Details: map[string]any{
			"extension":         ext,
			"allowedExtensions": e.allowedExtensionList(),
		},
	}
	return issue, typeCheckDeduction(issue.Severity)
}

// typeCheckDeduction maps severity to deduction for the type check only.
func typeCheckDeduction(severity Severity) int {
	switch severity {
	case SeverityCritical:
		return 50
	case SeverityHigh:
		return 30
	default:
		return 15
	}
}

// checkMetadata evaluates required metadata fields. Absent metadata yields a
// single medium issue; present metadata yields an independent issue per
// missing field (category low, confidentiality medium).
func (e *Engine) checkMetadata(meta *Metadata) ([]Issue, int) {
	if meta == nil {
		issue := Issue{
			Type:     IssueMissingMetadata,
			Severity: SeverityMedium,
			Message:  "document has no metadata",
		}
		return []Issue{issue}, metadataDeduction(issue.Severity)
	}

	var issues []Issue
	deductions := 0

	if meta.Category == "" {
		issue := Issue{
			Type:     IssueMissingMetadata,
			Severity: SeverityLow,
			Message:  "document metadata is missing a category",
			Details:  map[string]any{"missingField": "category"},
		}
		issues = append(issues, issue)
		deductions += metadataDeduction(issue.Severity)
	}
	if meta.Confidentiality == "" {
		issue := Issue{
			Type:     IssueMissingMetadata,
			Severity: SeverityMedium,
			Message:  "document metadata is missing a confidentiality marking",
			Details:  map[string]any{"missingField": "confidentiality"},
		}
		issues = append(issues, issue)
		deductions += metadataDeduction(issue.Severity)
	}

	return issues, deductions
}

// metadataDeduction maps severity to deduction for metadata issues.
func metadataDeduction(severity Severity) int {
	if severity == SeverityHigh {
		return 10
	}
	return 5
}

// checkRetention evaluates a retention date against the reference clock.
// A past date (a full day or more) is critical; a date within the warning
// window is high; anything further out is clean.
func (e *Engine) checkRetention(retentionDate time.Time) (*Issue, int) {
	days := wholeDaysUntil(e.now(), retentionDate)

	switch {
	case days < 0:
		return &Issue{
			Type:     IssueExpiredDocument,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("document expired %d days ago", -days),
			Details: map[string]any{
				"retentionDate": retentionDate.Format(time.RFC3339),
				"daysExpired":   -days,
			},
		}, 30
	case days <= retentionWarningDays:
		return &Issue{
			Type:     IssueRetentionViolation,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("document retention period expires in %d days", days),
			Details: map[string]any{
				"retentionDate": retentionDate.Format(time.RFC3339),
				"daysRemaining": days,
			},
		}, 20
	}
	return nil, 0
}

// allowedExtensionList returns the allowed extensions sorted for stable
// message output.
func (e *Engine) allowedExtensionList() []string {
	list := make([]string, 0, len(e.policy.AllowedExtensions))
	for ext := range e.policy.AllowedExtensions {
		list = append(list, ext)
	}
	sort.Strings(list)
	return list
}
