package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"crmvault-hq/atlas/pkg/compliance"
	"crmvault-hq/atlas/pkg/storage"
	"crmvault-hq/atlas/pkg/telemetry/metrics"
)

// Stats summarizes one re-evaluation sweep.
type Stats struct {
	// Documents is the number of synced documents examined.
	Documents int

	// NewIssues is the total number of issue records created.
	NewIssues int

	// Skipped is the number of documents skipped because their stored
	// facts could not be evaluated.
	Skipped int

	// Duration is the wall-clock time the sweep took.
	Duration time.Duration
}

// Sweeper re-evaluates every synced document against the compliance policy.
//
// For each document it recomputes the document check, folds in the
// share-link and version-count checks, diffs the combined issues by type
// against the document's currently open issues, persists only net-new issue
// types, and overwrites the stored score with the document check's score.
// Link and version issues are surfaced as issue records but do not feed the
// persisted score.
type Sweeper struct {
	engine   *compliance.Engine
	docs     storage.DocumentStore
	issues   storage.IssueStore
	versions storage.VersionStore
	metrics  *metrics.AuditMetrics
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper. The metrics parameter may be nil.
func NewSweeper(engine *compliance.Engine, store storage.Storage, m *metrics.AuditMetrics) *Sweeper {
	return &Sweeper{
		engine:   engine,
		docs:     store,
		issues:   store,
		versions: store,
		metrics:  m,
		logger:   slog.Default().With("component", "audit.sweeper"),
	}
}

// Run executes one sweep over all synced documents.
//
// Documents are processed sequentially; a store failure aborts the sweep at
// the point of failure and already-applied updates are not rolled back, so
// re-running after a partial sweep is safe. The returned Stats cover the
// documents processed before any failure.
func (s *Sweeper) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	docs, err := s.docs.ListSynced(ctx)
	if err != nil {
		return stats, fmt.Errorf("list synced documents: %w", err)
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		created, err := s.sweepDocument(ctx, doc)
		if err != nil {
			if errors.Is(err, compliance.ErrInvalidInput) {
				// A document with malformed stored facts should not
				// poison the rest of the batch.
				s.logger.Warn("skipping document with invalid facts",
					"document_id", doc.ID,
					"error", err,
				)
				stats.Skipped++
				continue
			}
			stats.Duration = time.Since(start)
			return stats, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		stats.Documents++
		stats.NewIssues += created
	}

	stats.Duration = time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveSweep(stats.Documents, stats.NewIssues, stats.Duration)
	}
	s.logger.Info("compliance sweep completed",
		"documents", stats.Documents,
		"new_issues", stats.NewIssues,
		"skipped", stats.Skipped,
		"duration", stats.Duration,
	)
	return stats, nil
}

// sweepDocument re-evaluates one document and returns the number of issue
// records created.
func (s *Sweeper) sweepDocument(ctx context.Context, doc *storage.Document) (int, error) {
	result, err := s.engine.CheckDocument(doc.Filename, doc.SizeBytes, doc.Metadata)
	if err != nil {
		return 0, err
	}

	issues := result.Issues
	if linkIssue := s.engine.CheckLinkExpiry(doc.LinkExpiresAt); linkIssue != nil {
		issues = append(issues, *linkIssue)
	}

	count, err := s.versions.VersionCount(ctx, doc.ID)
	if err != nil {
		return 0, fmt.Errorf("version count: %w", err)
	}
	versionIssue, err := s.engine.CheckVersionCount(count, 0)
	if err != nil {
		return 0, err
	}
	if versionIssue != nil {
		issues = append(issues, *versionIssue)
	}

	open, err := s.issues.OpenIssues(ctx, doc.ID)
	if err != nil {
		return 0, fmt.Errorf("open issues: %w", err)
	}
	openTypes := make(map[compliance.IssueType]bool, len(open))
	for _, rec := range open {
		openTypes[rec.Type] = true
	}

	var newIssues []compliance.Issue
	for _, issue := range issues {
		if !openTypes[issue.Type] {
			newIssues = append(newIssues, issue)
		}
	}

	created, err := s.issues.CreateIssues(ctx, doc.ID, newIssues)
	if err != nil {
		return 0, fmt.Errorf("create issues: %w", err)
	}

	// The persisted score is the document check's score alone; link and
	// version issues are recorded but not deducted.
	if err := s.docs.UpdateScore(ctx, doc.ID, result.Score); err != nil {
		return 0, fmt.Errorf("update score: %w", err)
	}

	return len(created), nil
}
