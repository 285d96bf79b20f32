package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"crmvault-hq/atlas/pkg/compliance"
	"crmvault-hq/atlas/pkg/storage"
)

// sweepReferenceTime is the fixed clock used by sweeper tests.
var sweepReferenceTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// newSweepEngine creates an engine with a 10 MB limit and a fixed clock.
func newSweepEngine(t *testing.T) *compliance.Engine {
	t.Helper()

	policy := compliance.NewPolicy(10*1024*1024, []string{"pdf", "docx"}, 365)
	engine, err := compliance.New(policy,
		compliance.WithClock(func() time.Time { return sweepReferenceTime }))
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return engine
}

// seedDocument stores a synced document.
func seedDocument(t *testing.T, store storage.Storage, doc *storage.Document) {
	t.Helper()

	if doc.Status == "" {
		doc.Status = storage.StatusSynced
	}
	if err := store.PutDocument(context.Background(), doc); err != nil {
		t.Fatalf("failed to seed document %s: %v", doc.ID, err)
	}
}

// TestSweeper_Run tests a basic sweep over clean and violating documents.
func TestSweeper_Run(t *testing.T) {
	store := storage.NewMemoryStorage()
	sweeper := NewSweeper(newSweepEngine(t), store, nil)
	ctx := context.Background()

	seedDocument(t, store, &storage.Document{
		ID: "clean", Filename: "report.pdf", SizeBytes: 1024,
		Metadata: &compliance.Metadata{Category: "contracts", Confidentiality: "internal"},
	})
	seedDocument(t, store, &storage.Document{
		ID: "dirty", Filename: "tool.exe", SizeBytes: 1024,
		Metadata: &compliance.Metadata{Category: "misc", Confidentiality: "internal"},
	})

	stats, err := sweeper.Run(ctx)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if stats.Documents != 2 {
		t.Errorf("expected 2 documents examined, got %d", stats.Documents)
	}
	if stats.NewIssues != 1 {
		t.Errorf("expected 1 new issue, got %d", stats.NewIssues)
	}

	open, err := store.OpenIssues(ctx, "dirty")
	if err != nil {
		t.Fatalf("failed to list issues: %v", err)
	}
	if len(open) != 1 || open[0].Type != compliance.IssueDisallowedFileType {
		t.Errorf("expected one disallowed_file_type issue, got %v", open)
	}

	clean, err := store.GetDocument(ctx, "clean")
	if err != nil {
		t.Fatalf("failed to get document: %v", err)
	}
	if clean.ComplianceScore != 100 {
		t.Errorf("expected clean score 100, got %d", clean.ComplianceScore)
	}

	dirty, err := store.GetDocument(ctx, "dirty")
	if err != nil {
		t.Fatalf("failed to get document: %v", err)
	}
	if dirty.ComplianceScore != 50 {
		t.Errorf("expected dirty score 50, got %d", dirty.ComplianceScore)
	}
}

// TestSweeper_NoDuplicateIssueTypes tests that re-running a sweep does not
// recreate issue types that are already open.
func TestSweeper_NoDuplicateIssueTypes(t *testing.T) {
	store := storage.NewMemoryStorage()
	sweeper := NewSweeper(newSweepEngine(t), store, nil)
	ctx := context.Background()

	seedDocument(t, store, &storage.Document{
		ID: "doc-1", Filename: "tool.exe", SizeBytes: 1024,
		Metadata: &compliance.Metadata{},
	})

	first, err := sweeper.Run(ctx)
	if err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}
	// Disallowed type plus two missing-metadata field issues.
	if first.NewIssues != 3 {
		t.Errorf("expected 3 new issues on first sweep, got %d", first.NewIssues)
	}

	second, err := sweeper.Run(ctx)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if second.NewIssues != 0 {
		t.Errorf("expected no new issues on second sweep, got %d", second.NewIssues)
	}

	open, err := store.OpenIssues(ctx, "doc-1")
	if err != nil {
		t.Fatalf("failed to list issues: %v", err)
	}
	if len(open) != 3 {
		t.Errorf("expected 3 open issues after two sweeps, got %d", len(open))
	}
}

// TestSweeper_ScoreExcludesLinkAndVersionIssues pins the known inconsistency:
// link and version issues are recorded as issue records but the persisted
// score reflects only the document check.
func TestSweeper_ScoreExcludesLinkAndVersionIssues(t *testing.T) {
	store := storage.NewMemoryStorage()
	sweeper := NewSweeper(newSweepEngine(t), store, nil)
	ctx := context.Background()

	expired := sweepReferenceTime.Add(-48 * time.Hour)
	seedDocument(t, store, &storage.Document{
		ID: "doc-1", Filename: "report.pdf", SizeBytes: 1024,
		Metadata:      &compliance.Metadata{Category: "contracts", Confidentiality: "internal"},
		LinkExpiresAt: &expired,
	})
	for i := 0; i < 51; i++ {
		if _, err := store.AddVersion(ctx, "doc-1"); err != nil {
			t.Fatalf("failed to add version: %v", err)
		}
	}

	stats, err := sweeper.Run(ctx)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if stats.NewIssues != 2 {
		t.Errorf("expected link and version issues, got %d new issues", stats.NewIssues)
	}

	open, err := store.OpenIssues(ctx, "doc-1")
	if err != nil {
		t.Fatalf("failed to list issues: %v", err)
	}
	types := make(map[compliance.IssueType]bool)
	for _, rec := range open {
		types[rec.Type] = true
	}
	if !types[compliance.IssueLinkExpired] || !types[compliance.IssueVersionLimitExceeded] {
		t.Errorf("expected link_expired and version_limit_exceeded issues, got %v", types)
	}

	// The clean document check scores 100; the recorded link and version
	// issues must not deduct from the persisted score.
	doc, err := store.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("failed to get document: %v", err)
	}
	if doc.ComplianceScore != 100 {
		t.Errorf("expected persisted score 100, got %d", doc.ComplianceScore)
	}
}

// TestSweeper_SkipsInvalidDocuments tests that a document with malformed
// stored facts is skipped without aborting the batch.
func TestSweeper_SkipsInvalidDocuments(t *testing.T) {
	store := storage.NewMemoryStorage()
	sweeper := NewSweeper(newSweepEngine(t), store, nil)
	ctx := context.Background()

	seedDocument(t, store, &storage.Document{
		ID: "bad", Filename: "corrupt.pdf", SizeBytes: -10,
	})
	seedDocument(t, store, &storage.Document{
		ID: "good", Filename: "report.pdf", SizeBytes: 1024,
		Metadata: &compliance.Metadata{Category: "contracts", Confidentiality: "internal"},
	})

	stats, err := sweeper.Run(ctx)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if stats.Documents != 1 || stats.Skipped != 1 {
		t.Errorf("expected 1 processed and 1 skipped, got %d/%d",
			stats.Documents, stats.Skipped)
	}
}

// failingIssueStore wraps a Storage and fails issue reads after a threshold,
// simulating a mid-batch store failure.
type failingIssueStore struct {
	storage.Storage
	failAfter int
	calls     int
}

func (f *failingIssueStore) OpenIssues(ctx context.Context, documentID string) ([]*storage.IssueRecord, error) {
	f.calls++
	if f.calls > f.failAfter {
		return nil, errors.New("store unavailable")
	}
	return f.Storage.OpenIssues(ctx, documentID)
}

// TestSweeper_AbortsOnStoreFailure tests that a store failure aborts the
// batch at the point of failure without rolling back applied updates.
func TestSweeper_AbortsOnStoreFailure(t *testing.T) {
	memory := storage.NewMemoryStorage()
	store := &failingIssueStore{Storage: memory, failAfter: 1}
	sweeper := NewSweeper(newSweepEngine(t), store, nil)
	ctx := context.Background()

	seedDocument(t, memory, &storage.Document{
		ID: "a-first", Filename: "tool.exe", SizeBytes: 1024,
		Metadata:  &compliance.Metadata{Category: "x", Confidentiality: "y"},
		CreatedAt: sweepReferenceTime,
	})
	seedDocument(t, memory, &storage.Document{
		ID: "b-second", Filename: "report.pdf", SizeBytes: 1024,
		Metadata:  &compliance.Metadata{Category: "x", Confidentiality: "y"},
		CreatedAt: sweepReferenceTime.Add(time.Minute),
	})

	stats, err := sweeper.Run(ctx)
	if err == nil {
		t.Fatal("expected sweep to fail")
	}
	if stats.Documents != 1 {
		t.Errorf("expected 1 document processed before failure, got %d", stats.Documents)
	}

	// The first document's updates stand.
	open, err := memory.OpenIssues(ctx, "a-first")
	if err != nil {
		t.Fatalf("failed to list issues: %v", err)
	}
	if len(open) != 1 {
		t.Errorf("expected the first document's issue to persist, got %d", len(open))
	}
}
