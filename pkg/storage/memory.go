package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"crmvault-hq/atlas/pkg/compliance"
)

// MemoryStorage implements the Storage interface using in-memory maps.
// This implementation is intended for testing only.
type MemoryStorage struct {
	documents map[string]*Document
	issues    map[string][]*IssueRecord
	versions  map[string]int
	mu        sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		documents: make(map[string]*Document),
		issues:    make(map[string][]*IssueRecord),
		versions:  make(map[string]int),
	}
}

// PutDocument inserts or replaces a document record.
func (s *MemoryStorage) PutDocument(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docCopy := *doc
	now := time.Now().UTC()
	if docCopy.CreatedAt.IsZero() {
		docCopy.CreatedAt = now
	}
	docCopy.UpdatedAt = now
	s.documents[doc.ID] = &docCopy
	return nil
}

// GetDocument retrieves a document by ID.
func (s *MemoryStorage) GetDocument(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	docCopy := *doc
	return &docCopy, nil
}

// ListSynced returns all documents in the synced state, ordered by creation
// time for stable iteration.
func (s *MemoryStorage) ListSynced(ctx context.Context) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []*Document
	for _, doc := range s.documents {
		if doc.Status == StatusSynced {
			docCopy := *doc
			docs = append(docs, &docCopy)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
	return docs, nil
}

// UpdateScore overwrites the stored compliance score for a document.
func (s *MemoryStorage) UpdateScore(ctx context.Context, id string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return ErrNotFound
	}
	doc.ComplianceScore = score
	doc.UpdatedAt = time.Now().UTC()
	return nil
}

// OpenIssues returns the currently open issues for a document.
func (s *MemoryStorage) OpenIssues(ctx context.Context, documentID string) ([]*IssueRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*IssueRecord
	for _, rec := range s.issues[documentID] {
		if rec.Status == IssueOpen {
			recCopy := *rec
			records = append(records, &recCopy)
		}
	}
	return records, nil
}

// CreateIssues persists new issue records for a document.
func (s *MemoryStorage) CreateIssues(ctx context.Context, documentID string, issues []compliance.Issue) ([]*IssueRecord, error) {
	if len(issues) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	records := make([]*IssueRecord, 0, len(issues))
	for _, issue := range issues {
		rec := &IssueRecord{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			Type:       issue.Type,
			Severity:   issue.Severity,
			Message:    issue.Message,
			Details:    issue.Details,
			Status:     IssueOpen,
			CreatedAt:  now,
		}
		s.issues[documentID] = append(s.issues[documentID], rec)
		recCopy := *rec
		records = append(records, &recCopy)
	}
	return records, nil
}

// AddVersion records a new stored version for a document.
func (s *MemoryStorage) AddVersion(ctx context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions[documentID]++
	return s.versions[documentID], nil
}

// VersionCount returns the number of stored versions for a document.
func (s *MemoryStorage) VersionCount(ctx context.Context, documentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.versions[documentID], nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}
