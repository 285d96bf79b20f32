package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crmvault-hq/atlas/pkg/compliance"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// StorageError wraps a backend failure with the backend name and operation.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %s: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// DocumentStatus represents a document's position in the sync lifecycle.
type DocumentStatus string

const (
	// StatusPending indicates the document has not been uploaded yet.
	StatusPending DocumentStatus = "pending"

	// StatusSynced indicates the document is uploaded and its attachment
	// replaced with a share link. Only synced documents are re-evaluated.
	StatusSynced DocumentStatus = "synced"

	// StatusFailed indicates the upload failed.
	StatusFailed DocumentStatus = "failed"
)

// Document is a stored document record: the CRM attachment's identifying
// facts plus the sync state Atlas tracks for it.
type Document struct {
	// ID is the document's unique identifier.
	ID string

	// Filename is the original attachment filename.
	Filename string

	// SizeBytes is the attachment size in bytes.
	SizeBytes int64

	// Status is the sync lifecycle state.
	Status DocumentStatus

	// Metadata is the document's optional compliance metadata.
	// Nil means no metadata was supplied.
	Metadata *compliance.Metadata

	// LinkExpiresAt is when the share link expires. Nil means the link
	// does not expire.
	LinkExpiresAt *time.Time

	// ComplianceScore is the most recently persisted compliance score.
	ComplianceScore int

	// CreatedAt is when the record was created.
	CreatedAt time.Time

	// UpdatedAt is when the record was last modified.
	UpdatedAt time.Time
}

// IssueStatus represents an issue record's lifecycle state.
type IssueStatus string

const (
	// IssueOpen indicates the issue has not been addressed.
	IssueOpen IssueStatus = "open"

	// IssueResolved indicates the issue has been addressed.
	IssueResolved IssueStatus = "resolved"
)

// IssueRecord is a persisted compliance issue. The store assigns the ID and
// creation timestamp; the engine only supplies the issue fields.
type IssueRecord struct {
	// ID is the store-assigned unique identifier.
	ID string

	// DocumentID is the document the issue belongs to.
	DocumentID string

	// Type identifies the kind of violation.
	Type compliance.IssueType

	// Severity is the ordinal importance of the violation.
	Severity compliance.Severity

	// Message is the human-readable explanation.
	Message string

	// Details contains optional diagnostic key/value pairs.
	Details map[string]any

	// Status is the issue lifecycle state.
	Status IssueStatus

	// CreatedAt is the store-assigned creation timestamp.
	CreatedAt time.Time
}

// DocumentStore supplies candidate documents and accepts score updates.
type DocumentStore interface {
	// PutDocument inserts or replaces a document record.
	PutDocument(ctx context.Context, doc *Document) error

	// GetDocument retrieves a document by ID. Returns ErrNotFound when
	// no such document exists.
	GetDocument(ctx context.Context, id string) (*Document, error)

	// ListSynced returns all documents in the synced state.
	ListSynced(ctx context.Context) ([]*Document, error)

	// UpdateScore overwrites the stored compliance score for a document.
	UpdateScore(ctx context.Context, id string, score int) error
}

// IssueStore supplies open issues per document and accepts new issue records.
type IssueStore interface {
	// OpenIssues returns the currently open issues for a document.
	OpenIssues(ctx context.Context, documentID string) ([]*IssueRecord, error)

	// CreateIssues persists new issue records for a document, assigning
	// each a unique ID and creation timestamp. Returns the created
	// records in input order.
	CreateIssues(ctx context.Context, documentID string, issues []compliance.Issue) ([]*IssueRecord, error)
}

// VersionStore supplies a version count per document.
type VersionStore interface {
	// AddVersion records a new stored version for a document and returns
	// the new version number.
	AddVersion(ctx context.Context, documentID string) (int, error)

	// VersionCount returns the number of stored versions for a document.
	VersionCount(ctx context.Context, documentID string) (int, error)
}

// Storage combines the three store interfaces behind one backend.
type Storage interface {
	DocumentStore
	IssueStore
	VersionStore

	// Close releases backend resources.
	Close() error
}
