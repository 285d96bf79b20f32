package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"crmvault-hq/atlas/pkg/compliance"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/atlas.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend. It initializes the
// database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// PutDocument inserts or replaces a document record.
func (s *SQLiteStorage) PutDocument(ctx context.Context, doc *Document) error {
	metadata, err := marshalMetadata(doc.Metadata)
	if err != nil {
		return NewStorageError("sqlite", "marshal_metadata", err)
	}

	now := time.Now().UTC()
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	query := `
		INSERT OR REPLACE INTO documents (
			id, filename, size_bytes, status, metadata,
			link_expires_at, compliance_score, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		doc.ID, doc.Filename, doc.SizeBytes, string(doc.Status), metadata,
		nullableTime(doc.LinkExpiresAt), doc.ComplianceScore, createdAt, now,
	)
	if err != nil {
		return NewStorageError("sqlite", "put_document", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *SQLiteStorage) GetDocument(ctx context.Context, id string) (*Document, error) {
	query := `
		SELECT id, filename, size_bytes, status, metadata,
		       link_expires_at, compliance_score, created_at, updated_at
		FROM documents WHERE id = ?
	`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "get_document", err)
	}
	return doc, nil
}

// ListSynced returns all documents in the synced state.
func (s *SQLiteStorage) ListSynced(ctx context.Context) ([]*Document, error) {
	query := `
		SELECT id, filename, size_bytes, status, metadata,
		       link_expires_at, compliance_score, created_at, updated_at
		FROM documents WHERE status = ? ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, string(StatusSynced))
	if err != nil {
		return nil, NewStorageError("sqlite", "list_synced", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan_document", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "list_synced", err)
	}
	return docs, nil
}

// UpdateScore overwrites the stored compliance score for a document.
func (s *SQLiteStorage) UpdateScore(ctx context.Context, id string, score int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE documents SET compliance_score = ?, updated_at = ? WHERE id = ?`,
		score, time.Now().UTC(), id,
	)
	if err != nil {
		return NewStorageError("sqlite", "update_score", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return NewStorageError("sqlite", "update_score", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// OpenIssues returns the currently open issues for a document.
func (s *SQLiteStorage) OpenIssues(ctx context.Context, documentID string) ([]*IssueRecord, error) {
	query := `
		SELECT id, document_id, type, severity, message, details, status, created_at
		FROM issues WHERE document_id = ? AND status = ? ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, documentID, string(IssueOpen))
	if err != nil {
		return nil, NewStorageError("sqlite", "open_issues", err)
	}
	defer rows.Close()

	var records []*IssueRecord
	for rows.Next() {
		var (
			rec     IssueRecord
			details sql.NullString
		)
		err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.Type, &rec.Severity,
			&rec.Message, &details, &rec.Status, &rec.CreatedAt)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan_issue", err)
		}
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &rec.Details); err != nil {
				return nil, NewStorageError("sqlite", "unmarshal_details", err)
			}
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "open_issues", err)
	}
	return records, nil
}

// CreateIssues persists new issue records for a document. The store assigns
// each record a UUID and creation timestamp.
func (s *SQLiteStorage) CreateIssues(ctx context.Context, documentID string, issues []compliance.Issue) ([]*IssueRecord, error) {
	if len(issues) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, NewStorageError("sqlite", "begin_tx", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO issues (id, document_id, type, severity, message, details, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC()
	records := make([]*IssueRecord, 0, len(issues))
	for _, issue := range issues {
		var details any
		if issue.Details != nil {
			data, err := json.Marshal(issue.Details)
			if err != nil {
				return nil, NewStorageError("sqlite", "marshal_details", err)
			}
			details = string(data)
		}

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
		_, err := tx.ExecContext(ctx, query,
			rec.ID, rec.DocumentID, string(rec.Type), string(rec.Severity),
			rec.Message, details, string(rec.Status), rec.CreatedAt,
		)
		if err != nil {
			return nil, NewStorageError("sqlite", "create_issue", err)
		}
		records = append(records, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, NewStorageError("sqlite", "commit", err)
	}
	return records, nil
}

// AddVersion records a new stored version for a document and returns the
// new version number.
func (s *SQLiteStorage) AddVersion(ctx context.Context, documentID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, NewStorageError("sqlite", "begin_tx", err)
	}
	defer tx.Rollback()

	var current sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT MAX(version_number) FROM versions WHERE document_id = ?`,
		documentID,
	).Scan(&current)
	if err != nil {
		return 0, NewStorageError("sqlite", "max_version", err)
	}

	next := int(current.Int64) + 1
	_, err = tx.ExecContext(ctx,
		`INSERT INTO versions (id, document_id, version_number, created_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), documentID, next, time.Now().UTC(),
	)
	if err != nil {
		return 0, NewStorageError("sqlite", "add_version", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, NewStorageError("sqlite", "commit", err)
	}
	return next, nil
}

// VersionCount returns the number of stored versions for a document.
func (s *SQLiteStorage) VersionCount(ctx context.Context, documentID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM versions WHERE document_id = ?`, documentID,
	).Scan(&count)
	if err != nil {
		return 0, NewStorageError("sqlite", "version_count", err)
	}
	return count, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for scanDocument.
type scanner interface {
	Scan(dest ...any) error
}

// scanDocument scans one document row.
func scanDocument(row scanner) (*Document, error) {
	var (
		doc           Document
		metadata      sql.NullString
		linkExpiresAt sql.NullTime
	)
	err := row.Scan(&doc.ID, &doc.Filename, &doc.SizeBytes, &doc.Status, &metadata,
		&linkExpiresAt, &doc.ComplianceScore, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if metadata.Valid && metadata.String != "" {
		var meta compliance.Metadata
		if err := json.Unmarshal([]byte(metadata.String), &meta); err != nil {
			return nil, err
		}
		doc.Metadata = &meta
	}
	if linkExpiresAt.Valid {
		t := linkExpiresAt.Time
		doc.LinkExpiresAt = &t
	}
	return &doc, nil
}

// marshalMetadata serializes metadata to JSON, mapping nil to SQL NULL so
// absent metadata stays distinguishable from empty metadata.
func marshalMetadata(meta *compliance.Metadata) (any, error) {
	if meta == nil {
		return nil, nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// nullableTime maps a nil time pointer to SQL NULL.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
