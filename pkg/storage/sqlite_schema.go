package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the Atlas database schema.
const Schema = `
-- Document records table
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',

    -- Compliance metadata as a JSON object; NULL means absent
    metadata TEXT,

    -- Share link expiry; NULL means the link does not expire
    link_expires_at TIMESTAMP,

    compliance_score INTEGER NOT NULL DEFAULT 100,

    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

-- Compliance issue records table
CREATE TABLE IF NOT EXISTS issues (
    id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    type TEXT NOT NULL,
    severity TEXT NOT NULL,
    message TEXT NOT NULL,

    -- Diagnostic details as a JSON object
    details TEXT,

    status TEXT NOT NULL DEFAULT 'open',
    created_at TIMESTAMP NOT NULL,

    FOREIGN KEY (document_id) REFERENCES documents(id)
);

CREATE INDEX IF NOT EXISTS idx_issues_document_status ON issues(document_id, status);

-- Stored version records table
CREATE TABLE IF NOT EXISTS versions (
    id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    version_number INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL,

    FOREIGN KEY (document_id) REFERENCES documents(id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_versions_document_number
    ON versions(document_id, version_number);

-- Schema version tracking table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version if not already present.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion retrieves the recorded schema version.
const GetSchemaVersion = `SELECT version FROM schema_version ORDER BY version DESC LIMIT 1`
