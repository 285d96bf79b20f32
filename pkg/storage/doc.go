// Package storage provides the document, issue, and version stores backing
// the compliance engine's collaborators.
//
// # Storage Backends
//
// The package defines three narrow interfaces (DocumentStore, IssueStore,
// VersionStore), a combined Storage interface, and two implementations:
//
//   - SQLite: embedded database for single-node deployments
//   - Memory: in-memory maps for testing
//
// # Ownership
//
// The stores own record identity and timestamps: CreateIssues assigns each
// issue a UUID and creation time, matching the contract that the engine
// itself allocates no identity. Document metadata is stored as a nullable
// JSON column so "metadata absent" stays distinguishable from "metadata
// present but empty"; the two cases score differently.
//
// # Thread Safety
//
// Both backends are safe for concurrent use. The SQLite backend runs in WAL
// mode with a busy timeout; the memory backend is mutex-guarded and returns
// copies of stored records.
package storage
