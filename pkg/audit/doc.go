// Package audit implements the periodic bulk re-evaluation of synced
// documents.
//
// The Sweeper recomputes the compliance check for every synced document,
// folds in the share-link and version-count checks, and diffs against each
// document's currently open issues so the same violation is never recorded
// twice. There is no ordering or atomicity requirement across documents: a
// sweep aborted mid-batch leaves processed documents correctly updated, and
// re-running picks up where things stand.
//
// The Scheduler triggers sweeps on a cron expression and stops with its
// context.
package audit
