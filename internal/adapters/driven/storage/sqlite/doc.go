// Package sqlite provides a unified SQLite-based implementation of the
// storage ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. It implements multiple
// ports through a single database connection:
//
//   - DocumentStore: document and chunk persistence
//   - VectorIndex: embedding persistence and brute-force similarity search
//   - Committer: single-transaction ingest commits
//
// Because the document store and the vector index share one database, the
// ingest invariant (no orphaned vectors, no orphaned text) is enforced by a
// single transaction plus ON DELETE CASCADE, not by application-level
// cleanup.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and embedded at compile time.
//
// # Data Location
//
// By default, the database is stored at ~/.docsage/data/docsage.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
