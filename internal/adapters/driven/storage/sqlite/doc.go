// Package sqlite provides the durable SQLite implementation of driven.VectorStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Each record holds the chunk embedding as
// a little-endian float32 BLOB and the chunk metadata as JSON.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.docvault/data/vector-index/index.db
//
// # Queries
//
// Similarity queries are an exact brute-force cosine scan over every record.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
