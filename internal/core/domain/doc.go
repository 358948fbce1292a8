// Package domain defines the core business entities for docvault.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ParsedDocument: Paginated text produced by a document parser
//   - Chunk: A retrieval unit cut from a single page
//   - FileInfo: Per-document summary held by the registry
//   - Citation / QueryResult: Grounded answers returned to callers
//   - AppSettings: Model, chunking and retrieval configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
