package driven

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// VectorStore is a durable mapping from item id to (vector, chunk metadata)
// supporting cosine k-nearest-neighbour queries.
//
// Implementations must tolerate concurrent Insert, Delete and Query calls.
type VectorStore interface {
	// Insert stores a vector and its chunk metadata under itemID.
	// Inserting an existing itemID replaces the record.
	Insert(ctx context.Context, itemID string, vector []float32, meta domain.Chunk) error

	// Delete removes a record. Deleting a missing itemID is not an error.
	Delete(ctx context.Context, itemID string) error

	// ListAll returns every live record exactly once.
	ListAll(ctx context.Context) ([]VectorRecord, error)

	// Query returns at most k matches in descending cosine similarity.
	// An empty store yields an empty slice.
	Query(ctx context.Context, vector []float32, k int) ([]VectorMatch, error)

	// Close releases resources.
	Close() error
}

// VectorRecord is an indexed chunk as persisted by the store.
type VectorRecord struct {
	// ItemID is the store key.
	ItemID string

	// Vector is the chunk embedding.
	Vector []float32

	// Metadata is the chunk the vector was computed from.
	Metadata domain.Chunk
}

// VectorMatch is a single similarity query result.
type VectorMatch struct {
	// ItemID is the matched record.
	ItemID string

	// Metadata is the matched chunk.
	Metadata domain.Chunk

	// Score is the cosine similarity in [-1, 1].
	Score float64
}

// StoreOpener opens (or creates) a vector store under dataDir.
// An empty dataDir selects the implementation default.
// Opening an existing store must never erase data.
type StoreOpener func(dataDir string) (VectorStore, error)
