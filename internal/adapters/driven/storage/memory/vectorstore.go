package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/docvault/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is a non-durable in-memory implementation of driven.VectorStore.
// Records are lost when the process exits.
type VectorStore struct {
	mu      sync.RWMutex
	records map[string]driven.VectorRecord
	order   map[string]uint64
	seq     uint64
	closed  bool
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		records: make(map[string]driven.VectorRecord),
		order:   make(map[string]uint64),
	}
}

// Opener returns a driven.StoreOpener that always hands out store,
// ignoring the data directory. Reopening therefore keeps the records,
// which mirrors a durable store within one process.
func Opener(store *VectorStore) driven.StoreOpener {
	return func(string) (driven.VectorStore, error) {
		store.mu.Lock()
		store.closed = false
		store.mu.Unlock()
		return store, nil
	}
}

// Insert stores a copy of vector and meta under itemID.
func (s *VectorStore) Insert(_ context.Context, itemID string, vector []float32, meta domain.Chunk) error {
	if itemID == "" {
		return fmt.Errorf("%w: item id is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: store is closed", domain.ErrVectorStoreIO)
	}

	vec := make([]float32, len(vector))
	copy(vec, vector)
	s.records[itemID] = driven.VectorRecord{ItemID: itemID, Vector: vec, Metadata: meta}
	if _, ok := s.order[itemID]; !ok {
		s.seq++
		s.order[itemID] = s.seq
	}
	return nil
}

// Delete removes itemID if present.
func (s *VectorStore) Delete(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: store is closed", domain.ErrVectorStoreIO)
	}
	delete(s.records, itemID)
	delete(s.order, itemID)
	return nil
}

// ListAll returns every record in insertion order.
func (s *VectorStore) ListAll(_ context.Context) ([]driven.VectorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("%w: store is closed", domain.ErrVectorStoreIO)
	}

	records := make([]driven.VectorRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return s.order[records[i].ItemID] < s.order[records[j].ItemID]
	})
	return records, nil
}

// Query returns the k records most similar to vector.
func (s *VectorStore) Query(ctx context.Context, vector []float32, k int) ([]driven.VectorMatch, error) {
	records, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]driven.VectorMatch, 0, len(records))
	for _, r := range records {
		matches = append(matches, driven.VectorMatch{
			ItemID:   r.ItemID,
			Metadata: r.Metadata,
			Score:    similarity.Cosine(vector, r.Vector),
		})
	}
	return similarity.TopK(matches, k), nil
}

// Len returns the number of stored records.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close marks the store closed. Records are kept for a later Opener call.
func (s *VectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
