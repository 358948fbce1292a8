package services

import (
	"sort"
	"time"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// indexedChunk is a chunk together with the store key it was inserted under.
type indexedChunk struct {
	itemID string
	chunk  domain.Chunk
}

// Registry is the in-memory projection of the vector store: which items
// belong to which document, and a FileInfo per document.
//
// Registry is not safe for concurrent use. The Pipeline guards it.
type Registry struct {
	chunks      map[string]domain.Chunk
	docChunkIDs map[string][]string
	files       map[string]domain.FileInfo
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		chunks:      make(map[string]domain.Chunk),
		docChunkIDs: make(map[string][]string),
		files:       make(map[string]domain.FileInfo),
	}
}

// Reconcile rebuilds document bookkeeping from persisted records.
// Documents first seen here get WordCount 0 and LoadedAt now, since
// neither is stored with the chunks. Records without a document id are
// skipped; the number skipped is returned.
func (r *Registry) Reconcile(records []driven.VectorRecord, now time.Time) int {
	skipped := 0

	for _, rec := range records {
		meta := rec.Metadata
		if meta.DocumentID == "" {
			log.Warn("skipping vector item %s: no document id", rec.ItemID)
			skipped++
			continue
		}

		r.chunks[rec.ItemID] = meta
		r.docChunkIDs[meta.DocumentID] = append(r.docChunkIDs[meta.DocumentID], rec.ItemID)

		info, ok := r.files[meta.DocumentID]
		if !ok {
			info = domain.FileInfo{
				ID:         meta.DocumentID,
				FileName:   meta.FileName,
				FilePath:   meta.FilePath,
				TotalPages: meta.PageNumber,
				WordCount:  0,
				LoadedAt:   now,
			}
		}
		info.ChunkCount++
		r.files[meta.DocumentID] = info
	}

	for _, rec := range records {
		meta := rec.Metadata
		info, ok := r.files[meta.DocumentID]
		if !ok {
			continue
		}
		if meta.PageNumber > info.TotalPages {
			info.TotalPages = meta.PageNumber
			r.files[meta.DocumentID] = info
		}
	}

	return skipped
}

// Carry copies the ingest-time statistics of documents that are still
// present from a previous registry. WordCount and LoadedAt are only known
// for documents added during this process.
func (r *Registry) Carry(prev *Registry) {
	if prev == nil {
		return
	}
	for id, info := range r.files {
		old, ok := prev.files[id]
		if !ok {
			continue
		}
		info.WordCount = old.WordCount
		info.LoadedAt = old.LoadedAt
		if old.TotalPages > info.TotalPages {
			info.TotalPages = old.TotalPages
		}
		r.files[id] = info
	}
}

// Add registers a document and the items indexed for it, and returns the
// item ids of any earlier registration it replaced. ChunkCount is set from items.
func (r *Registry) Add(info domain.FileInfo, items []indexedChunk) []string {
	replaced := r.docChunkIDs[info.ID]
	for _, id := range replaced {
		delete(r.chunks, id)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		r.chunks[it.itemID] = it.chunk
		ids = append(ids, it.itemID)
	}

	info.ChunkCount = len(ids)
	r.docChunkIDs[info.ID] = ids
	r.files[info.ID] = info
	return replaced
}

// Remove drops a document and returns the item ids that were recorded for it.
func (r *Registry) Remove(documentID string) ([]string, bool) {
	_, ok := r.files[documentID]
	ids := r.docChunkIDs[documentID]
	if !ok && len(ids) == 0 {
		return nil, false
	}

	for _, id := range ids {
		delete(r.chunks, id)
	}
	delete(r.docChunkIDs, documentID)
	delete(r.files, documentID)
	return ids, true
}

// Has reports whether a document is registered.
func (r *Registry) Has(documentID string) bool {
	_, ok := r.files[documentID]
	return ok
}

// File returns the FileInfo for a document.
func (r *Registry) File(documentID string) (domain.FileInfo, bool) {
	info, ok := r.files[documentID]
	return info, ok
}

// ItemIDs returns a copy of the item ids recorded for a document.
func (r *Registry) ItemIDs(documentID string) []string {
	ids := r.docChunkIDs[documentID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Chunk returns the chunk stored under an item id.
func (r *Registry) Chunk(itemID string) (domain.Chunk, bool) {
	c, ok := r.chunks[itemID]
	return c, ok
}

// Files returns every FileInfo ordered by LoadedAt, then FileName.
func (r *Registry) Files() []domain.FileInfo {
	files := make([]domain.FileInfo, 0, len(r.files))
	for _, info := range r.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool {
		if !files[i].LoadedAt.Equal(files[j].LoadedAt) {
			return files[i].LoadedAt.Before(files[j].LoadedAt)
		}
		if files[i].FileName != files[j].FileName {
			return files[i].FileName < files[j].FileName
		}
		return files[i].ID < files[j].ID
	})
	return files
}

// Len returns the number of registered documents.
func (r *Registry) Len() int {
	return len(r.files)
}
