package driving

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// PipelineService is the retrieval-augmented generation pipeline.
// Every method other than Initialize returns domain.ErrNotInitialized
// until Initialize has succeeded once.
type PipelineService interface {
	// Initialize opens the vector store, builds the model clients and
	// rebuilds the document registry from persisted records.
	// Concurrent calls share one run; calling again with equal settings is a no-op.
	Initialize(ctx context.Context, settings domain.AppSettings) error

	// AddDocument chunks, embeds and indexes a parsed document.
	// Chunks that fail to embed or insert are skipped.
	AddDocument(ctx context.Context, doc *domain.ParsedDocument, settings domain.AppSettings) (domain.FileInfo, error)

	// RemoveDocument deletes every chunk of a document. Unknown ids are a no-op.
	RemoveDocument(ctx context.Context, documentID string) error

	// Query answers a question from the indexed documents.
	Query(ctx context.Context, question string, settings domain.AppSettings) (domain.QueryResult, error)

	// ListDocuments returns the loaded documents ordered by load time.
	ListDocuments() ([]domain.FileInfo, error)
}
