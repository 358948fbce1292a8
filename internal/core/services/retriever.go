package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// NoExcerptsContext is the context sent to the model when retrieval found nothing.
const NoExcerptsContext = "No relevant document excerpts were found."

// contextDelimiter separates excerpts in the rendered context.
const contextDelimiter = "\n\n---\n\n"

// Retriever embeds a question and fetches the most similar chunks.
type Retriever struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	timeout  time.Duration
}

// NewRetriever creates a retriever. A zero timeout leaves the embed call
// bounded only by ctx.
func NewRetriever(embedder driven.EmbeddingService, store driven.VectorStore, timeout time.Duration) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		timeout:  timeout,
	}
}

// Retrieve returns at most topK chunks in descending score order. A topK
// below one retrieves nothing. Embedding failures wrap domain.ErrEmbeddingFailed and store failures wrap
// domain.ErrVectorStoreIO. Neither is downgraded to an empty result.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int) ([]domain.RetrievedChunk, error) {
	if topK < 1 {
		return []domain.RetrievedChunk{}, nil
	}

	embedCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		embedCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	vec, err := r.embedder.Embed(embedCtx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %v", domain.ErrEmbeddingFailed, err)
	}

	matches, err := r.store.Query(ctx, vec, topK)
	if err != nil {
		if errors.Is(err, domain.ErrVectorStoreIO) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: query: %v", domain.ErrVectorStoreIO, err)
	}

	if len(matches) > topK {
		matches = matches[:topK]
	}

	retrieved := make([]domain.RetrievedChunk, 0, len(matches))
	for _, m := range matches {
		retrieved = append(retrieved, domain.RetrievedChunk{
			Chunk: m.Metadata,
			Score: m.Score,
		})
	}

	log.Debug("retrieved %d chunks (top_k=%d)", len(retrieved), topK)
	return retrieved, nil
}

// BuildContext renders retrieved chunks as numbered excerpts.
func BuildContext(chunks []domain.RetrievedChunk) string {
	if len(chunks) == 0 {
		return NoExcerptsContext
	}

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("[%d] File: %s | Page: %d\n%s", i+1, c.FileName, c.PageNumber, c.Text)
	}
	return strings.Join(parts, contextDelimiter)
}
