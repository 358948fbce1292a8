// Package chunker splits parsed documents into overlapping fixed-size chunks.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Processor splits document pages into fixed-size chunks.
// Offsets are counted in characters, so multibyte text is never split
// inside a character.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.overlap = clampOverlap(p.chunkSize, p.overlap)

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process chunks doc with the processor's configured size and overlap.
// It stops early when ctx is cancelled.
func (p *Processor) Process(ctx context.Context, doc *domain.ParsedDocument) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Chunk(doc, p.chunkSize, p.overlap), nil
}

// Chunk splits every page of doc into windows of size characters, each
// starting overlap characters before the previous window ended.
//
// Pages are processed in order and never merged, so a chunk always belongs
// to exactly one page. Whitespace-only pages and windows are skipped.
// ChunkIndex increases by one for each emitted chunk across the whole document.
func Chunk(doc *domain.ParsedDocument, size, overlap int) []domain.Chunk {
	if doc == nil {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap = clampOverlap(size, overlap)

	var chunks []domain.Chunk
	index := 0

	for _, page := range doc.Pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}

		runes := []rune(page.Text)
		start := 0
		for start < len(runes) {
			end := start + size
			if end > len(runes) {
				end = len(runes)
			}

			text := strings.TrimSpace(string(runes[start:end]))
			if text != "" {
				chunks = append(chunks, domain.Chunk{
					ID:         uuid.New().String(),
					DocumentID: doc.ID,
					FileName:   doc.FileName,
					FilePath:   doc.FilePath,
					PageNumber: page.PageNumber,
					ChunkIndex: index,
					Text:       text,
					TokenCount: domain.EstimateTokens(text),
				})
				index++
			}

			if end >= len(runes) {
				break
			}

			start = end - overlap
			if start < 0 {
				start = 0
			}
		}
	}

	return chunks
}

// clampOverlap keeps overlap in [0, size) so every window advances.
func clampOverlap(size, overlap int) int {
	if overlap < 0 {
		return 0
	}
	if overlap >= size {
		return size / 4
	}
	return overlap
}
