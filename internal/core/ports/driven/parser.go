package driven

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// DocumentParser extracts paginated text from a document file.
// Each implementation handles exactly one domain.DocumentFormat.
type DocumentParser interface {
	// Format returns the format this parser handles.
	Format() domain.DocumentFormat

	// Parse reads the file at path and returns its pages.
	Parse(ctx context.Context, path string) (*domain.ParsedDocument, error)
}

// ParserRegistry selects a parser by file format.
type ParserRegistry interface {
	// Register adds a parser, replacing any parser for the same format.
	Register(parser DocumentParser)

	// Get returns the parser for a format.
	// Returns domain.ErrUnsupportedDocumentFormat if none is registered.
	Get(format domain.DocumentFormat) (DocumentParser, error)

	// Parse dispatches on the file extension of path.
	Parse(ctx context.Context, path string) (*domain.ParsedDocument, error)
}
