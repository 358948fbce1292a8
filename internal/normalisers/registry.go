package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry maps document formats to parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers map[domain.DocumentFormat]driven.DocumentParser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[domain.DocumentFormat]driven.DocumentParser),
	}
}

// Register adds a parser. A later registration for the same format wins.
func (r *Registry) Register(p driven.DocumentParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.Format()] = p
}

// Get returns the parser for a format.
func (r *Registry) Get(format domain.DocumentFormat) (driven.DocumentParser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.parsers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedDocumentFormat, format)
	}
	return p, nil
}

// Has reports whether a parser is registered for the format.
func (r *Registry) Has(format domain.DocumentFormat) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.parsers[format]
	return ok
}

// Formats returns the registered formats in sorted order.
func (r *Registry) Formats() []domain.DocumentFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]domain.DocumentFormat, 0, len(r.parsers))
	for f := range r.parsers {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// Supports reports whether the path has an extension with a registered parser.
func (r *Registry) Supports(path string) bool {
	format, ok := domain.FormatFromPath(path)
	return ok && r.Has(format)
}

// Parse selects a parser from the path's extension and runs it.
func (r *Registry) Parse(ctx context.Context, path string) (*domain.ParsedDocument, error) {
	format, ok := domain.FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedDocumentFormat, filepath.Ext(path))
	}

	p, err := r.Get(format)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return p.Parse(ctx, abs)
}
