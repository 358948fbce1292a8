package normalisers

import (
	"github.com/custodia-labs/docvault/internal/normalisers/docx"
	"github.com/custodia-labs/docvault/internal/normalisers/pdf"
)

// RegisterDefaults registers a parser for every supported format.
func RegisterDefaults(r *Registry) {
	r.Register(pdf.New())
	r.Register(docx.New())
}

// DefaultRegistry returns a registry with the default parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
