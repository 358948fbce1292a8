package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

type stubParser struct {
	format domain.DocumentFormat
	path   string
}

func (s *stubParser) Format() domain.DocumentFormat { return s.format }

func (s *stubParser) Parse(_ context.Context, path string) (*domain.ParsedDocument, error) {
	s.path = path
	return &domain.ParsedDocument{FilePath: path, Format: s.format}, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	p := &stubParser{format: domain.FormatPDF}
	r.Register(p)

	got, err := r.Get(domain.FormatPDF)
	require.NoError(t, err)
	assert.Same(t, p, got)
	assert.True(t, r.Has(domain.FormatPDF))
	assert.False(t, r.Has(domain.FormatDOCX))
}

func TestRegistry_GetUnknown(t *testing.T) {
	_, err := NewRegistry().Get(domain.FormatDOCX)
	assert.ErrorIs(t, err, domain.ErrUnsupportedDocumentFormat)
}

func TestRegistry_ParseDispatchesOnExtension(t *testing.T) {
	r := NewRegistry()
	pdfParser := &stubParser{format: domain.FormatPDF}
	docxParser := &stubParser{format: domain.FormatDOCX}
	r.Register(pdfParser)
	r.Register(docxParser)

	doc, err := r.Parse(context.Background(), "/tmp/Report.DOCX")
	require.NoError(t, err)
	assert.Equal(t, domain.FormatDOCX, doc.Format)
	assert.Equal(t, "/tmp/Report.DOCX", docxParser.path)
	assert.Empty(t, pdfParser.path)
}

func TestRegistry_ParseUnsupportedExtension(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Parse(context.Background(), "notes.txt")
	assert.ErrorIs(t, err, domain.ErrUnsupportedDocumentFormat)
}

func TestRegistry_ParseMakesPathAbsolute(t *testing.T) {
	r := NewRegistry()
	p := &stubParser{format: domain.FormatPDF}
	r.Register(p)

	_, err := r.Parse(context.Background(), "relative/file.pdf")
	require.NoError(t, err)
	assert.True(t, len(p.path) > 0 && p.path[0] == '/')
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []domain.DocumentFormat{domain.FormatDOCX, domain.FormatPDF}, r.Formats())
	assert.True(t, r.Supports("a.pdf"))
	assert.True(t, r.Supports("b.docx"))
	assert.False(t, r.Supports("c.doc"))
}
