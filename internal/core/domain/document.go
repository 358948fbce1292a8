package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentFormat identifies a supported document file format.
type DocumentFormat string

// Supported document formats.
const (
	// FormatPDF is a Portable Document Format file.
	FormatPDF DocumentFormat = "pdf"

	// FormatDOCX is an Office Open XML word processing document.
	FormatDOCX DocumentFormat = "docx"
)

// AllDocumentFormats returns every supported format.
func AllDocumentFormats() []DocumentFormat {
	return []DocumentFormat{FormatPDF, FormatDOCX}
}

// IsValid returns true if the format is recognised.
func (f DocumentFormat) IsValid() bool {
	switch f {
	case FormatPDF, FormatDOCX:
		return true
	default:
		return false
	}
}

// Extension returns the file extension including the leading dot.
func (f DocumentFormat) Extension() string {
	return "." + string(f)
}

// String returns the string representation.
func (f DocumentFormat) String() string {
	return string(f)
}

// FormatFromPath returns the document format for a file path based on its
// extension. The match is case-insensitive.
func FormatFromPath(path string) (DocumentFormat, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	f := DocumentFormat(ext)
	if !f.IsValid() {
		return "", false
	}
	return f, true
}

// Page is the extracted text of a single document page.
type Page struct {
	// PageNumber is 1-based.
	PageNumber int

	// Text is the raw page text.
	Text string
}

// ParsedDocument is the output of a document parser: an ordered list of
// pages plus summary statistics. It is immutable once produced and is
// discarded after chunking.
type ParsedDocument struct {
	// ID is the unique identifier for the document.
	ID string

	// FilePath is the absolute path the document was loaded from.
	FilePath string

	// FileName is the base name of FilePath.
	FileName string

	// Format is the parser variant that produced the document.
	Format DocumentFormat

	// Pages holds the page texts in page order.
	Pages []Page

	// TotalPages is the number of pages in the source file.
	TotalPages int

	// WordCount is the number of whitespace separated words across all pages.
	WordCount int

	// LoadedAt is when the document was parsed.
	LoadedAt time.Time
}

// Chunk is a contiguous, trimmed, bounded-length slice of one page.
// It is the unit of embedding and retrieval and is never mutated.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id"`

	// DocumentID links to the parent document.
	DocumentID string `json:"documentId"`

	// FileName is the source file name used in citations.
	FileName string `json:"fileName"`

	// FilePath is the source file path used in citations.
	FilePath string `json:"filePath"`

	// PageNumber is the single page the chunk was cut from.
	PageNumber int `json:"pageNumber"`

	// ChunkIndex increases monotonically across the whole document.
	ChunkIndex int `json:"chunkIndex"`

	// Text is the trimmed, non-empty chunk text.
	Text string `json:"text"`

	// TokenCount is a cheap estimate, not a tokenizer count.
	TokenCount int `json:"tokenCount"`
}

// EstimateTokens returns ceil(characters / 4).
func EstimateTokens(text string) int {
	n := len([]rune(text))
	return (n + 3) / 4
}

// RetrievedChunk is a chunk returned by a similarity query.
type RetrievedChunk struct {
	Chunk

	// Score is the similarity in the store's native range (higher = more relevant).
	Score float64 `json:"score"`
}

// FileInfo summarises a loaded document. It is derived from the vector
// store on every start and is never persisted on its own.
type FileInfo struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"filePath"`
	TotalPages int       `json:"totalPages"`
	WordCount  int       `json:"wordCount"`
	LoadedAt   time.Time `json:"loadedAt"`
	ChunkCount int       `json:"chunkCount"`
}

// CountWords returns the number of whitespace separated fields in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// NewParsedDocument builds a ParsedDocument from page texts in page order.
// Page numbers start at 1. Blank pages are kept so numbering matches the source.
func NewParsedDocument(id, path string, format DocumentFormat, pageTexts []string, loadedAt time.Time) *ParsedDocument {
	pages := make([]Page, len(pageTexts))
	words := 0
	for i, text := range pageTexts {
		pages[i] = Page{PageNumber: i + 1, Text: text}
		words += CountWords(text)
	}

	return &ParsedDocument{
		ID:         id,
		FilePath:   path,
		FileName:   filepath.Base(path),
		Format:     format,
		Pages:      pages,
		TotalPages: len(pages),
		WordCount:  words,
		LoadedAt:   loadedAt,
	}
}
