// Package docx extracts text from Office Open XML word processing files.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

const documentEntry = "word/document.xml"

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// Parser handles DOCX documents.
type Parser struct {
	now func() time.Time
}

// New creates a new DOCX parser.
func New() *Parser {
	return &Parser{now: time.Now}
}

// Format returns the format this parser handles.
func (p *Parser) Format() domain.DocumentFormat {
	return domain.FormatDOCX
}

// Parse reads word/document.xml and splits it into pages at explicit and
// last-rendered page breaks.
func (p *Parser) Parse(ctx context.Context, path string) (*domain.ParsedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, path, err)
	}
	defer reader.Close()

	content, err := readEntry(&reader.Reader, documentEntry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, path, err)
	}

	pages, err := splitPages(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, path, err)
	}

	return domain.NewParsedDocument(uuid.New().String(), path, domain.FormatDOCX, pages, p.now()), nil
}

// readEntry returns the contents of a named zip entry.
func readEntry(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("missing %s", name)
}

// splitPages walks the document XML and returns the text of each page.
// A page break only closes a page that already has text, so a
// w:br page break followed by w:lastRenderedPageBreak counts once.
func splitPages(content []byte) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(string(content)))

	var (
		pages   []string
		current strings.Builder
		inText  bool
	)

	breakPage := func() {
		if strings.TrimSpace(current.String()) == "" {
			return
		}
		pages = append(pages, strings.TrimSpace(current.String()))
		current.Reset()
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteString("\t")
			case "cr":
				current.WriteString("\n")
			case "br":
				if attr(t, "type") == "page" {
					breakPage()
				} else {
					current.WriteString("\n")
				}
			case "lastRenderedPageBreak":
				breakPage()
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				current.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	last := strings.TrimSpace(current.String())
	if last != "" || len(pages) == 0 {
		pages = append(pages, last)
	}
	return pages, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
