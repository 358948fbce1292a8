// Package pdf extracts per-page text from PDF files using pdftotext.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// ToolName is the external binary used for extraction.
const ToolName = "pdftotext"

// pageSeparator is the form feed pdftotext emits after every page.
const pageSeparator = "\f"

// ErrPDFToolNotFound is returned when pdftotext is not on PATH.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// Ensure Parser implements the interface.
var _ driven.DocumentParser = (*Parser)(nil)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, ErrPDFToolNotFound
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Parser handles PDF documents.
type Parser struct {
	runner CommandRunner
	now    func() time.Time
}

// New creates a PDF parser that shells out to pdftotext.
func New() *Parser {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a PDF parser with a custom command runner.
func NewWithRunner(runner CommandRunner) *Parser {
	return &Parser{runner: runner, now: time.Now}
}

// Format returns the format this parser handles.
func (p *Parser) Format() domain.DocumentFormat {
	return domain.FormatPDF
}

// Parse extracts the text of every page in the file at path.
func (p *Parser) Parse(ctx context.Context, path string) (*domain.ParsedDocument, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	out, err := p.runner.Run(ctx, ToolName, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		if errors.Is(err, ErrPDFToolNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pdftotext %s: %w", path, err)
	}

	pages := SplitPages(string(out))
	return domain.NewParsedDocument(uuid.New().String(), path, domain.FormatPDF, pages, p.now()), nil
}

// SplitPages splits pdftotext output into page texts. The empty segment
// after the final form feed is dropped. Output with no form feed is a single
// page.
func SplitPages(out string) []string {
	pages := strings.Split(out, pageSeparator)
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}

// CheckAvailable returns ErrPDFToolNotFound if pdftotext is not installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(ToolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns a hint for installing pdftotext.
func InstallInstructions() string {
	return `PDF support requires pdftotext (from poppler).

  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils`
}
