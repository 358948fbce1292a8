package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error

	name string
	args []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	return m.output, m.err
}

func writeFakePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o600))
	return path
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.DocumentParser = (*Parser)(nil)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, domain.FormatPDF, New().Format())
}

func TestNewWithRunner(t *testing.T) {
	runner := &mockRunner{}
	p := NewWithRunner(runner)
	require.NotNil(t, p)
	assert.Equal(t, runner, p.runner)
}

func TestParse_SplitsOnFormFeed(t *testing.T) {
	runner := &mockRunner{output: []byte("Page one text\fPage two has more words\f")}
	p := NewWithRunner(runner)
	path := writeFakePDF(t)

	doc, err := p.Parse(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "pdftotext", runner.name)
	assert.Contains(t, runner.args, "-layout")
	assert.Contains(t, runner.args, path)
	assert.Equal(t, "-", runner.args[len(runner.args)-1])

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "contract.pdf", doc.FileName)
	assert.Equal(t, domain.FormatPDF, doc.Format)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 2, doc.TotalPages)
	assert.Equal(t, 1, doc.Pages[0].PageNumber)
	assert.Equal(t, "Page one text", doc.Pages[0].Text)
	assert.Equal(t, 2, doc.Pages[1].PageNumber)
	assert.Equal(t, 8, doc.WordCount)
	assert.False(t, doc.LoadedAt.IsZero())
}

func TestParse_MissingFile(t *testing.T) {
	p := NewWithRunner(&mockRunner{})

	_, err := p.Parse(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParse_ToolNotFound(t *testing.T) {
	p := NewWithRunner(&mockRunner{err: ErrPDFToolNotFound})

	_, err := p.Parse(context.Background(), writeFakePDF(t))
	assert.ErrorIs(t, err, ErrPDFToolNotFound)
}

func TestParse_RunnerError(t *testing.T) {
	boom := errors.New("exit status 1")
	p := NewWithRunner(&mockRunner{err: boom})

	_, err := p.Parse(context.Background(), writeFakePDF(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pdftotext")
}

func TestSplitPages(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"no form feed", "single page", []string{"single page"}},
		{"trailing form feed dropped", "a\fb\f", []string{"a", "b"}},
		{"trailing whitespace after final feed dropped", "a\fb\f\n", []string{"a", "b"}},
		{"blank middle page kept", "a\f\fc\f", []string{"a", "", "c"}},
		{"empty output", "", []string{""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SplitPages(tc.input))
		})
	}
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

// Integration test - only runs if pdftotext is available.
func TestParse_Integration(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not available, skipping integration test")
	}
	t.Skip("integration test requires sample PDF file")
}
