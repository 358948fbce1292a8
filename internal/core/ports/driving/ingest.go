package driving

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// IngestService loads files and folders from disk into the pipeline.
type IngestService interface {
	// Expand resolves paths to the supported document files they name.
	// Directories are walked and unsupported files inside them are skipped.
	// An explicitly named unsupported file is an error.
	Expand(paths []string) ([]string, error)

	// AddFile parses one file and adds it to the pipeline.
	AddFile(ctx context.Context, path string) (domain.FileInfo, error)

	// AddPaths expands paths and adds every file, reporting each outcome.
	AddPaths(ctx context.Context, paths []string) ([]IngestResult, error)
}

// IngestResult is the outcome of adding one file.
type IngestResult struct {
	// Path is the file that was processed.
	Path string

	// File is set on success.
	File domain.FileInfo

	// Err is set on failure.
	Err error
}
