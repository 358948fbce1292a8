package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService parses files from disk and adds them to the pipeline.
type IngestService struct {
	parsers  driven.ParserRegistry
	pipeline driving.PipelineService
	settings driving.SettingsService
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	parsers driven.ParserRegistry,
	pipeline driving.PipelineService,
	settings driving.SettingsService,
) *IngestService {
	return &IngestService{
		parsers:  parsers,
		pipeline: pipeline,
		settings: settings,
	}
}

// Expand resolves paths to supported document files. Directories are
// walked recursively; hidden entries and unsupported files inside them are
// skipped. An explicitly named unsupported file is an error. The result is
// de-duplicated and keeps argument order.
func (s *IngestService) Expand(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	add := func(p string) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}

		if !info.IsDir() {
			if _, ok := domain.FormatFromPath(path); !ok {
				return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedDocumentFormat, path)
			}
			add(path)
			continue
		}

		files, err := walkSupported(path)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}

	return out, nil
}

// walkSupported returns the supported files under dir in lexical order.
func walkSupported(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := domain.FormatFromPath(p); ok {
			files = append(files, p)
		} else {
			log.Debug("skipping unsupported file %s", p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// AddFile parses one file and adds it to the pipeline with current settings.
// A file whose path is already loaded keeps its document id.
func (s *IngestService) AddFile(ctx context.Context, path string) (domain.FileInfo, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return domain.FileInfo{}, err
	}
	if err := s.pipeline.Initialize(ctx, settings); err != nil {
		return domain.FileInfo{}, err
	}

	doc, err := s.parsers.Parse(ctx, path)
	if err != nil {
		return domain.FileInfo{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	// Re-adding a loaded file replaces it instead of loading a second copy.
	loaded, err := s.pipeline.ListDocuments()
	if err != nil {
		return domain.FileInfo{}, err
	}
	for _, f := range loaded {
		if f.FilePath == doc.FilePath {
			doc.ID = f.ID
			break
		}
	}

	return s.pipeline.AddDocument(ctx, doc, settings)
}

// AddPaths expands paths and adds every file. A failure on one file does
// not stop the rest; only expansion errors and cancellation are returned.
func (s *IngestService) AddPaths(ctx context.Context, paths []string) ([]driving.IngestResult, error) {
	files, err := s.Expand(paths)
	if err != nil {
		return nil, err
	}

	results := make([]driving.IngestResult, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		info, err := s.AddFile(ctx, f)
		if err != nil {
			log.Warn("add %s: %v", f, err)
		}
		results = append(results, driving.IngestResult{Path: f, File: info, Err: err})
	}
	return results, nil
}
