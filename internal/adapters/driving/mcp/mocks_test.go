package mcp

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
)

// mockPipeline is a mock implementation of driving.PipelineService.
type mockPipeline struct {
	files   []domain.FileInfo
	result  domain.QueryResult
	err     error
	initErr error

	initCalls int
	question  string
	settings  domain.AppSettings
	removed   []string
}

func (m *mockPipeline) Initialize(_ context.Context, _ domain.AppSettings) error {
	m.initCalls++
	return m.initErr
}

func (m *mockPipeline) AddDocument(
	_ context.Context,
	doc *domain.ParsedDocument,
	_ domain.AppSettings,
) (domain.FileInfo, error) {
	return domain.FileInfo{ID: doc.ID}, m.err
}

func (m *mockPipeline) RemoveDocument(_ context.Context, id string) error {
	m.removed = append(m.removed, id)
	return m.err
}

func (m *mockPipeline) Query(_ context.Context, question string, settings domain.AppSettings) (domain.QueryResult, error) {
	m.question = question
	m.settings = settings
	return m.result, m.err
}

func (m *mockPipeline) ListDocuments() ([]domain.FileInfo, error) {
	return m.files, nil
}

// mockSettings is a mock implementation of driving.SettingsService.
type mockSettings struct {
	settings domain.AppSettings
}

func (m *mockSettings) Get() (domain.AppSettings, error) { return m.settings, nil }
func (m *mockSettings) Save(domain.AppSettings) error    { return nil }
func (m *mockSettings) Set(_, _ string) error            { return nil }
func (m *mockSettings) Reset() error                     { return nil }
func (m *mockSettings) GetDefaults() domain.AppSettings  { return domain.DefaultAppSettings() }
func (m *mockSettings) Keys() []string                   { return nil }

func (m *mockSettings) Value(domain.AppSettings, string) (string, error) { return "", nil }

func (m *mockSettings) Status(context.Context) (*domain.AIStatus, error) {
	return &domain.AIStatus{}, nil
}

// mockIngest is a mock implementation of driving.IngestService.
type mockIngest struct {
	results []driving.IngestResult
	err     error
	paths   []string
}

func (m *mockIngest) Expand(paths []string) ([]string, error) { return paths, nil }

func (m *mockIngest) AddFile(_ context.Context, path string) (domain.FileInfo, error) {
	return domain.FileInfo{FilePath: path}, nil
}

func (m *mockIngest) AddPaths(_ context.Context, paths []string) ([]driving.IngestResult, error) {
	m.paths = paths
	return m.results, m.err
}

func newTestPorts() (*Ports, *mockPipeline) {
	pipeline := &mockPipeline{}
	return &Ports{
		Pipeline: pipeline,
		Settings: &mockSettings{settings: domain.DefaultAppSettings()},
	}, pipeline
}
