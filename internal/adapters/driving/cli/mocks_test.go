package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
)

// mockPipeline is a mock implementation of driving.PipelineService.
type mockPipeline struct {
	mu sync.Mutex

	files     []domain.FileInfo
	result    domain.QueryResult
	queryErr  error
	initErr   error
	removeErr error
	listErr   error

	initCalls int
	question  string
	settings  domain.AppSettings
	removed   []string
}

func (m *mockPipeline) Initialize(_ context.Context, settings domain.AppSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initCalls++
	m.settings = settings
	return m.initErr
}

func (m *mockPipeline) AddDocument(
	_ context.Context,
	doc *domain.ParsedDocument,
	_ domain.AppSettings,
) (domain.FileInfo, error) {
	return domain.FileInfo{ID: doc.ID}, nil
}

func (m *mockPipeline) RemoveDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, id)
	return m.removeErr
}

func (m *mockPipeline) Query(_ context.Context, question string, settings domain.AppSettings) (domain.QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.question = question
	m.settings = settings
	return m.result, m.queryErr
}

func (m *mockPipeline) ListDocuments() ([]domain.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files, m.listErr
}

// mockSettings is a mock implementation of driving.SettingsService.
type mockSettings struct {
	settings domain.AppSettings
	values   map[string]string
	keys     []string
	status   *domain.AIStatus
	setErr   error

	setKey, setValue string
	resetCalls       int
}

func newMockSettings() *mockSettings {
	return &mockSettings{
		settings: domain.DefaultAppSettings(),
		values:   map[string]string{},
	}
}

func (m *mockSettings) Get() (domain.AppSettings, error) { return m.settings, nil }
func (m *mockSettings) Save(domain.AppSettings) error    { return nil }
func (m *mockSettings) GetDefaults() domain.AppSettings  { return domain.DefaultAppSettings() }
func (m *mockSettings) Keys() []string                   { return m.keys }

func (m *mockSettings) Set(key, value string) error {
	m.setKey, m.setValue = key, value
	return m.setErr
}

func (m *mockSettings) Reset() error {
	m.resetCalls++
	return nil
}

func (m *mockSettings) Value(_ domain.AppSettings, key string) (string, error) {
	return m.values[key], nil
}

func (m *mockSettings) Status(context.Context) (*domain.AIStatus, error) {
	return m.status, nil
}

// mockIngest is a mock implementation of driving.IngestService.
type mockIngest struct {
	mu sync.Mutex

	results []driving.IngestResult
	err     error
	addErr  error

	paths []string
	added []string
}

func (m *mockIngest) Expand(paths []string) ([]string, error) { return paths, nil }

func (m *mockIngest) AddFile(_ context.Context, path string) (domain.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.added = append(m.added, path)
	if m.addErr != nil {
		return domain.FileInfo{}, m.addErr
	}
	return domain.FileInfo{ID: "doc-" + path, FilePath: path, FileName: path, TotalPages: 1, ChunkCount: 1}, nil
}

func (m *mockIngest) AddPaths(_ context.Context, paths []string) ([]driving.IngestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = paths
	return m.results, m.err
}

type testServices struct {
	pipeline *mockPipeline
	settings *mockSettings
	ingest   *mockIngest
}

func newTestServices() *testServices {
	return &testServices{
		pipeline: &mockPipeline{},
		settings: newMockSettings(),
		ingest:   &mockIngest{},
	}
}

// runCommand executes the root command with args against the mock services
// and returns everything written to stdout.
func runCommand(t *testing.T, svc *testServices, args ...string) (string, error) {
	t.Helper()

	SetServices(Services{Pipeline: svc.pipeline, Settings: svc.settings, Ingest: svc.ingest})
	listJSON, askJSON, statusJSON = false, false, false
	askTopK = 0

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		SetServices(Services{})
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}
