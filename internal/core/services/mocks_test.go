package services

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

const fakeDims = 64

// bagOfWords is a deterministic stand-in for an embedding model: texts that
// share words point in similar directions.
func bagOfWords(text string) []float32 {
	vec := make([]float32, fakeDims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,?!:;\"'")
		if w == "" {
			continue
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%fakeDims]++
	}
	return vec
}

type mockEmbedder struct {
	failOn func(text string) bool
	err    error
	calls  atomic.Int32
	closed atomic.Bool
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	if m.failOn != nil && m.failOn(text) {
		return nil, errors.New("model overloaded")
	}
	return bagOfWords(text), nil
}

func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { m.closed.Store(true); return nil }

type mockLLM struct {
	mu      sync.Mutex
	answer  func(prompt string) string
	err     error
	prompts []string
	closed  atomic.Bool
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if m.answer != nil {
		return m.answer(prompt), nil
	}
	return "The answer is in the excerpts.", nil
}

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { m.closed.Store(true); return nil }

type mockFactory struct {
	embedder *mockEmbedder
	llm      *mockLLM
	err      error

	embedBuilds atomic.Int32
	llmBuilds   atomic.Int32
}

func newMockFactory() *mockFactory {
	return &mockFactory{embedder: &mockEmbedder{}, llm: &mockLLM{}}
}

func (f *mockFactory) Embedding(domain.AppSettings) (driven.EmbeddingService, error) {
	f.embedBuilds.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.embedder, nil
}

func (f *mockFactory) LLM(domain.AppSettings) (driven.LLMService, error) {
	f.llmBuilds.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.llm, nil
}

// faultyStore wraps a store and injects failures.
type faultyStore struct {
	driven.VectorStore
	queryErr  error
	deleteErr error
	listErr   error
}

func (s *faultyStore) Query(ctx context.Context, vector []float32, k int) ([]driven.VectorMatch, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.VectorStore.Query(ctx, vector, k)
}

func (s *faultyStore) Delete(ctx context.Context, itemID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.VectorStore.Delete(ctx, itemID)
}

func (s *faultyStore) ListAll(ctx context.Context) ([]driven.VectorRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.VectorStore.ListAll(ctx)
}

type mockPromptStore struct {
	prompts map[string]string
	err     error
	reloads int
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() { m.reloads++ }

type mockStatusChecker struct {
	status *domain.AIStatus
	got    domain.AppSettings
}

func (m *mockStatusChecker) Status(_ context.Context, settings domain.AppSettings) (*domain.AIStatus, error) {
	m.got = settings
	return m.status, nil
}
