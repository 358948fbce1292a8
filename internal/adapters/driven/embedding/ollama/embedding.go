// Package ollama provides an embedding service adapter using Ollama.
package ollama

import (
	"context"
	"time"

	"github.com/custodia-labs/docvault/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/metrics"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = domain.DefaultOllamaBaseURL
	DefaultModel   = domain.DefaultEmbedModel
	DefaultTimeout = domain.DefaultEmbedTimeout
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: nomic-embed-text).
	Model string

	// Timeout bounds one embedding request (default: 30s).
	Timeout time.Duration
}

// EmbeddingService embeds text with a model served by Ollama.
type EmbeddingService struct {
	client *ollamaapi.Client
	model  string
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &EmbeddingService{
		client: ollamaapi.New(cfg.BaseURL, cfg.Timeout),
		model:  cfg.Model,
	}
}

// Embed returns the embedding of text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	defer metrics.ObserveEmbedding(string(domain.AIProviderOllama), s.model, time.Now())
	return s.client.Embeddings(ctx, s.model, text)
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks that the server answers and has the model installed.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.client.CheckModel(ctx, s.model)
}

// Close releases idle connections.
func (s *EmbeddingService) Close() error {
	s.client.Close()
	return nil
}
