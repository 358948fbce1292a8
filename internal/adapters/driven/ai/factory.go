// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"

	ollamaembed "github.com/custodia-labs/docvault/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docvault/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/docvault/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docvault/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.AIFactory = (*Factory)(nil)

// Factory builds embedding and LLM clients for the configured provider.
type Factory struct{}

// NewFactory creates a new AI service factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Embedding creates an embedding service from settings.
// Returns domain.ErrUnsupportedProvider for unknown providers.
func (f *Factory) Embedding(settings domain.AppSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.OllamaBaseURL,
			Model:   settings.EmbedModel,
			Timeout: settings.EmbedTimeout,
		}), nil

	case domain.AIProviderOpenAICompatible:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.OllamaBaseURL,
			Model:   settings.EmbedModel,
			Timeout: settings.EmbedTimeout,
		}), nil

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, settings.Provider)
	}
}

// LLM creates an LLM service from settings.
// Returns domain.ErrUnsupportedProvider for unknown providers.
func (f *Factory) LLM(settings domain.AppSettings) (driven.LLMService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.OllamaBaseURL,
			Model:   settings.LLMModel,
			Timeout: settings.GenerateTimeout,
		}), nil

	case domain.AIProviderOpenAICompatible:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.OllamaBaseURL,
			Model:   settings.LLMModel,
			Timeout: settings.GenerateTimeout,
		}), nil

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, settings.Provider)
	}
}
