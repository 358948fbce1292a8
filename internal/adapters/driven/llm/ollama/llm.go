// Package ollama provides an LLM service adapter using Ollama.
package ollama

import (
	"context"
	"time"

	"github.com/custodia-labs/docvault/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/metrics"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = domain.DefaultOllamaBaseURL
	DefaultLLMModel   = domain.DefaultLLMModel
	DefaultLLMTimeout = domain.DefaultGenerateTimeout
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the generation model (default: saul-instruct).
	Model string

	// Timeout bounds one generation request (default: 120s).
	Timeout time.Duration
}

// LLMService answers prompts with a model served by Ollama.
type LLMService struct {
	client *ollamaapi.Client
	model  string
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client: ollamaapi.New(cfg.BaseURL, cfg.Timeout),
		model:  cfg.Model,
	}
}

// Generate produces a single non-streamed completion for prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	defer metrics.ObserveGeneration(string(domain.AIProviderOllama), s.model, time.Now())

	req := ollamaapi.GenerateRequest{
		Model:  s.model,
		Prompt: prompt,
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 || len(opts.StopWords) > 0 {
		req.Options = &ollamaapi.GenerateOptions{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			Stop:        opts.StopWords,
		}
	}
	return s.client.Generate(ctx, req)
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks that the server answers and has the model installed.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.client.CheckModel(ctx, s.model)
}

// Close releases idle connections.
func (s *LLMService) Close() error {
	s.client.Close()
	return nil
}
