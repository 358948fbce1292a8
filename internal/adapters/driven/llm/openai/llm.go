// Package openai provides an LLM service adapter for local
// OpenAI-compatible inference servers.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/docvault/internal/adapters/driven/openaicompat"
	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/metrics"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultLLMModel   = domain.DefaultLLMModel
	DefaultLLMTimeout = domain.DefaultGenerateTimeout
)

var errNoChoices = errors.New("no completion choices returned")

// LLMConfig holds configuration for the LLM service.
type LLMConfig struct {
	// APIKey is sent as a bearer token when the server requires one.
	APIKey string

	// BaseURL is the server base URL, with or without /v1.
	BaseURL string

	// Model is the LLM model to use (default: saul-instruct).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService generates answers through the /v1/chat/completions endpoint.
type LLMService struct {
	client *openai.Client
	model  string
}

// NewLLMService creates a new OpenAI-compatible LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultOllamaBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client: openaicompat.NewClient(openaicompat.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}),
		model: cfg.Model,
	}
}

// Generate sends prompt as a single user message and returns the reply.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	defer metrics.ObserveGeneration(string(domain.AIProviderOpenAICompatible), s.model, time.Now())

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
		Stop:        opts.StopWords,
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", openaicompat.ParseAPIError("chat", err)
	}

	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the server is reachable by listing models.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", openaicompat.ParseAPIError("models", err))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
