package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies the local inference server flavour used for
// embeddings and generation.
type AIProvider string

// Available AI providers. Both run on the local machine.
const (
	// AIProviderOllama is a local Ollama instance using its native API.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAICompatible is a local server exposing the OpenAI
	// REST surface (llama.cpp server, LM Studio, Ollama's /v1).
	AIProviderOpenAICompatible AIProvider = "openai_compatible"
)

// AllAIProviders returns all available providers.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAICompatible}
}

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAICompatible:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAICompatible:
		return "OpenAI-compatible server (local)"
	default:
		return unknownDescription
	}
}

// Setting bounds.
const (
	MinChunkSize        = 100
	MaxChunkSize        = 2000
	MinChunkOverlap     = 0
	MaxChunkOverlap     = 200
	MinTopK             = 1
	MaxTopK             = 20
	MinEmbedConcurrency = 1
	MaxEmbedConcurrency = 16

	MinEmbedTimeout    = time.Second
	MaxEmbedTimeout    = 300 * time.Second
	MinGenerateTimeout = time.Second
	MaxGenerateTimeout = 600 * time.Second
)

// Default settings values.
const (
	DefaultLLMModel         = "saul-instruct"
	DefaultEmbedModel       = "nomic-embed-text"
	DefaultOllamaBaseURL    = "http://localhost:11434"
	DefaultChunkSize        = 500
	DefaultChunkOverlap     = 50
	DefaultTopK             = 5
	DefaultEmbedConcurrency = 4
	DefaultEmbedTimeout     = 30 * time.Second
	DefaultGenerateTimeout  = 120 * time.Second
)

// AppSettings holds the configuration consumed by the RAG pipeline.
type AppSettings struct {
	// Provider selects the inference server API flavour.
	Provider AIProvider

	// LLMModel is the generation model name.
	LLMModel string

	// EmbedModel is the embedding model name.
	EmbedModel string

	// OllamaBaseURL is the inference server endpoint.
	OllamaBaseURL string

	// APIKey is only sent to OpenAI-compatible servers that require a token.
	APIKey string

	// ChunkSize is the chunk window length in characters.
	ChunkSize int

	// ChunkOverlap is the number of characters shared by adjacent chunks.
	// Must be less than ChunkSize.
	ChunkOverlap int

	// TopK is the number of chunks retrieved per question.
	TopK int

	// EmbedConcurrency bounds parallel embedding calls during ingestion.
	EmbedConcurrency int

	// EmbedRatePerSecond limits embedding requests during ingestion.
	// Zero disables rate limiting.
	EmbedRatePerSecond float64

	// EmbedTimeout bounds a single embedding call.
	EmbedTimeout time.Duration

	// GenerateTimeout bounds a single generation call.
	GenerateTimeout time.Duration

	// DataDir is the root of the on-disk vector index.
	DataDir string
}

// DefaultAppSettings returns the default settings.
// DataDir is left empty; storage adapters resolve it to ~/.docvault/data.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Provider:         AIProviderOllama,
		LLMModel:         DefaultLLMModel,
		EmbedModel:       DefaultEmbedModel,
		OllamaBaseURL:    DefaultOllamaBaseURL,
		ChunkSize:        DefaultChunkSize,
		ChunkOverlap:     DefaultChunkOverlap,
		TopK:             DefaultTopK,
		EmbedConcurrency: DefaultEmbedConcurrency,
		EmbedTimeout:     DefaultEmbedTimeout,
		GenerateTimeout:  DefaultGenerateTimeout,
	}
}

// Validate checks every setting against its bounds.
// The returned error wraps ErrInvalidSettings.
func (s AppSettings) Validate() error {
	if !s.Provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidSettings, s.Provider)
	}
	if s.LLMModel == "" {
		return fmt.Errorf("%w: llm model is required", ErrInvalidSettings)
	}
	if s.EmbedModel == "" {
		return fmt.Errorf("%w: embedding model is required", ErrInvalidSettings)
	}
	if s.OllamaBaseURL == "" {
		return fmt.Errorf("%w: base url is required", ErrInvalidSettings)
	}
	if s.ChunkSize < MinChunkSize || s.ChunkSize > MaxChunkSize {
		return fmt.Errorf("%w: chunk size %d outside [%d, %d]",
			ErrInvalidSettings, s.ChunkSize, MinChunkSize, MaxChunkSize)
	}
	if s.ChunkOverlap < MinChunkOverlap || s.ChunkOverlap > MaxChunkOverlap {
		return fmt.Errorf("%w: chunk overlap %d outside [%d, %d]",
			ErrInvalidSettings, s.ChunkOverlap, MinChunkOverlap, MaxChunkOverlap)
	}
	if s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be less than chunk size %d",
			ErrInvalidSettings, s.ChunkOverlap, s.ChunkSize)
	}
	if s.TopK < MinTopK || s.TopK > MaxTopK {
		return fmt.Errorf("%w: top k %d outside [%d, %d]", ErrInvalidSettings, s.TopK, MinTopK, MaxTopK)
	}
	if s.EmbedConcurrency < MinEmbedConcurrency || s.EmbedConcurrency > MaxEmbedConcurrency {
		return fmt.Errorf("%w: embed concurrency %d outside [%d, %d]",
			ErrInvalidSettings, s.EmbedConcurrency, MinEmbedConcurrency, MaxEmbedConcurrency)
	}
	if s.EmbedRatePerSecond < 0 {
		return fmt.Errorf("%w: embed rate must not be negative", ErrInvalidSettings)
	}
	if s.EmbedTimeout < MinEmbedTimeout || s.EmbedTimeout > MaxEmbedTimeout {
		return fmt.Errorf("%w: embed timeout %s outside [%s, %s]",
			ErrInvalidSettings, s.EmbedTimeout, MinEmbedTimeout, MaxEmbedTimeout)
	}
	if s.GenerateTimeout < MinGenerateTimeout || s.GenerateTimeout > MaxGenerateTimeout {
		return fmt.Errorf("%w: generate timeout %s outside [%s, %s]",
			ErrInvalidSettings, s.GenerateTimeout, MinGenerateTimeout, MaxGenerateTimeout)
	}
	return nil
}

// VectorIndexDir returns the directory holding the vector index.
func (s AppSettings) VectorIndexDir() string {
	if s.DataDir == "" {
		return ""
	}
	return filepath.Join(s.DataDir, "vector-index")
}

// SameAIConfig reports whether two settings would build identical AI clients.
func (s AppSettings) SameAIConfig(o AppSettings) bool {
	return s.Provider == o.Provider &&
		s.LLMModel == o.LLMModel &&
		s.EmbedModel == o.EmbedModel &&
		s.OllamaBaseURL == o.OllamaBaseURL &&
		s.APIKey == o.APIKey &&
		s.EmbedTimeout == o.EmbedTimeout &&
		s.GenerateTimeout == o.GenerateTimeout
}
