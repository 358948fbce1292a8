package driven

import "context"

// LLMService turns a grounded prompt into an answer. Each call is
// independent: no streaming, no chat history.
type LLMService interface {
	// Generate returns the model's answer with surrounding whitespace trimmed.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName is the model answers come from.
	ModelName() string

	// Ping fails when the server is down or the model is not installed.
	Ping(ctx context.Context) error

	Close() error
}

// GenerateOptions are sampling parameters. Zero values leave the server's
// defaults in place.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
	StopWords   []string
}
