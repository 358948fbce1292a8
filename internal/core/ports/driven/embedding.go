package driven

import "context"

// EmbeddingService maps text to a vector. Chunks and questions must be
// embedded by the same model, or similarity scores are meaningless.
type EmbeddingService interface {
	// Embed returns the vector for text. Every vector from one model has
	// the same length.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName identifies the model.
	ModelName() string

	// Ping fails when the server is down or the model is not installed.
	Ping(ctx context.Context) error

	Close() error
}
