package driven

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// AIFactory builds model clients from settings.
// The pipeline calls it on every Initialize whose AI settings changed.
type AIFactory interface {
	// Embedding returns an embedding client bound to settings.EmbedModel.
	Embedding(settings domain.AppSettings) (EmbeddingService, error)

	// LLM returns a generation client bound to settings.LLMModel.
	LLM(settings domain.AppSettings) (LLMService, error)
}

// AIStatusChecker reports on the local inference server.
type AIStatusChecker interface {
	// Status checks the server and looks up the configured models.
	// A server that cannot be reached is reported in the status, not as an error.
	Status(ctx context.Context, settings domain.AppSettings) (*domain.AIStatus, error)
}
