package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docvault/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/docvault/internal/adapters/driven/openaicompat"
	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// statusTimeout is the maximum time to wait for the model listing.
const statusTimeout = 5 * time.Second

// Ensure StatusChecker implements the interface.
var _ driven.AIStatusChecker = (*StatusChecker)(nil)

// StatusChecker reports whether the inference server is up and has the
// configured models installed.
type StatusChecker struct {
	timeout time.Duration
}

// NewStatusChecker creates a status checker with a 5 second timeout.
func NewStatusChecker() *StatusChecker {
	return &StatusChecker{timeout: statusTimeout}
}

// Status lists the server's models and looks for the configured ones.
// Connection failures are reported through the returned status.
func (c *StatusChecker) Status(ctx context.Context, settings domain.AppSettings) (*domain.AIStatus, error) {
	status := &domain.AIStatus{
		Provider:   settings.Provider,
		BaseURL:    settings.OllamaBaseURL,
		LLMModel:   settings.LLMModel,
		EmbedModel: settings.EmbedModel,
		Models:     []string{},
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		models []string
		err    error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		models, err = ollamaapi.New(settings.OllamaBaseURL, c.timeout).Tags(ctx)
	case domain.AIProviderOpenAICompatible:
		models, err = c.openAIModels(ctx, settings)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, settings.Provider)
	}
	if err != nil {
		status.Error = err.Error()
		return status, nil
	}

	status.Running = true
	status.Models = models
	status.LLMAvailable = ollamaapi.HasModel(models, settings.LLMModel)
	status.EmbedAvailable = ollamaapi.HasModel(models, settings.EmbedModel)
	return status, nil
}

func (c *StatusChecker) openAIModels(ctx context.Context, settings domain.AppSettings) ([]string, error) {
	client := openaicompat.NewClient(openaicompat.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.OllamaBaseURL,
		Timeout: c.timeout,
	})

	list, err := client.ListModels(ctx)
	if err != nil {
		return nil, openaicompat.ParseAPIError("models", err)
	}

	models := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, m.ID)
	}
	return models, nil
}
