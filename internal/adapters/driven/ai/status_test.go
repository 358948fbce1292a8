package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

func TestStatus_OllamaRunning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"nomic-embed-text:latest"},{"name":"llama3.2:latest"}]}`))
	}))
	defer server.Close()

	settings := domain.DefaultAppSettings()
	settings.OllamaBaseURL = server.URL

	status, err := NewStatusChecker().Status(context.Background(), settings)

	require.NoError(t, err)
	assert.True(t, status.Running)
	assert.True(t, status.EmbedAvailable)
	assert.False(t, status.LLMAvailable)
	assert.False(t, status.Ready())
	assert.Equal(t, []string{"nomic-embed-text:latest", "llama3.2:latest"}, status.Models)
}

func TestStatus_OllamaDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	settings := domain.DefaultAppSettings()
	settings.OllamaBaseURL = url

	status, err := NewStatusChecker().Status(context.Background(), settings)

	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.NotEmpty(t, status.Error)
	assert.Empty(t, status.Models)
}

func TestStatus_OllamaBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	settings := domain.DefaultAppSettings()
	settings.OllamaBaseURL = server.URL

	status, err := NewStatusChecker().Status(context.Background(), settings)

	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.Contains(t, status.Error, "500")
}

func TestStatus_OpenAICompatible(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"id":"saul-instruct"},{"id":"nomic-embed-text"}]}`))
	}))
	defer server.Close()

	settings := domain.DefaultAppSettings()
	settings.Provider = domain.AIProviderOpenAICompatible
	settings.OllamaBaseURL = server.URL
	settings.APIKey = "secret"

	status, err := NewStatusChecker().Status(context.Background(), settings)

	require.NoError(t, err)
	assert.True(t, status.Ready())
}

func TestStatus_OpenAICompatibleUnauthorised(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth"}}`))
	}))
	defer server.Close()

	settings := domain.DefaultAppSettings()
	settings.Provider = domain.AIProviderOpenAICompatible
	settings.OllamaBaseURL = server.URL + "/v1/"

	status, err := NewStatusChecker().Status(context.Background(), settings)

	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.Contains(t, status.Error, "401")
}

func TestStatus_UnsupportedProvider(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Provider = "other"

	_, err := NewStatusChecker().Status(context.Background(), settings)

	assert.ErrorIs(t, err, domain.ErrUnsupportedProvider)
}
