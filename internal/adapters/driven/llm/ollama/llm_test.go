package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	s := NewLLMService(LLMConfig{})

	assert.Equal(t, DefaultLLMModel, s.ModelName())
	assert.Equal(t, DefaultBaseURL, s.client.BaseURL())
	assert.Equal(t, DefaultLLMTimeout, s.client.Timeout())
}

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaapi.GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "saul-instruct", req.Model)
		assert.Equal(t, "prompt text", req.Prompt)
		assert.False(t, req.Stream)
		assert.Nil(t, req.Options)

		_, _ = w.Write([]byte(`{"response":"  The notice period is 30 days [1].\n","done":true}`))
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "saul-instruct"})

	answer, err := s.Generate(context.Background(), "prompt text", driven.GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, "The notice period is 30 days [1].", answer)
}

func TestGenerate_PassesOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaapi.GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Options)
		assert.Equal(t, 256, req.Options.NumPredict)
		assert.InDelta(t, 0.1, req.Options.Temperature, 1e-9)
		assert.Equal(t, []string{"\n\n"}, req.Options.Stop)

		_, _ = w.Write([]byte(`{"response":"ok","done":true}`))
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL})

	_, err := s.Generate(context.Background(), "p", driven.GenerateOptions{
		MaxTokens:   256,
		Temperature: 0.1,
		StopWords:   []string{"\n\n"},
	})

	require.NoError(t, err)
}

func TestGenerate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("out of memory"))
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL})

	_, err := s.Generate(context.Background(), "p", driven.GenerateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama error (status 500): out of memory")
}

func TestGenerate_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"response":"late"}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewLLMService(LLMConfig{BaseURL: server.URL})

	_, err := s.Generate(ctx, "p", driven.GenerateOptions{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestLLMPing_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL})

	err := s.Ping(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.NoError(t, s.Close())
}
