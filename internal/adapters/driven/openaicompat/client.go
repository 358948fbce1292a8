// Package openaicompat builds go-openai clients for local servers that
// expose the OpenAI REST surface (llama.cpp server, LM Studio, Ollama /v1).
package openaicompat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Config holds the connection settings shared by the embedding and LLM adapters.
type Config struct {
	// APIKey is optional; most local servers ignore it.
	APIKey string

	// BaseURL is the server root. A missing /v1 suffix is added.
	BaseURL string

	// Timeout bounds each request.
	Timeout time.Duration
}

// NewClient creates a go-openai client for cfg.
func NewClient(cfg Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = NormaliseBaseURL(cfg.BaseURL)
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return openai.NewClientWithConfig(clientCfg)
}

// NormaliseBaseURL trims trailing slashes and ensures a /v1 suffix.
func NormaliseBaseURL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(u, "/v1") {
		u += "/v1"
	}
	return u
}

// ParseAPIError extracts a human-readable error from a go-openai failure.
func ParseAPIError(op string, err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("%s API error %d: %s", op, reqErr.HTTPStatusCode, detail)
		}
		return fmt.Errorf("%s API error %d: %s", op, reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d: %s", op, apiErr.HTTPStatusCode, apiErr.Message)
	}

	return fmt.Errorf("%s request failed: %w", op, err)
}

// extractDetail reads the "detail" or "error" field some local servers use
// instead of the OpenAI error envelope.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) != nil {
		return ""
	}
	if parsed.Detail != "" {
		return parsed.Detail
	}
	return parsed.Error
}
