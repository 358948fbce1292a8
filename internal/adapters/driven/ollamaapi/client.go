// Package ollamaapi is a small client for the native Ollama REST API,
// shared by the Ollama embedding and generation adapters and the status check.
package ollamaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

var (
	// ErrModelNotFound is returned when the server does not have the model installed.
	ErrModelNotFound = errors.New("model not installed")

	// ErrEmptyEmbedding is returned when the server answers without a vector.
	ErrEmptyEmbedding = errors.New("ollama returned no embedding")

	// ErrEmptyResponse is returned when a generate call has no response text.
	ErrEmptyResponse = errors.New("ollama returned no response text")
)

// StatusError is a non-200 answer from the server.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ollama error (status %d): %s", e.StatusCode, e.Message)
}

// Client calls one Ollama server. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
}

// New creates a client for baseURL. timeout bounds every request.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// Close drops idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

type embeddingsRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingsResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embeddings calls /api/embeddings for one text.
func (c *Client) Embeddings(ctx context.Context, model, text string) ([]float32, error) {
	var resp embeddingsResponse
	if err := c.post(ctx, "/api/embeddings", model, embeddingsRequest{Model: model, Prompt: text}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, ErrEmptyEmbedding
	}

	vec := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

// GenerateRequest is the /api/generate request body. Stream is always false.
type GenerateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Options *GenerateOptions `json:"options,omitempty"`
}

// GenerateOptions holds sampling parameters.
type GenerateOptions struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type generateResponse struct {
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}

// Generate calls /api/generate and returns the trimmed response text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	req.Stream = false

	var resp generateResponse
	if err := c.post(ctx, "/api/generate", req.Model, req, &resp); err != nil {
		return "", err
	}
	if resp.Response == nil {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(*resp.Response), nil
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Tags lists the installed models via /api/tags.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var resp tagsResponse
	if err := c.do(req, "", &resp); err != nil {
		return nil, err
	}

	models := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, m.Name)
	}
	return models, nil
}

// CheckModel returns ErrModelNotFound unless model is installed.
func (c *Client) CheckModel(ctx context.Context, model string) error {
	models, err := c.Tags(ctx)
	if err != nil {
		return err
	}
	if !HasModel(models, model) {
		return fmt.Errorf("%w: %s (run 'ollama pull %s')", ErrModelNotFound, model, model)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, model string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, model, out)
}

func (c *Client) do(req *http.Request, model string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp, model)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError reads the error body. Ollama answers a missing model with
// 404 and {"error":"model \"x\" not found, try pulling it first"}.
func statusError(resp *http.Response, model string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))

	var envelope struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
		msg = envelope.Error
	}

	serr := &StatusError{StatusCode: resp.StatusCode, Message: msg}
	if resp.StatusCode == http.StatusNotFound && model != "" && strings.Contains(msg, "not found") {
		return fmt.Errorf("%w: %s: %w", ErrModelNotFound, model, serr)
	}
	return serr
}

// HasModel reports whether want is among installed. Names are compared
// case-insensitively with any ":latest" tag removed, and an installed name
// that starts with want also matches ("llama3" finds "llama3:8b").
func HasModel(installed []string, want string) bool {
	target := normaliseModel(want)
	if target == "" {
		return false
	}
	for _, name := range installed {
		if normaliseModel(name) == target || strings.HasPrefix(strings.ToLower(name), target) {
			return true
		}
	}
	return false
}

func normaliseModel(name string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ":latest")
}
