package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docvault resources.
	uriScheme = "docvault://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Documents currently loaded",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Active retrieval and model settings (API key omitted)",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// handleDocumentsResource returns every loaded document as JSON.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if _, err := s.ports.ready(ctx); err != nil {
		return nil, err
	}

	files, err := s.ports.Pipeline.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	docs := make([]DocumentOutput, len(files))
	for i, f := range files {
		docs[i] = toDocumentOutput(f)
	}
	return jsonResource(req.Params.URI, docs)
}

// handleSettingsResource returns the settings the pipeline runs with.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	view := map[string]any{
		"provider":          settings.Provider,
		"llm_model":         settings.LLMModel,
		"embed_model":       settings.EmbedModel,
		"base_url":          settings.OllamaBaseURL,
		"chunk_size":        settings.ChunkSize,
		"chunk_overlap":     settings.ChunkOverlap,
		"top_k":             settings.TopK,
		"embed_concurrency": settings.EmbedConcurrency,
	}
	return jsonResource(req.Params.URI, view)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
