// Package mcp provides an MCP (Model Context Protocol) server adapter for docvault.
// It lets local AI assistants ask questions about the loaded documents and
// manage them through tools.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("mcp: settings service is required")
