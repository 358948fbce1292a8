package mcp

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline answers questions and manages loaded documents.
	Pipeline driving.PipelineService

	// Settings supplies the settings every pipeline call runs with.
	Settings driving.SettingsService

	// Ingest loads files from disk. Optional; add_document is only
	// registered when set.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}

// ready loads settings and makes sure the pipeline is initialized with them.
func (p *Ports) ready(ctx context.Context) (domain.AppSettings, error) {
	settings, err := p.Settings.Get()
	if err != nil {
		return domain.AppSettings{}, err
	}
	if err := p.Pipeline.Initialize(ctx, settings); err != nil {
		return domain.AppSettings{}, err
	}
	return settings, nil
}
