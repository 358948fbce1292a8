// Package cli is the docvault command line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
	"github.com/custodia-labs/docvault/internal/logger"
)

// version is set at build time via ldflags or SetVersion.
var version = "dev"

// Services wired by main.
var (
	pipelineService driving.PipelineService
	settingsService driving.SettingsService
	ingestService   driving.IngestService
)

// Services holds the driving ports the commands call.
type Services struct {
	Pipeline driving.PipelineService
	Settings driving.SettingsService
	Ingest   driving.IngestService
}

// SetServices injects the services used by every command.
func SetServices(s Services) {
	pipelineService = s.Pipeline
	settingsService = s.Settings
	ingestService = s.Ingest
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var (
	verbose   bool
	ephemeral bool
)

var rootCmd = &cobra.Command{
	Use:   "docvault",
	Short: "Ask questions about your private documents, answered by a local model",
	Long: `docvault loads PDF and Word documents into a local vector index and answers
questions about them with a locally hosted language model. Every answer cites
the file and page it came from. Nothing leaves your machine.

Quick start:
  docvault add ~/contracts
  docvault ask "When does the lease expire?"`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the index and settings changes in memory for this run only")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Ephemeral reports whether --ephemeral was passed.
// It is only meaningful once a command has started running.
func Ephemeral() bool {
	return ephemeral
}

// ready loads settings and initializes the pipeline with them.
// Initialize is a no-op when settings are unchanged.
func ready(ctx context.Context) (domain.AppSettings, error) {
	if settingsService == nil || pipelineService == nil {
		return domain.AppSettings{}, errors.New("pipeline not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return domain.AppSettings{}, err
	}
	if err := pipelineService.Initialize(ctx, settings); err != nil {
		return domain.AppSettings{}, err
	}
	return settings, nil
}

// commandContext returns the command's context, falling back to Background
// when the command is executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
