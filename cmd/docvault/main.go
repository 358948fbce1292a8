// Package main is the entry point for docvault, a local question answering
// tool for private PDF and Word documents.
//
// # Environment Variables
//
//   - DOCVAULT_PROVIDER: ollama or openai_compatible
//   - DOCVAULT_OLLAMA_URL: inference server endpoint
//   - DOCVAULT_LLM_MODEL: generation model
//   - DOCVAULT_EMBED_MODEL: embedding model
//   - DOCVAULT_API_KEY: token for OpenAI-compatible servers that need one
//   - DOCVAULT_DATA_DIR: vector index location (default ~/.docvault/data)
//
// A .env file in the working directory is loaded first.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docvault/internal/adapters/driven/ai"
	"github.com/custodia-labs/docvault/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docvault/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docvault/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docvault/internal/adapters/driving/cli"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/core/services"
	"github.com/custodia-labs/docvault/internal/logger"
	"github.com/custodia-labs/docvault/internal/metrics"
	"github.com/custodia-labs/docvault/internal/normalisers"
)

// version is set at build time via -ldflags "-X main.version=...".
var version string

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	diskConfig, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening config: %v\n", err)
		return err
	}
	prompts, err := file.NewPromptStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening prompts: %v\n", err)
		return err
	}

	// --ephemeral runs keep settings changes in memory.
	configStore := memory.NewOverlay(diskConfig, cli.Ephemeral)

	metrics.Register()

	settingsService := services.NewSettingsService(configStore, ai.NewStatusChecker())
	pipeline := services.NewPipeline(ai.NewFactory(), storeOpener(), prompts)
	defer func() {
		if err := pipeline.Close(); err != nil {
			logger.Warn("closing pipeline: %v", err)
		}
	}()

	ingestService := services.NewIngestService(normalisers.DefaultRegistry(), pipeline, settingsService)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Pipeline: pipeline,
		Settings: settingsService,
		Ingest:   ingestService,
	})

	return cli.Execute(ctx)
}

// storeOpener picks the vector store when the pipeline first opens it,
// after flags have been parsed.
func storeOpener() driven.StoreOpener {
	mem := memory.NewVectorStore()
	ephemeral := memory.Opener(mem)
	return func(dataDir string) (driven.VectorStore, error) {
		if cli.Ephemeral() {
			return ephemeral(dataDir)
		}
		return sqlite.Open(dataDir)
	}
}
