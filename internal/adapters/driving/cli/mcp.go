package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/adapters/driving/mcp"
	"github.com/custodia-labs/docvault/internal/logger"
	"github.com/custodia-labs/docvault/internal/metrics"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask
questions about your loaded documents.

By default, the server communicates over stdio using JSON-RPC. Use --port to
start a streamable HTTP server on localhost instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  docvault mcp serve

  # HTTP mode (for MCP Inspector)
  docvault mcp serve --port 8080

  # Expose Prometheus metrics alongside
  docvault mcp serve --metrics-addr 127.0.0.1:9464

Assistant configuration:
  {
    "mcpServers": {
      "docvault": {
        "command": "/path/to/docvault",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (empty = disabled)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	metricsAddr, err := cmd.Flags().GetString("metrics-addr")
	if err != nil {
		return fmt.Errorf("getting metrics-addr flag: %w", err)
	}

	ports := &mcp.Ports{
		Pipeline: pipelineService,
		Settings: settingsService,
		Ingest:   ingestService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if metricsAddr != "" {
		stop := serveMetrics(ctx, metricsAddr)
		defer stop()
	}

	if port > 0 {
		addr := fmt.Sprintf("localhost:%d", port)
		// Stdout is free in HTTP mode; in stdio mode it carries JSON-RPC.
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

// serveMetrics starts the Prometheus endpoint in the background and returns
// a function that shuts it down.
func serveMetrics(ctx context.Context, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("metrics listening on http://%s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server: %v", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
