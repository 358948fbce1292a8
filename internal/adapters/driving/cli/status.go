package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/normalisers/pdf"
)

var statusJSON bool

// checkPDFTool reports whether PDF text extraction is available.
var checkPDFTool = pdf.CheckAvailable

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the local model server",
	Long: `Check that the inference server is running and that the configured
generation and embedding models are installed.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	status, err := settingsService.Status(commandContext(cmd))
	if err != nil {
		return err
	}

	if statusJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	st := newStyles(cmd.OutOrStdout())
	mark := func(ok bool) string {
		if ok {
			return st.Success.Render("✓")
		}
		return st.Error.Render("✗")
	}

	cmd.Println(st.Title.Render("PDF Support"))
	if err := checkPDFTool(); err != nil {
		cmd.Printf("  %s %v\n", mark(false), err)
		cmd.Printf("    %s\n", st.Muted.Render(pdf.InstallInstructions()))
	} else {
		cmd.Printf("  %s %s found\n", mark(true), pdf.ToolName)
	}
	cmd.Println()

	cmd.Println(st.Title.Render("Model Server"))
	cmd.Printf("  %s %s at %s\n", mark(status.Running), status.Provider.Description(), status.BaseURL)
	if !status.Running {
		cmd.Printf("    %s\n", st.Muted.Render(status.Error))
		cmd.Println()
		cmd.Println("Start the server (for Ollama: 'ollama serve') and try again.")
		return nil
	}

	cmd.Printf("  %s generation model %s\n", mark(status.LLMAvailable), status.LLMModel)
	cmd.Printf("  %s embedding model %s\n", mark(status.EmbedAvailable), status.EmbedModel)
	if len(status.Models) > 0 {
		cmd.Printf("    %s\n", st.Muted.Render("installed: "+strings.Join(status.Models, ", ")))
	}

	cmd.Println()
	if status.Ready() {
		cmd.Println(st.Success.Render("Ready."))
		return nil
	}

	if status.Provider == domain.AIProviderOllama {
		for _, m := range missingModels(status) {
			cmd.Printf("Run 'ollama pull %s' to install %s.\n", m, m)
		}
	} else {
		cmd.Println(st.Warning.Render(fmt.Sprintf("Load the missing models into the server at %s.", status.BaseURL)))
	}
	return nil
}

func missingModels(status *domain.AIStatus) []string {
	var missing []string
	if !status.LLMAvailable {
		missing = append(missing, status.LLMModel)
	}
	if !status.EmbedAvailable {
		missing = append(missing, status.EmbedModel)
	}
	return missing
}
