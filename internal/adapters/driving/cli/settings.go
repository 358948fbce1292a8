package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change model, chunking and retrieval settings.

Settings are stored in ~/.docvault/config.toml. Environment variables
(DOCVAULT_PROVIDER, DOCVAULT_OLLAMA_URL, DOCVAULT_LLM_MODEL,
DOCVAULT_EMBED_MODEL, DOCVAULT_API_KEY, DOCVAULT_DATA_DIR) override the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting. An empty value restores the default.

Example:
  docvault settings set models.llm llama3.1:8b
  docvault settings set retrieval.top_k 8
  docvault settings set embedding.timeout 45s`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Current Settings"))
	cmd.Println()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, key := range settingsService.Keys() {
		value, err := settingsService.Value(settings, key)
		if err != nil {
			return err
		}
		switch {
		case key == services.KeyAPIKey && value != "":
			value = maskAPIKey(value)
		case value == "":
			value = "(not set)"
		}
		fmt.Fprintf(w, "  %s\t%s\n", key, value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	cmd.Println()
	if err := settings.Validate(); err != nil {
		cmd.Println(st.Warning.Render(fmt.Sprintf("Warning: %v", err)))
	} else {
		cmd.Println(st.Success.Render("Configuration is valid."))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if err := reinitialize(cmd); err != nil {
		return err
	}

	if value == "" {
		cmd.Printf("%s restored to default\n", key)
		return nil
	}
	if key == services.KeyAPIKey {
		value = maskAPIKey(value)
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	if err := reinitialize(cmd); err != nil {
		return err
	}

	cmd.Println("Settings restored to defaults.")
	return nil
}

// reinitialize applies saved settings to an already running pipeline.
// A pipeline that was never started is left alone.
func reinitialize(cmd *cobra.Command) error {
	if pipelineService == nil {
		return nil
	}
	if _, err := pipelineService.ListDocuments(); errors.Is(err, domain.ErrNotInitialized) {
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	return pipelineService.Initialize(commandContext(cmd), settings)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
