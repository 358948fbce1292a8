package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Load PDF and Word documents",
	Long: `Parse, chunk and index documents so they can be queried.

Each path may be a .pdf or .docx file, or a folder. Folders are searched
recursively and unsupported files inside them are skipped. Adding a file
that is already loaded replaces it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := commandContext(cmd)
	if _, err := ready(ctx); err != nil {
		return err
	}

	results, err := ingestService.AddPaths(ctx, args)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		cmd.Println("No PDF or DOCX files found.")
		return nil
	}

	st := newStyles(cmd.OutOrStdout())
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			cmd.Printf("%s %s: %v\n", st.Error.Render("✗"), r.Path, r.Err)
			continue
		}
		cmd.Printf("%s %s  %s\n", st.Success.Render("✓"), r.File.FileName,
			st.Muted.Render(fmt.Sprintf("(%d pages, %d chunks, id %s)",
				r.File.TotalPages, r.File.ChunkCount, r.File.ID)))
	}

	cmd.Printf("\nLoaded %d of %d files.\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d files could not be loaded", failed)
	}
	return nil
}
