package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// noValue is shown for statistics that are not known.
const noValue = "–"

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List loaded documents",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if _, err := ready(commandContext(cmd)); err != nil {
		return err
	}

	files, err := pipelineService.ListDocuments()
	if err != nil {
		return err
	}

	if listJSON {
		if files == nil {
			files = []domain.FileInfo{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	}

	if len(files) == 0 {
		cmd.Println("No documents loaded. Run 'docvault add <path>' to load some.")
		return nil
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Title.Render(fmt.Sprintf("Loaded documents (%d)", len(files))))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tPAGES\tWORDS\tCHUNKS\tLOADED")
	for _, f := range files {
		words := noValue
		if f.WordCount > 0 {
			words = fmt.Sprintf("%d", f.WordCount)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%s\n",
			f.ID, f.FileName, f.TotalPages, words, f.ChunkCount,
			f.LoadedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
