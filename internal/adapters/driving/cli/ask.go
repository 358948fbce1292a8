package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

var (
	askJSON bool
	askTopK int
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the loaded documents",
	Long: `Answer a question using only the loaded documents.

The answer cites the file and page each claim came from. When the documents
do not contain the answer, docvault says so instead of guessing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Output as JSON")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "Number of excerpts to retrieve (default from settings)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	settings, err := ready(ctx)
	if err != nil {
		return err
	}

	if askTopK > 0 {
		settings.TopK = askTopK
		if err := settings.Validate(); err != nil {
			return err
		}
	}

	question := strings.Join(args, " ")
	result, err := pipelineService.Query(ctx, question, settings)
	if err != nil {
		result = domain.ErrorResult(err)
	}

	if askJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(result); encErr != nil {
			return encErr
		}
		return err
	}

	st := newStyles(cmd.OutOrStdout())
	if err != nil {
		cmd.Println(st.Error.Render(result.Answer))
		return err
	}

	cmd.Println(result.Answer)
	if result.NotFound || len(result.Citations) == 0 {
		return nil
	}

	cmd.Println()
	cmd.Println(st.Title.Render("Sources"))
	for i, c := range result.Citations {
		cmd.Printf("%s %s, page %d %s\n",
			st.Citation.Render(formatIndex(i+1)),
			c.FileName, c.PageNumber,
			st.Muted.Render(formatScore(c.Score)))
		if c.Excerpt != "" {
			cmd.Println(st.Excerpt.Render(c.Excerpt))
		}
	}
	return nil
}

func formatIndex(i int) string {
	return fmt.Sprintf("[%d]", i)
}

func formatScore(score float64) string {
	return fmt.Sprintf("(score %.3f)", score)
}
