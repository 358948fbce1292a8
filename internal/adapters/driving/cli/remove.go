package cli

import (
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <doc-id>",
	Aliases: []string{"rm"},
	Short:   "Unload a document and delete its index entries",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if _, err := ready(ctx); err != nil {
		return err
	}

	id := args[0]
	name := id
	files, err := pipelineService.ListDocuments()
	if err != nil {
		return err
	}
	found := false
	for _, f := range files {
		if f.ID == id {
			name = f.FileName
			found = true
			break
		}
	}

	if !found {
		cmd.Printf("No loaded document with id %s\n", id)
		return nil
	}

	if err := pipelineService.RemoveDocument(ctx, id); err != nil {
		return err
	}
	cmd.Printf("Removed %s\n", name)
	return nil
}
