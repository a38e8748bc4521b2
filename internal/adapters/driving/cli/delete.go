package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteByID bool

var deleteCmd = &cobra.Command{
	Use:   "delete [source]",
	Short: "Delete a document's chunks from the index",
	Long: `Removes every chunk whose source matches the identifier and rebuilds
the index. The identifier matches a full source path or a path suffix
such as a bare filename.

Use --id to delete by the exact document ID assigned at ingestion.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteByID, "id", false, "treat the argument as a document ID")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if deleteByID {
		del, err := ingestService.DeleteDocument(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("delete failed: %w", err)
		}
		printDeleteResult(cmd, args[0], del.Success, del.RemovedCount, del.RemainingCount)
		return nil
	}

	del, err := ingestService.DeleteBySource(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	printDeleteResult(cmd, args[0], del.Success, del.RemovedCount, del.RemainingCount)
	return nil
}

func printDeleteResult(cmd *cobra.Command, identifier string, success bool, removed, remaining int) {
	if !success {
		cmd.Printf("No chunks matched %q.\n", identifier)
		return
	}
	cmd.Printf("Removed %d chunks for %q (%d remaining).\n", removed, identifier, remaining)
}
