package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List ingested documents",
	Long:  `Lists the document ledger: every ingested document with its scope tags and chunk count.`,
	RunE:  runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, _ []string) error {
	if documentRegistry == nil {
		return errors.New("document registry not configured")
	}

	records, err := documentRegistry.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range records {
		rec := &records[i]
		cmd.Printf("  %s  %s\n", rec.ID, rec.Source)
		cmd.Printf("      chunks: %d", rec.ChunkCount)
		if rec.ProjectID != "" {
			cmd.Printf("  project: %s", rec.ProjectID)
		}
		if rec.Phase != "" {
			cmd.Printf("  phase: %s", rec.Phase)
		}
		cmd.Printf("  ingested: %s\n", rec.IngestedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
