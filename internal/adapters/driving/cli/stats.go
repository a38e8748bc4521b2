package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show engine statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	stats, err := ingestService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	cmd.Println("Engine Statistics")
	cmd.Println("=================")
	cmd.Printf("  Documents:           %d\n", stats.TotalDocuments)
	cmd.Printf("  Chunks:              %d\n", stats.TotalChunks)
	cmd.Printf("  Embedding dimension: %d\n", stats.EmbeddingDimension)
	return nil
}
