package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed chunks",
	Long: `Performs similarity search across all indexed chunks.
Results are ranked by squared Euclidean distance; lower scores are closer.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrieverService == nil {
		return errors.New("retriever not configured")
	}

	opts := domain.SearchOptions{K: searchLimit}
	results, err := retrieverService.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputResultsJSON(cmd, results)
	}
	return outputResultsTable(cmd, results)
}

func outputResultsJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultsTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		meta := results[i].Chunk.Metadata
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, meta.Source, results[i].Score)
		if meta.ProjectID != "" || meta.Phase != "" {
			cmd.Printf("      Project: %s  Phase: %s\n", meta.ProjectID, meta.Phase)
		}
		if meta.SheetName != "" {
			cmd.Printf("      Sheet: %s\n", meta.SheetName)
		}
		cmd.Printf("      %s\n", snippet(results[i].Chunk.Content))
		cmd.Println()
	}

	return nil
}

// snippet truncates content for terminal display, never splitting a
// multi-byte character.
func snippet(content string) string {
	const maxLen = 160
	if len(content) <= maxLen {
		return content
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + "..."
}
