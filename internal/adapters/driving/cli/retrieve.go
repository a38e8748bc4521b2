package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

var (
	retrieveLimit   int
	retrieveProject string
	retrievePhase   string
	retrieveJSON    bool
	retrieveSheet   string
	retrieveColumns []string
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Search with project and phase scoping",
	Long: `Performs scoped retrieval.

A --project filter is hard: chunks tagged with a different project never
appear. A --phase filter is a preference: chunks from the requested phase
rank first and other phases fill the remaining slots.

With --sheet or --columns the search is restricted to tabular chunks and
the query is augmented with the table vocabulary.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveLimit, "limit", "n", 5, "maximum number of results")
	retrieveCmd.Flags().StringVar(&retrieveProject, "project", "", "restrict results to this project")
	retrieveCmd.Flags().StringVar(&retrievePhase, "phase", "", "prefer results from this phase")
	retrieveCmd.Flags().StringVar(&retrieveSheet, "sheet", "", "restrict to tables with this sheet name")
	retrieveCmd.Flags().StringSliceVar(&retrieveColumns, "columns", nil, "restrict to tables containing all of these columns")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrieverService == nil {
		return errors.New("retriever not configured")
	}

	opts := domain.RetrieveOptions{
		K:         retrieveLimit,
		ProjectID: retrieveProject,
		Phase:     retrievePhase,
	}

	var (
		results []domain.SearchResult
		err     error
	)
	if retrieveSheet != "" || len(retrieveColumns) > 0 {
		filter := domain.TableFilter{
			SheetName: retrieveSheet,
			Columns:   retrieveColumns,
		}
		results, err = retrieverService.RetrieveTable(cmd.Context(), args[0], filter, opts)
	} else {
		results, err = retrieverService.Retrieve(cmd.Context(), args[0], opts)
	}
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if retrieveJSON {
		return outputResultsJSON(cmd, results)
	}
	return outputResultsTable(cmd, results)
}
