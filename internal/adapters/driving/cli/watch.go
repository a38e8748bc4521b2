package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/watcher"
)

var (
	watchProject string
	watchPhase   string
	watchInitial bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and keep it indexed",
	Long: `Watches a directory for changes. New and modified files are
re-ingested; removed files have their chunks deleted. Blocks until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchProject, "project", "", "project ID applied to ingested files")
	watchCmd.Flags().StringVar(&watchPhase, "phase", "", "phase tag applied to ingested files")
	watchCmd.Flags().BoolVar(&watchInitial, "initial-sync", false, "ingest the directory contents before watching")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	scope := driving.IngestScope{
		ProjectID: watchProject,
		Phase:     watchPhase,
	}

	if watchInitial {
		results, err := ingestService.ProcessDirectory(cmd.Context(), args[0], scope)
		if err != nil {
			return fmt.Errorf("initial sync failed: %w", err)
		}
		cmd.Printf("Initial sync: %d documents\n", len(results))
	}

	w := watcher.New(ingestService, scope)
	cmd.Printf("Watching %s (ctrl-c to stop)\n", args[0])
	err := w.Watch(cmd.Context(), args[0])
	if errors.Is(err, cmd.Context().Err()) {
		return nil
	}
	return err
}
