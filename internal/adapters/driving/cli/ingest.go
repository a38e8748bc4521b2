package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
)

var (
	ingestProject    string
	ingestPhase      string
	ingestPurpose    string
	ingestUploadedBy string
	ingestAsText     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a file or directory",
	Long: `Ingests documents into the retrieval engine.

Text files (.txt, .md, .text, .log) are chunked on sentence boundaries;
CSV files are parsed and chunked as tables. Directories are walked
recursively and unsupported files are skipped.

Use --text to read already-extracted text from stdin instead of a path,
in which case the argument names the source identifier.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestProject, "project", "", "project ID to scope the document to")
	ingestCmd.Flags().StringVar(&ingestPhase, "phase", "", "workflow phase tag")
	ingestCmd.Flags().StringVar(&ingestPurpose, "purpose", "", "free-form purpose tag")
	ingestCmd.Flags().StringVar(&ingestUploadedBy, "uploaded-by", "", "who submitted the document")
	ingestCmd.Flags().BoolVar(&ingestAsText, "text", false, "read text from stdin; the argument is the source identifier")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	scope := driving.IngestScope{
		ProjectID:  ingestProject,
		Phase:      ingestPhase,
		Purpose:    ingestPurpose,
		UploadedBy: ingestUploadedBy,
	}
	ctx := cmd.Context()

	if ingestAsText {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		res, err := ingestService.ProcessText(ctx, args[0], string(data), scope)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		cmd.Printf("Ingested %s: %d chunks (document %s)\n", res.Source, len(res.ChunkIDs), res.DocumentID)
		return nil
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		results, err := ingestService.ProcessDirectory(ctx, path, scope)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		total := 0
		for i := range results {
			total += len(results[i].ChunkIDs)
		}
		cmd.Printf("Ingested %d documents (%d chunks) from %s\n", len(results), total, path)
		return nil
	}

	res, err := ingestService.ProcessFile(ctx, path, scope)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	cmd.Printf("Ingested %s: %d chunks (document %s)\n", res.Source, len(res.ChunkIDs), res.DocumentID)
	return nil
}
