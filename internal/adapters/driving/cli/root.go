// Package cli provides the cobra-based command line interface for Quarry.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/config/file"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/embedding/ollama"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/embedding/openai"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/embedding/ratelimit"
	sqliteregistry "github.com/quarry-labs/quarry-cli/internal/adapters/driven/registry/sqlite"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/core/services"
	"github.com/quarry-labs/quarry-cli/internal/logger"
	"github.com/quarry-labs/quarry-cli/internal/postprocessors/chunker"
	"github.com/quarry-labs/quarry-cli/internal/vectorstore"
)

// version is set at build time via ldflags.
var version = "dev"

// Package-level services injected at startup (or by tests).
var (
	ingestService    driving.Ingestor
	retrieverService driving.Retriever
	documentRegistry driven.DocumentRegistry
)

var (
	flagVerbose bool
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Local document ingestion and retrieval engine",
	Long: `Quarry ingests text and tabular documents, chunks them on natural
boundaries, embeds the chunks and serves fast similarity retrieval with
project and phase scoping.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		logger.SetOutput(cmd.ErrOrStderr())

		// Tests inject services directly; don't overwrite them.
		if ingestService != nil {
			return nil
		}
		if !needsServices(cmd) {
			return nil
		}
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.quarry)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// needsServices reports whether a command requires the full engine.
// Version, help and config commands only touch the config file.
func needsServices(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "config":
			return false
		}
	}
	return true
}

// dataDir resolves the engine data directory.
func dataDir() (string, error) {
	if flagDataDir != "" {
		return flagDataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".quarry"), nil
}

// initServices wires the full engine: config, embedder, vector store,
// document registry and the two core services.
func initServices() error {
	dir, err := dataDir()
	if err != nil {
		return err
	}

	cfg, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	store, err := vectorstore.New(filepath.Join(dir, "data", "store"), embedder)
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	if _, err := store.Load(); err != nil {
		return fmt.Errorf("loading persisted store: %w", err)
	}

	registry, err := sqliteregistry.NewRegistry(filepath.Join(dir, "data"))
	if err != nil {
		return fmt.Errorf("opening document registry: %w", err)
	}

	proc := chunker.New()
	if size := cfg.GetInt("chunking.size"); size > 0 {
		overlap := cfg.GetInt("chunking.overlap")
		proc = chunker.New(chunker.WithChunkSize(size), chunker.WithOverlap(overlap))
	}

	ingestService = services.NewIngestService(store, registry, proc)
	retrieverService = services.NewRetrieverService(store)
	documentRegistry = registry
	return nil
}

// buildEmbedder constructs the configured embedding provider wrapped in a
// client-side rate limiter.
func buildEmbedder(cfg *file.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString("embedding.provider")
	if provider == "" {
		provider = "ollama"
	}

	var (
		inner driven.EmbeddingService
		err   error
	)
	switch provider {
	case "ollama":
		inner = ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})
	case "openai":
		inner, err = openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.GetString("embedding.api_key"),
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})
		if err != nil {
			return nil, fmt.Errorf("configuring openai embedder: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}

	rps := cfg.GetFloat("embedding.requests_per_second")
	return ratelimit.Wrap(inner, ratelimit.Config{RequestsPerSecond: rps}), nil
}
