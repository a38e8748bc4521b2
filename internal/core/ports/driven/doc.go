// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Generates vector embeddings (Ollama, OpenAI).
//     Ingestion and similarity search are disabled without it.
//   - VectorIndex: Fixed-dimension nearest-neighbour structure. The flat
//     exhaustive implementation lives in internal/index/flat.
//   - DocumentRegistry: Ledger of ingested documents (SQLite).
//   - ConfigStore: Application configuration (TOML file).
//   - TextExtractor: Plain-text extraction for rich formats
//     (internal/extract).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
