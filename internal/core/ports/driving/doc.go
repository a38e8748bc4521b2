// Package driving defines the interfaces external actors use to drive core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI, watcher and MCP adapters call these; core services implement them.
//
//   - Ingestor: Submits documents for chunking, embedding and indexing
//   - Retriever: Scope-filtered similarity retrieval
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driving
