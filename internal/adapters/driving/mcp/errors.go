// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Quarry. It lets AI assistants query the local retrieval engine.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever port is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")
