package driven

import "context"

// TextExtractor converts a raw document format into plain text suitable
// for chunking. Implementations are stateless and safe for concurrent use.
type TextExtractor interface {
	// Extensions returns the lowercase file extensions this extractor
	// handles, including the leading dot.
	Extensions() []string

	// Extract converts raw file bytes into plain text.
	Extract(ctx context.Context, data []byte) (string, error)
}
