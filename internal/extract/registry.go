package extract

import (
	"strings"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/extract/docx"
	"github.com/quarry-labs/quarry-cli/internal/extract/eml"
	"github.com/quarry-labs/quarry-cli/internal/extract/html"
	"github.com/quarry-labs/quarry-cli/internal/extract/markdown"
)

// Registry maps file extensions to their text extractors.
type Registry struct {
	byExt map[string]driven.TextExtractor
}

// NewRegistry creates a registry holding the given extractors. Later
// extractors win extension collisions.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.TextExtractor)}
	for _, ex := range extractors {
		r.Register(ex)
	}
	return r
}

// Defaults returns a registry with every built-in extractor.
func Defaults() *Registry {
	return NewRegistry(
		markdown.New(),
		html.New(),
		docx.New(),
		eml.New(),
	)
}

// Register adds an extractor for each extension it reports.
func (r *Registry) Register(ex driven.TextExtractor) {
	for _, ext := range ex.Extensions() {
		r.byExt[strings.ToLower(ext)] = ex
	}
}

// ForExtension returns the extractor for an extension (with leading dot),
// or false when the format is not handled.
func (r *Registry) ForExtension(ext string) (driven.TextExtractor, bool) {
	ex, ok := r.byExt[strings.ToLower(ext)]
	return ex, ok
}
