// Package chunker splits extracted document text and tabular datasets into
// overlapping, boundary-aware chunks sized for embedding and retrieval.
package chunker

import (
	"regexp"
	"strings"

	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// iterationSlack multiplies the theoretical maximum chunk count to bound
// the chunking loop against overlap/size misconfiguration.
const iterationSlack = 8

// pageMarkerPattern matches page-break artifacts left behind by document
// extractors, e.g. "--- Page 3 ---" or "[Page 12]".
var pageMarkerPattern = regexp.MustCompile(`(?i)(-{2,}\s*page\s+\d+\s*-{2,}|\[\s*page\s+\d+\s*\])`)

// whitespacePattern matches runs of whitespace, including form feeds.
var whitespacePattern = regexp.MustCompile(`\s+`)

// Processor splits content into overlapping chunks.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
// Overlap greater than the chunk size is allowed; the minimum forward
// advance still guarantees termination.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ChunkSize returns the configured target chunk size.
func (p *Processor) ChunkSize() int { return p.chunkSize }

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int { return p.overlap }

// ChunkText splits text into an ordered sequence of chunks.
//
// The text is whitespace-normalised, then walked with a sliding window of
// chunkSize characters. At each window boundary the cut point is pulled
// back to the nearest sentence end within the last chunkSize/2 characters,
// so sentences are not severed and no chunk shrinks below half the target.
// The next window starts overlap characters before the previous cut, but
// always advances by at least chunkSize/4 so the walk terminates even when
// overlap >= chunkSize.
//
// Empty input produces an empty sequence, never an error.
func (p *Processor) ChunkText(text string) []string {
	text = NormalizeText(text)
	if text == "" {
		return nil
	}

	n := len(text)
	if n <= p.chunkSize {
		return []string{text}
	}

	minAdvance := p.chunkSize / 4
	if minAdvance < 1 {
		minAdvance = 1
	}

	// Theoretical maximum chunk count, with generous slack. Exceeding it
	// means the configuration is pathological; the remaining tail is
	// dropped with a warning instead of looping indefinitely.
	step := p.chunkSize - p.overlap
	if step < 1 {
		step = 1
	}
	maxIterations := (n/step + 1) * iterationSlack

	chunks := make([]string, 0, n/step+1)
	start := 0

	for iteration := 0; start < n; iteration++ {
		if iteration >= maxIterations {
			logger.Warn("Chunking aborted after %d iterations (size=%d overlap=%d text=%d chars); tail from offset %d dropped",
				iteration, p.chunkSize, p.overlap, n, start)
			break
		}

		end := start + p.chunkSize
		if end >= n {
			if tail := strings.TrimSpace(text[start:]); tail != "" {
				chunks = append(chunks, tail)
			}
			break
		}

		cut := p.sentenceCut(text, start, end)

		if chunk := strings.TrimSpace(text[start:cut]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - p.overlap
		if next < start+minAdvance {
			next = start + minAdvance
		}
		start = next
	}

	return chunks
}

// sentenceCut searches backward from end for sentence-ending punctuation
// followed by whitespace, within the last chunkSize/2 characters of the
// window. Returns end unchanged when no boundary is found.
func (p *Processor) sentenceCut(text string, start, end int) int {
	limit := end - p.chunkSize/2
	if limit < start {
		limit = start
	}

	for i := end - 1; i > limit; i-- {
		if isSentenceEnd(text[i-1]) && text[i] == ' ' {
			return i
		}
	}
	return end
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// NormalizeText collapses whitespace runs to single spaces and strips
// page-marker artifacts left by document extractors.
func NormalizeText(text string) string {
	text = pageMarkerPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
