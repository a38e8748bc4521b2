package chunker

import (
	"math/rand"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		if p.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.chunkSize)
		}
	})

	t.Run("custom overlap", func(t *testing.T) {
		p := New(WithOverlap(100))
		if p.overlap != 100 {
			t.Errorf("expected overlap 100, got %d", p.overlap)
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace runs", "a  b\t\tc\n\nd", "a b c d"},
		{"strips form feeds", "before\fafter", "before after"},
		{"strips dashed page markers", "end of page. --- Page 3 --- next page", "end of page. next page"},
		{"strips bracketed page markers", "text [Page 12] more", "text more"},
		{"trims", "  padded  ", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProcessor_ChunkText_Empty(t *testing.T) {
	p := New()
	if chunks := p.ChunkText(""); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty input, got %d", len(chunks))
	}
	if chunks := p.ChunkText("   \n\t  "); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for whitespace input, got %d", len(chunks))
	}
}

func TestProcessor_ChunkText_Small(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	chunks := p.ChunkText("This is a small piece of content.")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for small content, got %d", len(chunks))
	}
	if chunks[0] != "This is a small piece of content." {
		t.Errorf("unexpected chunk content: %q", chunks[0])
	}
}

func TestProcessor_ChunkText_SentenceBoundary(t *testing.T) {
	p := New(WithChunkSize(60), WithOverlap(0))

	// The raw cut at 60 would land mid-sentence; the cut should be pulled
	// back to the nearest sentence end within the last 30 characters.
	text := "First sentence here. Second one follows now! Third sentence continues for a while longer."
	chunks := p.ChunkText(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	first := chunks[0]
	if !strings.HasSuffix(first, "!") && !strings.HasSuffix(first, ".") {
		t.Errorf("expected first chunk to end at a sentence boundary, got %q", first)
	}
	if len(first) < 30 {
		t.Errorf("chunk shrank below half the target size: %d chars", len(first))
	}
}

func TestProcessor_ChunkText_NoPunctuation(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))

	// No sentence boundaries at all; cuts land at the raw window edge.
	text := strings.Repeat("x", 450)
	chunks := p.ChunkText(text)

	if len(chunks) < 4 {
		t.Errorf("expected at least 4 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("chunk %d exceeds target size: %d chars", i, len(c))
		}
	}
}

func TestProcessor_ChunkText_TerminatesWithExcessiveOverlap(t *testing.T) {
	// overlap >= chunkSize is a misconfiguration; the minimum forward
	// advance must still terminate the walk.
	p := New(WithChunkSize(100), WithOverlap(150))
	text := strings.Repeat("word without any punctuation ", 200)

	done := make(chan []string, 1)
	go func() { done <- p.ChunkText(text) }()

	chunks := <-done
	if len(chunks) == 0 {
		t.Fatal("expected chunks despite pathological overlap")
	}
}

func TestProcessor_ChunkText_Coverage(t *testing.T) {
	p := New(WithChunkSize(80), WithOverlap(16))

	// Numbered sentences keep every chunk's position in the text unambiguous.
	var sb strings.Builder
	for i := 1; i <= 40; i++ {
		sb.WriteString("Sentence number ")
		sb.WriteString(strings.Repeat("x", i%7))
		sb.WriteString(" carries ordinal ")
		sb.WriteString(string(rune('a' + i%26)))
		sb.WriteString(string(rune('a' + (i*7)%26)))
		sb.WriteString(". ")
	}
	text := sb.String()
	normalized := NormalizeText(text)

	chunks := p.ChunkText(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Every chunk must appear in the normalized text, and successive chunk
	// start offsets must not leave gaps beyond the previous chunk's end.
	searchFrom := 0
	prevEnd := 0
	for i, chunk := range chunks {
		at := strings.Index(normalized[searchFrom:], chunk)
		if at < 0 {
			t.Fatalf("chunk %d not found in normalized text", i)
		}
		start := searchFrom + at
		if start > prevEnd {
			t.Errorf("gap before chunk %d: starts at %d, previous ended at %d", i, start, prevEnd)
		}
		prevEnd = start + len(chunk)
		searchFrom = start + 1
	}
	if prevEnd < len(normalized) {
		t.Errorf("chunks end at %d, text has %d chars", prevEnd, len(normalized))
	}
}

func TestProcessor_ChunkText_PropertyBounds(t *testing.T) {
	// Randomised size/overlap/length combinations, including
	// overlap >= target. Chunking must always terminate, always make
	// forward progress of at least chunkSize/4, and never exceed the
	// iteration bound implied by the input length.
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		size := 20 + rng.Intn(200)
		overlap := rng.Intn(size * 2) // deliberately allows overlap >= size
		length := rng.Intn(5000)

		p := New(WithChunkSize(size), WithOverlap(overlap))
		text := randomText(rng, length)

		chunks := p.ChunkText(text)

		minAdvance := size / 4
		if minAdvance < 1 {
			minAdvance = 1
		}
		maxChunks := length/minAdvance + 2
		if len(chunks) > maxChunks {
			t.Fatalf("trial %d (size=%d overlap=%d len=%d): %d chunks exceeds progress bound %d",
				trial, size, overlap, length, len(chunks), maxChunks)
		}
		for i, c := range chunks {
			if c == "" {
				t.Fatalf("trial %d: empty chunk at %d", trial, i)
			}
		}
	}
}

func randomText(rng *rand.Rand, length int) string {
	const alphabet = "abcdefghij      .!?"
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}
