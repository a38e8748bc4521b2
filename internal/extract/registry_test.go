package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	exts []string
}

func (f *fakeExtractor) Extensions() []string { return f.exts }

func (f *fakeExtractor) Extract(_ context.Context, data []byte) (string, error) {
	return string(data), nil
}

func TestRegistry_ForExtension(t *testing.T) {
	fake := &fakeExtractor{exts: []string{".rst"}}
	r := NewRegistry(fake)

	got, ok := r.ForExtension(".rst")
	require.True(t, ok)
	assert.Same(t, fake, got)

	got, ok = r.ForExtension(".RST")
	require.True(t, ok)
	assert.Same(t, fake, got)

	_, ok = r.ForExtension(".unknown")
	assert.False(t, ok)
}

func TestRegistry_LaterWinsCollision(t *testing.T) {
	first := &fakeExtractor{exts: []string{".x"}}
	second := &fakeExtractor{exts: []string{".x"}}
	r := NewRegistry(first, second)

	got, ok := r.ForExtension(".x")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestDefaults(t *testing.T) {
	r := Defaults()

	for _, ext := range []string{".md", ".markdown", ".html", ".htm", ".docx", ".eml"} {
		_, ok := r.ForExtension(ext)
		assert.True(t, ok, "expected extractor for %s", ext)
	}
}
