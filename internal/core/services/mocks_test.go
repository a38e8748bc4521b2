package services

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// stubEmbedder is a deterministic bag-of-words embedder. Texts sharing
// tokens produce nearby vectors, so ranking assertions are stable.
type stubEmbedder struct {
	dims      int
	failEmbed bool
}

func newStubEmbedder(dims int) *stubEmbedder {
	return &stubEmbedder{dims: dims}
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.failEmbed {
		return nil, errors.New("stub embedder failure")
	}
	return e.vector(text), nil
}

func (e *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if e.failEmbed {
		return nil, errors.New("stub embedder failure")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *stubEmbedder) vector(text string) []float32 {
	v := make([]float32, e.dims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		v[int(h.Sum32())%e.dims]++
	}
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range v {
			v[i] *= scale
		}
	}
	return v
}

func (e *stubEmbedder) Dimensions() int              { return e.dims }
func (e *stubEmbedder) ModelName() string            { return "stub" }
func (e *stubEmbedder) Ping(_ context.Context) error { return nil }
func (e *stubEmbedder) Close() error                 { return nil }

// memRegistry is an in-memory document ledger.
type memRegistry struct {
	mu      sync.Mutex
	records map[string]domain.DocumentRecord
	failOps bool
}

func newMemRegistry() *memRegistry {
	return &memRegistry{records: make(map[string]domain.DocumentRecord)}
}

func (r *memRegistry) Save(_ context.Context, record domain.DocumentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOps {
		return errors.New("registry failure")
	}
	r.records[record.ID] = record
	return nil
}

func (r *memRegistry) Get(_ context.Context, id string) (*domain.DocumentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (r *memRegistry) List(_ context.Context) ([]domain.DocumentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOps {
		return nil, errors.New("registry failure")
	}
	out := make([]domain.DocumentRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRegistry) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *memRegistry) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records), nil
}

func (r *memRegistry) Close() error { return nil }
