// Package flat provides an exhaustive (brute-force) vector index.
//
// The index is append-only: vectors are stored in insertion order in a
// single flat float32 slice and searched by scanning every entry. There is
// no native delete; the vector store emulates removal by building a fresh
// index and re-adding retained vectors. Exhaustive search is exact, which
// keeps the positional alignment with the chunk store trivially correct.
//
// The index performs no internal locking; the owning vector store
// serialises access.
package flat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Binary serialisation constants.
const (
	magic         = "QFLX"
	formatVersion = 1
)

// Index is a flat, exhaustive nearest-neighbour index over fixed-dimension
// float32 vectors. Distance is squared Euclidean; lower is more similar.
type Index struct {
	dimension int
	data      []float32 // len(data) == count * dimension
	count     int
}

// New creates an empty index with the given fixed dimension.
func New(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, errors.New("flat: dimension must be positive")
	}
	return &Index{dimension: dimension}, nil
}

// Factory adapts New to the driven.IndexFactory signature.
// The dimension is validated again by the vector store before use.
func Factory(dimension int) driven.VectorIndex {
	idx, err := New(dimension)
	if err != nil {
		// Invalid dimensions are caught at store construction; an empty
		// placeholder keeps the factory signature simple.
		return &Index{dimension: dimension}
	}
	return idx
}

// Add appends vectors in order. Every vector must match the index dimension.
// On a dimension mismatch nothing is appended.
func (x *Index) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != x.dimension {
			return fmt.Errorf("flat: vector %d has dimension %d, index expects %d", i, len(v), x.dimension)
		}
	}

	for _, v := range vectors {
		x.data = append(x.data, v...)
	}
	x.count += len(vectors)
	return nil
}

// Search returns the k nearest vectors to the query by squared Euclidean
// distance, closest first. Ties are broken by insertion order.
func (x *Index) Search(query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != x.dimension {
		return nil, fmt.Errorf("flat: query has dimension %d, index expects %d", len(query), x.dimension)
	}
	if k <= 0 || x.count == 0 {
		return []driven.VectorHit{}, nil
	}

	hits := make([]driven.VectorHit, 0, x.count)
	for pos := 0; pos < x.count; pos++ {
		offset := pos * x.dimension
		var dist float64
		for j, q := range query {
			d := float64(x.data[offset+j]) - float64(q)
			dist += d * d
		}
		hits = append(hits, driven.VectorHit{Position: pos, Distance: dist})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Len returns the number of stored vectors.
func (x *Index) Len() int {
	return x.count
}

// Dimension returns the fixed vector dimension.
func (x *Index) Dimension() int {
	return x.dimension
}

// WriteTo serialises the index: a 4-byte magic, format version, dimension
// and count header followed by the raw little-endian float32 vector data.
func (x *Index) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}

	if _, err := cw.Write([]byte(magic)); err != nil {
		return cw.n, fmt.Errorf("flat: write magic: %w", err)
	}

	header := []any{
		uint32(formatVersion),
		uint32(x.dimension),
		uint64(x.count),
	}
	for _, field := range header {
		if err := binary.Write(cw, binary.LittleEndian, field); err != nil {
			return cw.n, fmt.Errorf("flat: write header: %w", err)
		}
	}

	if err := binary.Write(cw, binary.LittleEndian, x.data); err != nil {
		return cw.n, fmt.Errorf("flat: write vectors: %w", err)
	}

	return cw.n, nil
}

// ReadFrom restores an index previously written with WriteTo.
// It must only be called on an empty index; the serialised dimension must
// match the dimension the index was constructed with.
func (x *Index) ReadFrom(r io.Reader) (int64, error) {
	if x.count != 0 {
		return 0, errors.New("flat: ReadFrom on non-empty index")
	}

	cr := &countingReader{r: r}

	buf := make([]byte, len(magic))
	if _, err := io.ReadFull(cr, buf); err != nil {
		return cr.n, fmt.Errorf("flat: read magic: %w", err)
	}
	if string(buf) != magic {
		return cr.n, fmt.Errorf("flat: bad magic %q", buf)
	}

	var version, dimension uint32
	var count uint64
	if err := binary.Read(cr, binary.LittleEndian, &version); err != nil {
		return cr.n, fmt.Errorf("flat: read version: %w", err)
	}
	if version != formatVersion {
		return cr.n, fmt.Errorf("flat: unsupported format version %d", version)
	}
	if err := binary.Read(cr, binary.LittleEndian, &dimension); err != nil {
		return cr.n, fmt.Errorf("flat: read dimension: %w", err)
	}
	if int(dimension) != x.dimension {
		return cr.n, fmt.Errorf("flat: persisted dimension %d does not match index dimension %d", dimension, x.dimension)
	}
	if err := binary.Read(cr, binary.LittleEndian, &count); err != nil {
		return cr.n, fmt.Errorf("flat: read count: %w", err)
	}

	data := make([]float32, int(count)*x.dimension)
	if err := binary.Read(cr, binary.LittleEndian, &data); err != nil {
		return cr.n, fmt.Errorf("flat: read vectors: %w", err)
	}

	x.data = data
	x.count = int(count)
	return cr.n, nil
}

// countingWriter tracks bytes written for the io.WriterTo contract.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// countingReader tracks bytes read for the io.ReaderFrom contract.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
