package driven

import "io"

// VectorIndex is an append-only, fixed-dimension nearest-neighbour structure.
// Vectors are indexed 0..N-1 by insertion order; that position is the join
// key to the chunk store, so implementations must never reorder.
//
// The structure has no native delete. Removal is emulated by constructing a
// fresh index via the factory and re-adding retained vectors, which is why
// rebuild stays behind this interface: a future implementation with native
// tombstoning can be swapped in without changing the vector store contract.
type VectorIndex interface {
	// Add appends vectors in order. All vectors must match Dimension.
	Add(vectors [][]float32) error

	// Search returns the k nearest neighbours to the query vector by
	// squared Euclidean distance, closest first. Returns fewer than k
	// hits when the index holds fewer than k vectors.
	Search(query []float32, k int) ([]VectorHit, error)

	// Len returns the number of stored vectors.
	Len() int

	// Dimension returns the fixed vector dimension.
	Dimension() int

	// WriteTo serialises the index in its binary on-disk format.
	WriteTo(w io.Writer) (int64, error)

	// ReadFrom restores an index previously written with WriteTo.
	// Must only be called on an empty index.
	ReadFrom(r io.Reader) (int64, error)
}

// VectorHit is a single nearest-neighbour result.
type VectorHit struct {
	// Position is the insertion-order index of the matched vector.
	Position int

	// Distance is the squared Euclidean distance to the query.
	// Lower is more similar.
	Distance float64
}

// IndexFactory constructs an empty VectorIndex of the given dimension.
// The vector store uses it for initial construction and for delete rebuilds.
type IndexFactory func(dimension int) VectorIndex
