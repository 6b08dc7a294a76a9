package arena

// Edges is a dense, 1-indexed array of Edge records over a Backing.
type Edges struct {
	b Backing
}

// NewEdges wraps an already-constructed Backing as an edge arena.
func NewEdges(b Backing) *Edges { return &Edges{b: b} }

// Allocate reserves a new edge, initialized to the zero Edge (both AVL
// children nil, span open), and returns its index.
func (e *Edges) Allocate() (uint32, error) {
	idx, err := e.b.Allocate(EdgeStride)
	if err != nil {
		return NilIndex, err
	}

	buf := make([]byte, EdgeStride)
	encodeEdge(Edge{}, buf)
	e.b.writeAt(idx, EdgeStride, buf)

	return idx, nil
}

// Get returns the edge stored at idx.
func (e *Edges) Get(idx uint32) Edge {
	return decodeEdge(e.b.readAt(idx, EdgeStride))
}

// Set overwrites the edge at idx in full.
func (e *Edges) Set(idx uint32, rec Edge) {
	buf := make([]byte, EdgeStride)
	encodeEdge(rec, buf)
	e.b.writeAt(idx, EdgeStride, buf)
}

// Len returns the number of allocated edges.
func (e *Edges) Len() uint32 { return e.b.Len() }

// Flush persists pending writes (a no-op for RAM backings).
func (e *Edges) Flush() error { return e.b.Flush() }

// Close releases the backing's resources.
func (e *Edges) Close() error { return e.b.Close() }
