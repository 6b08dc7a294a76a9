package arena

// Nodes is a dense, 1-indexed array of Node records over a Backing.
type Nodes struct {
	b Backing
}

// NewNodes wraps an already-constructed Backing as a node arena.
func NewNodes(b Backing) *Nodes { return &Nodes{b: b} }

// Allocate reserves a new node, initialized to the zero Node, and returns
// its index.
func (n *Nodes) Allocate() (uint32, error) {
	idx, err := n.b.Allocate(NodeStride)
	if err != nil {
		return NilIndex, err
	}

	buf := make([]byte, NodeStride)
	encodeNode(Node{}, buf)
	n.b.writeAt(idx, NodeStride, buf)

	return idx, nil
}

// Get returns the node stored at idx.
func (n *Nodes) Get(idx uint32) Node {
	return decodeNode(n.b.readAt(idx, NodeStride))
}

// Set overwrites the node at idx in full. Backings never need to read
// the prior contents first.
func (n *Nodes) Set(idx uint32, rec Node) {
	buf := make([]byte, NodeStride)
	encodeNode(rec, buf)
	n.b.writeAt(idx, NodeStride, buf)
}

// Len returns the number of allocated nodes.
func (n *Nodes) Len() uint32 { return n.b.Len() }

// Flush persists pending writes (a no-op for RAM backings).
func (n *Nodes) Flush() error { return n.b.Flush() }

// Close releases the backing's resources.
func (n *Nodes) Close() error { return n.b.Close() }
