// Package arena implements the node/edge storage layer for a CDAWG: two
// homogeneous, insertion-only arrays of fixed-stride records addressed by
// dense, stable, non-zero integer indices, over a pluggable backing (plain
// RAM or a memory-mapped file).
//
// Records are plain old data: no internal pointers, no interior references
// handed out to callers. A caller that wants to change a field calls Set
// with the whole (small, fixed-size) record; backings never need to read
// an old record before overwriting it.
package arena

import "encoding/binary"

// NilIndex marks the absence of a node, edge, or failure link. Real
// indices are dense and start at 1, so 0 is always available as a sentinel.
const NilIndex uint32 = 0

// OpenEnd marks an edge span whose end is tied to the current length of
// the token vector rather than a fixed position. A real half-open end is
// always >= 2 (span_start >= 1, length >= 1), so 0 is a safe sentinel.
const OpenEnd uint32 = 0

// Node is the record stored per automaton state.
//
//	Length    - length of the longest substring reaching this state (0 for source).
//	Failure   - suffix link to another node, or NilIndex for source.
//	FirstEdge - root of this node's outgoing AVL tree, or NilIndex.
//	Count     - occurrences of any substring represented by this state.
type Node struct {
	Length    uint64
	Failure   uint32
	FirstEdge uint32
	Count     uint64
}

// NodeStride is the fixed on-disk/in-memory size of an encoded Node.
const NodeStride = 24

func encodeNode(n Node, buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], n.Length)
	binary.LittleEndian.PutUint32(buf[8:12], n.Failure)
	binary.LittleEndian.PutUint32(buf[12:16], n.FirstEdge)
	binary.LittleEndian.PutUint64(buf[16:24], n.Count)
}

func decodeNode(buf []byte) Node {
	return Node{
		Length:    binary.LittleEndian.Uint64(buf[0:8]),
		Failure:   binary.LittleEndian.Uint32(buf[8:12]),
		FirstEdge: binary.LittleEndian.Uint32(buf[12:16]),
		Count:     binary.LittleEndian.Uint64(buf[16:24]),
	}
}

// Edge is the record stored per automaton transition.
//
//	SpanStart/SpanEnd - half-open span into the token vector; SpanEnd ==
//	                    OpenEnd means the span extends to the current sink.
//	Target            - destination node index.
//	Left/Right/Balance - AVL linkage within the owning node's adjacency tree.
//
// The edge's ordering key (first token of its span) is never stored here;
// callers derive it by reading the token vector at SpanStart.
type Edge struct {
	SpanStart uint32
	SpanEnd   uint32
	Target    uint32
	Left      uint32
	Right     uint32
	Balance   int8
}

// EdgeStride is the fixed on-disk/in-memory size of an encoded Edge.
const EdgeStride = 24

func encodeEdge(e Edge, buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], e.SpanStart)
	binary.LittleEndian.PutUint32(buf[4:8], e.SpanEnd)
	binary.LittleEndian.PutUint32(buf[8:12], e.Target)
	binary.LittleEndian.PutUint32(buf[12:16], e.Left)
	binary.LittleEndian.PutUint32(buf[16:20], e.Right)
	buf[20] = byte(e.Balance)
}

func decodeEdge(buf []byte) Edge {
	return Edge{
		SpanStart: binary.LittleEndian.Uint32(buf[0:4]),
		SpanEnd:   binary.LittleEndian.Uint32(buf[4:8]),
		Target:    binary.LittleEndian.Uint32(buf[8:12]),
		Left:      binary.LittleEndian.Uint32(buf[12:16]),
		Right:     binary.LittleEndian.Uint32(buf[16:20]),
		Balance:   int8(buf[20]),
	}
}

// Open reports whether the edge's end is tied to the live token count.
func (e Edge) Open() bool { return e.SpanEnd == OpenEnd }

// End returns the edge's effective half-open end, resolving an open end
// against the token vector's current length n (per I2: "when open, the
// effective e is the current n+1").
func (e Edge) End(n int) uint32 {
	if e.Open() {
		return uint32(n + 1)
	}

	return e.SpanEnd
}

// EdgeLen returns the edge's effective length given the current token
// count n.
func (e Edge) EdgeLen(n int) int {
	return int(e.End(n)) - int(e.SpanStart)
}
