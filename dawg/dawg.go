// Package dawg implements the online construction of a Compact Directed
// Acyclic Word Graph over a token stream: an Ukkonen-style active point
// walks the automaton one absorbed token at a time, splitting edges and
// wiring failure (suffix) links exactly as needed to keep the structure
// minimal, while every currently-unsplit ("open") edge shares a single
// persistent sink state, since by construction an edge that has never
// been split cannot yet be distinguished from any other currently-open
// edge — they are all, simultaneously, "whatever the string looks like
// once it stops growing here."
package dawg

import (
	"github.com/arnav-k/cdawg/arena"
	"github.com/arnav-k/cdawg/avl"
	"github.com/arnav-k/cdawg/cdawgerr"
	"github.com/arnav-k/cdawg/tokenvec"
)

// Option configures a new Cdawg at construction time.
type Option func(*config)

type config struct {
	maxStateLength int64 // -1 = unbounded
	nodeCap        int
	edgeCap        int
}

// MaxStateLength records a cap on the longest substring the automaton
// represents explicitly; -1 (the default) means unbounded. The value is
// kept on the Cdawg and saved by persist; construction does not apply
// it, and evaluator walks take their own maxLength cap instead.
func MaxStateLength(n int64) Option {
	return func(c *config) { c.maxStateLength = n }
}

// InitialCapacity sizes the node and edge arenas' first allocation.
func InitialCapacity(nodeCap, edgeCap int) Option {
	return func(c *config) { c.nodeCap = nodeCap; c.edgeCap = edgeCap }
}

// Cdawg is an online CDAWG builder and the automaton it maintains. It is
// generic over the token id width, matching the tokenvec.Vector it reads
// from.
type Cdawg[T tokenvec.TokenID] struct {
	tok   *tokenvec.Vector[T]
	nodes *arena.Nodes
	edges *arena.Edges

	source uint32
	sink   uint32 // == source until the first edge is created

	maxStateLength int64

	// Active point: state is always an explicit node; (start, e-1) is
	// the implicit suffix remaining below it, where e == tok.Len() at
	// the moment Extend is called.
	state   uint32
	start   int
	pending int // number of extensions not yet resolved this call
}

// New creates an empty Cdawg reading token positions from tok. New does
// not consume tokens already in tok, and each Extend call absorbs only
// position tok.Len(), so a vector filled before New is not indexed
// position by position.
func New[T tokenvec.TokenID](tok *tokenvec.Vector[T], opts ...Option) (*Cdawg[T], error) {
	cfg := config{maxStateLength: -1, nodeCap: 64, edgeCap: 64}
	for _, opt := range opts {
		opt(&cfg)
	}

	nodes := arena.NewNodes(arena.NewRAMBacking(cfg.nodeCap, arena.NodeStride))
	edges := arena.NewEdges(arena.NewRAMBacking(cfg.edgeCap, arena.EdgeStride))

	source, err := nodes.Allocate()
	if err != nil {
		return nil, cdawgerr.Wrap("dawg.New", cdawgerr.ErrCapacity)
	}
	nodes.Set(source, arena.Node{Length: 0, Failure: arena.NilIndex, Count: 1})

	return &Cdawg[T]{
		tok:            tok,
		nodes:          nodes,
		edges:          edges,
		source:         source,
		sink:           source,
		maxStateLength: cfg.maxStateLength,
		state:          source,
		start:          1,
	}, nil
}

// NewOverArenas wires an already-allocated source/sink pair (used by
// persist.Load to resume a saved automaton without rebuilding from raw
// tokens).
func NewOverArenas[T tokenvec.TokenID](tok *tokenvec.Vector[T], nodes *arena.Nodes, edges *arena.Edges, source, sink uint32, maxStateLength int64) *Cdawg[T] {
	return &Cdawg[T]{
		tok:            tok,
		nodes:          nodes,
		edges:          edges,
		source:         source,
		sink:           sink,
		maxStateLength: maxStateLength,
		state:          source,
		start:          tok.Len() + 1,
	}
}

// GetSource returns the source node's index.
func (g *Cdawg[T]) GetSource() uint32 { return g.source }

// GetSink returns the sink node's index. Before the first token is
// absorbed, sink == source.
func (g *Cdawg[T]) GetSink() uint32 { return g.sink }

// Nodes exposes the underlying node arena for read-only inspection by
// evaluator and statutils.
func (g *Cdawg[T]) Nodes() *arena.Nodes { return g.nodes }

// Edges exposes the underlying edge arena for read-only inspection.
func (g *Cdawg[T]) Edges() *arena.Edges { return g.edges }

// Tokens exposes the token vector backing every edge span.
func (g *Cdawg[T]) Tokens() *tokenvec.Vector[T] { return g.tok }

// NodeCount returns the number of allocated nodes, including source.
func (g *Cdawg[T]) NodeCount() int { return int(g.nodes.Len()) }

// EdgeCount returns the number of allocated edges.
func (g *Cdawg[T]) EdgeCount() int { return int(g.edges.Len()) }

// MaxStateLength returns the configured cap, or -1 if unbounded.
func (g *Cdawg[T]) MaxStateLength() int64 { return g.maxStateLength }

func (g *Cdawg[T]) keyOf(edgeIdx uint32) uint32 {
	return uint32(g.tok.At(int(g.edges.Get(edgeIdx).SpanStart)))
}

// Extend absorbs the token already pushed at the current end of the
// token vector (tok.Len()), extending the automaton by one position.
// Each call is one transaction: it either fully updates every arena
// record the new token touches, or panics via cdawgerr.Fatal on an
// invariant violation — there is no partial-update state a caller could
// observe.
func (g *Cdawg[T]) Extend() error {
	e := g.tok.Len()
	if e == 0 {
		cdawgerr.Fatal("dawg: Extend called with no token pushed")
	}

	if g.sink != g.source {
		sinkRec := g.nodes.Get(g.sink)
		sinkRec.Length = uint64(e)
		g.nodes.Set(g.sink, sinkRec)
	}

	sourceRec := g.nodes.Get(g.source)
	sourceRec.Count = uint64(e + 1)
	g.nodes.Set(g.source, sourceRec)

	g.pending++
	var lastInternal uint32 = arena.NilIndex

	for g.pending > 0 {
		if g.start > e {
			// Nothing left below source to process this call.
			break
		}

		g.bumpCount(g.state)

		var edgeKey uint32
		if g.start > e-1 {
			// Active point sits exactly at an explicit state:
			// g.start == e, the pending range (start..e-1) is empty.
			edgeKey = uint32(g.tok.At(e))
		} else {
			edgeKey = uint32(g.tok.At(g.start))
		}

		edgeIdx, found := avl.Find(g.nodes, g.edges, g.state, edgeKey, g.keyOf)
		if !found {
			if err := g.insertLeaf(g.state, &lastInternal); err != nil {
				return err
			}

			g.pending--
			g.advanceAfterInsert()

			continue
		}

		edge := g.edges.Get(edgeIdx)
		matchedLen := e - g.start // tokens already matched along this edge before testing T[e]
		edgeLen := edge.EdgeLen(e)

		if matchedLen >= edgeLen {
			// Fully consumed this edge; descend and retry from target.
			g.state = edge.Target
			g.start += edgeLen

			continue
		}

		nextTok := g.tok.At(int(edge.SpanStart) + matchedLen)
		if uint32(nextTok) == uint32(g.tok.At(e)) {
			// Rule 3: implicit match, the whole call is done.
			if lastInternal != arena.NilIndex {
				g.setFailure(lastInternal, g.state)
			}

			return nil
		}

		// Rule 2, case B: split.
		m, err := g.split(g.state, edgeIdx, matchedLen)
		if err != nil {
			return err
		}

		if lastInternal != arena.NilIndex {
			g.setFailure(lastInternal, m)
		}
		lastInternal = m

		if err := g.addLeaf(m, e); err != nil {
			return err
		}

		g.pending--
		g.advanceAfterInsert()
	}

	return nil
}

func (g *Cdawg[T]) advanceAfterInsert() {
	if g.state == g.source {
		g.start++
	} else {
		g.state = g.nodes.Get(g.state).Failure
	}
}

func (g *Cdawg[T]) setFailure(node, target uint32) {
	n := g.nodes.Get(node)
	n.Failure = target
	g.nodes.Set(node, n)
}

// insertLeaf adds a fresh leaf edge from `from`, spanning the currently
// pending suffix through the open end, to the shared sink.
func (g *Cdawg[T]) insertLeaf(from uint32, lastInternal *uint32) error {
	if err := g.addLeaf(from, g.tok.Len()); err != nil {
		return err
	}

	if *lastInternal != arena.NilIndex {
		g.setFailure(*lastInternal, from)
		*lastInternal = arena.NilIndex
	}

	return nil
}

// addLeaf allocates (lazily creating sink on first use) and wires one
// open-ended edge from `from`, starting at token position start, to sink.
func (g *Cdawg[T]) addLeaf(from uint32, start int) error {
	if g.sink == g.source && g.source != arena.NilIndex {
		// Sink hasn't been allocated yet; allocate it now, as a real
		// node distinct from source.
		idx, err := g.nodes.Allocate()
		if err != nil {
			return cdawgerr.Wrap("dawg.addLeaf", cdawgerr.ErrCapacity)
		}
		g.nodes.Set(idx, arena.Node{Length: uint64(g.tok.Len())})
		g.sink = idx
	}

	edgeIdx, err := g.edges.Allocate()
	if err != nil {
		return cdawgerr.Wrap("dawg.addLeaf", cdawgerr.ErrCapacity)
	}

	g.edges.Set(edgeIdx, arena.Edge{
		SpanStart: uint32(start),
		SpanEnd:   arena.OpenEnd,
		Target:    g.sink,
	})
	avl.Insert(g.nodes, g.edges, from, edgeIdx, g.keyOf)

	return nil
}

// split breaks edgeIdx (outgoing from `from`) at matchedLen tokens in,
// inserting a new internal node m that inherits the tail of the original
// edge, and returns m.
func (g *Cdawg[T]) split(from, edgeIdx uint32, matchedLen int) (uint32, error) {
	orig := g.edges.Get(edgeIdx)

	m, err := g.nodes.Allocate()
	if err != nil {
		return arena.NilIndex, cdawgerr.Wrap("dawg.split", cdawgerr.ErrCapacity)
	}

	fromLen := g.nodes.Get(from).Length
	g.nodes.Set(m, arena.Node{
		Length: fromLen + uint64(matchedLen),
		Count:  2, // the pre-existing occurrence plus the one causing this split
	})

	splitPoint := orig.SpanStart + uint32(matchedLen)

	// The head keeps its original key (SpanStart unchanged), so no AVL
	// re-insertion is needed for `from`'s tree; only its span and target
	// change, which Find never re-probes by.
	head := orig
	head.SpanEnd = splitPoint
	head.Target = m
	g.edges.Set(edgeIdx, head)

	tailIdx, err := g.edges.Allocate()
	if err != nil {
		return arena.NilIndex, cdawgerr.Wrap("dawg.split", cdawgerr.ErrCapacity)
	}
	g.edges.Set(tailIdx, arena.Edge{
		SpanStart: splitPoint,
		SpanEnd:   orig.SpanEnd,
		Target:    orig.Target,
	})
	avl.Insert(g.nodes, g.edges, m, tailIdx, g.keyOf)

	return m, nil
}

// bumpCount records one more extension passing through an internal node
// beyond its initial creation, per the incremental counting scheme: every
// explicit, non-source state's count grows by one each time it is
// revisited as the active state while absorbing a later token. Source's
// count is fixed at n+1 by Count; sink's stored count is unused by
// entropy, which treats every edge into it as a single occurrence (an
// open edge, never having been split, cannot yet represent more than one
// indistinguishable occurrence).
func (g *Cdawg[T]) bumpCount(node uint32) {
	if node == g.source || node == g.sink {
		return
	}

	n := g.nodes.Get(node)
	n.Count++
	g.nodes.Set(node, n)
}

// Count returns the occurrence count for node, special-casing source
// (always n+1, the number of suffixes including the empty one); every
// other node, sink included, reports its stored Count. The sink case is
// handled per edge by EdgeTargetCount, which counts an edge into sink as
// 1, since an edge that has never been split cannot yet be distinguished
// from any other single, as-yet-unbranched occurrence.
func (g *Cdawg[T]) Count(node uint32) uint64 {
	if node == g.source {
		return uint64(g.tok.Len() + 1)
	}

	return g.nodes.Get(node).Count
}

// EdgeTargetCount returns the occurrence count to use for the target of
// a specific outgoing edge, which for an edge into sink is always 1
// regardless of sink's own stored Count (see Count's doc comment).
func (g *Cdawg[T]) EdgeTargetCount(edgeIdx uint32) uint64 {
	target := g.edges.Get(edgeIdx).Target
	if target == g.sink {
		return 1
	}

	return g.Count(target)
}
