// Package evaluator walks a built Cdawg against a held-out token
// sequence, reporting the longest suffix of the text seen so far that
// also occurs somewhere in the training corpus — the core signal used
// to score a model's memorization/generalization split.
package evaluator

import (
	"github.com/arnav-k/cdawg/arena"
	"github.com/arnav-k/cdawg/avl"
)

// Graph is the subset of *dawg.Cdawg[T] the evaluator needs. Taking the
// arena/AVL layer directly, rather than importing package dawg, keeps
// Evaluator usable against any token width without itself being generic:
// callers widen their training-corpus tokens to uint32 once, at the
// TokenAt closure, rather than the evaluator needing a type parameter.
type Graph interface {
	GetSource() uint32
	Nodes() *arena.Nodes
	Edges() *arena.Edges
}

// Evaluator tracks the current match position while stepping through a
// held-out token sequence one token at a time.
type Evaluator struct {
	g         Graph
	tokenAt   func(pos int) uint32 // training-corpus token at a 1-based position
	corpusLen func() int
	maxLength int // <=0 means unbounded

	state      uint32 // anchor: the last explicit state reached
	edgeIdx    uint32 // NilIndex if sitting exactly at state
	matchedLen int    // tokens matched along edgeIdx, when mid-edge
	matched    int    // true length of the longest suffix matched so far
}

// New starts a fresh walk at g's source.
//
//	tokenAt   resolves a 1-based position in the training corpus to a token.
//	corpusLen returns the training corpus's current length (to resolve open edges).
//	maxLength caps the longest suffix match ever reported; <=0 means unbounded.
func New(g Graph, tokenAt func(pos int) uint32, corpusLen func() int, maxLength int) *Evaluator {
	return &Evaluator{g: g, tokenAt: tokenAt, corpusLen: corpusLen, maxLength: maxLength, state: g.GetSource()}
}

// Step absorbs one held-out token and returns the length of the longest
// training-corpus suffix match ending at this position.
//
// matched is tracked as a running counter, incremented one token at a
// time, rather than ever being derived from a node's own Length: every
// open (never-split) edge targets the single shared sink, whose Length
// is kept equal to the training corpus's current size and says nothing
// about how much of the held-out text actually matched getting there.
func (e *Evaluator) Step(tok uint32) int {
	n := e.corpusLen()

	for {
		if e.edgeIdx != arena.NilIndex {
			edge := e.g.Edges().Get(e.edgeIdx)
			if e.tokenAt(int(edge.SpanStart)+e.matchedLen) == tok {
				e.matchedLen++
				e.matched++
				if edge.EdgeLen(n) == e.matchedLen {
					e.state = edge.Target
					e.edgeIdx = arena.NilIndex
					e.matchedLen = 0
				}

				return e.cap()
			}

			e.dropToFailure()

			continue
		}

		edgeIdx, found := avl.Find(e.g.Nodes(), e.g.Edges(), e.state, tok, func(idx uint32) uint32 {
			return e.tokenAt(int(e.g.Edges().Get(idx).SpanStart))
		})
		if !found {
			if e.state == e.g.GetSource() {
				return e.cap()
			}

			e.dropToFailure()

			continue
		}

		edge := e.g.Edges().Get(edgeIdx)
		e.matched++
		if edge.EdgeLen(n) == 1 {
			e.state = edge.Target
			e.edgeIdx = arena.NilIndex

			return e.cap()
		}

		e.edgeIdx = edgeIdx
		e.matchedLen = 1

		return e.cap()
	}
}

// dropToFailure abandons the current partial match and falls back to
// the longest still-matching suffix: follow the anchor state's failure
// link and resume from there, with matched clamped down to that state's
// own Length — exactly the state/length pair the failure link promises
// is still a valid match. Source has no failure link and represents the
// empty match, so dropping from source simply resets to empty; sink has
// no failure link either, so dropping from sink resets to source with an
// empty match.
func (e *Evaluator) dropToFailure() {
	e.edgeIdx = arena.NilIndex
	e.matchedLen = 0

	failure := e.g.Nodes().Get(e.state).Failure
	if e.state == e.g.GetSource() || failure == arena.NilIndex {
		e.state = e.g.GetSource()
		e.matched = 0

		return
	}

	e.state = failure
	e.matched = int(e.g.Nodes().Get(e.state).Length)
}

func (e *Evaluator) cap() int {
	if e.maxLength > 0 && e.matched > e.maxLength {
		return e.maxLength
	}

	return e.matched
}

// Run evaluates every token in test against g, returning the matched
// length ending at each position, in order.
func Run(g Graph, tokenAt func(pos int) uint32, corpusLen func() int, maxLength int, test []uint32) []int {
	ev := New(g, tokenAt, corpusLen, maxLength)
	out := make([]int, len(test))
	for i, tok := range test {
		out[i] = ev.Step(tok)
	}

	return out
}
