// Package statutils derives per-state transition probabilities and
// Shannon entropy from a built Cdawg, treating the gap between a state's
// total occurrence count and the sum of its children's counts as an
// implicit end-of-sequence symbol.
package statutils

import (
	"math"

	"github.com/arnav-k/cdawg/arena"
	"github.com/arnav-k/cdawg/avl"
)

// Graph is the subset of *dawg.Cdawg[T] entropy computation needs.
type Graph interface {
	GetSink() uint32
	Nodes() *arena.Nodes
	Edges() *arena.Edges
	Count(node uint32) uint64
	EdgeTargetCount(edgeIdx uint32) uint64
}

// Entropy computes H(state) = -sum p_e log2(p_e) over state's outgoing
// edges, where p_e = EdgeTargetCount(e) / Count(state), plus one
// additional term for the residual probability mass
// (Count(state) - sum of edge counts) / Count(state), which stands in
// for the state terminating here (an implicit end-of-sequence symbol).
//
// Entropy of a state with no outgoing edges is 0 (all mass is the
// residual term, -1*log2(1) = 0).
func Entropy(g Graph, state uint32) float64 {
	denom := g.Count(state)
	if denom == 0 {
		return 0
	}

	var sumNum uint64
	var h float64

	avl.InOrder(g.Nodes(), g.Edges(), state, func(edgeIdx uint32) bool {
		num := g.EdgeTargetCount(edgeIdx)
		sumNum += num
		h += term(num, denom)

		return true
	})

	residual := int64(denom) - int64(sumNum)
	if residual > 0 {
		h += term(uint64(residual), denom)
	}

	return h
}

func term(num, denom uint64) float64 {
	if num == 0 {
		return 0
	}

	p := float64(num) / float64(denom)

	return -p * math.Log2(p)
}

// TransitionProbabilities returns, for each outgoing edge of state in
// ascending key order, the probability mass it carries.
func TransitionProbabilities(g Graph, state uint32) []float64 {
	denom := g.Count(state)
	if denom == 0 {
		return nil
	}

	var out []float64
	avl.InOrder(g.Nodes(), g.Edges(), state, func(edgeIdx uint32) bool {
		out = append(out, float64(g.EdgeTargetCount(edgeIdx))/float64(denom))

		return true
	})

	return out
}
