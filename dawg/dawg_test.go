package dawg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnav-k/cdawg/arena"
	"github.com/arnav-k/cdawg/dawg"
	"github.com/arnav-k/cdawg/tokenvec"
)

func build(t *testing.T, toks []uint16) (*dawg.Cdawg[uint16], *tokenvec.Vector[uint16]) {
	t.Helper()

	tok := tokenvec.New[uint16](len(toks))
	g, err := dawg.New(tok)
	require.NoError(t, err)

	for _, tk := range toks {
		tok.Push(tk)
		require.NoError(t, g.Extend())
	}

	return g, tok
}

func TestEmptyCorpusSourceEqualsSink(t *testing.T) {
	tok := tokenvec.New[uint16](0)
	g, err := dawg.New(tok)
	require.NoError(t, err)

	assert.Equal(t, g.GetSource(), g.GetSink())
	assert.Equal(t, 1, g.NodeCount())
}

func TestRepeatedTokenStaysAtTwoNodes(t *testing.T) {
	g, _ := build(t, []uint16{1, 1, 1, 1, 1})

	assert.Equal(t, 2, g.NodeCount(), "source and sink only; a run of one repeated token never forces a split")
	assert.Equal(t, 1, g.EdgeCount())
	assert.NotEqual(t, g.GetSource(), g.GetSink())
}

func TestTwoDistinctTokensNoSplitNeeded(t *testing.T) {
	g, _ := build(t, []uint16{1, 2})

	// "ab": both 'a' and 'b' are fresh insertions directly from source,
	// neither requires descending into an existing edge, so no internal
	// node is ever created.
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
}

func TestRepeatedPrefixForcesSplitWithCorrectFailureLink(t *testing.T) {
	// T = a, b, a, c: the second 'a' matches implicitly (rule 3), then the
	// following 'c' forces a split of the open edge that starts with 'a'
	// (its next token 'b' does not agree with 'c'), producing an internal state of
	// length 1 whose failure link is source.
	g, _ := build(t, []uint16{1, 2, 1, 3})

	found := false
	for idx := uint32(1); idx <= uint32(g.NodeCount()); idx++ {
		n := g.Nodes().Get(idx)
		if idx == g.GetSource() || idx == g.GetSink() {
			continue
		}
		if n.Length == 1 && n.Failure == g.GetSource() {
			found = true
		}
	}

	assert.True(t, found, "expected an internal node of length 1 failing to source")
}

func TestNodeAndEdgeCountBoundedLinearly(t *testing.T) {
	// P4: node_count <= 2n, edge_count <= 3n, for a less trivial corpus
	// with genuine repeats and branches.
	toks := []uint16{1, 2, 3, 1, 2, 4, 1, 2, 3, 5, 2, 1}
	g, _ := build(t, toks)

	n := len(toks)
	assert.LessOrEqual(t, g.NodeCount(), 2*n)
	assert.LessOrEqual(t, g.EdgeCount(), 3*n)
}

func TestSinkLengthAlwaysEqualsCurrentTokenCount(t *testing.T) {
	tok := tokenvec.New[uint16](0)
	g, err := dawg.New(tok)
	require.NoError(t, err)

	for i, tk := range []uint16{1, 2, 1, 3, 2} {
		tok.Push(tk)
		require.NoError(t, g.Extend())

		if g.GetSink() != g.GetSource() {
			assert.Equal(t, uint64(i+1), g.Nodes().Get(g.GetSink()).Length)
		}
	}
}

func TestSourceCountEqualsTokenCountPlusOne(t *testing.T) {
	g, tok := build(t, []uint16{1, 2, 3, 1, 2})

	assert.Equal(t, uint64(tok.Len()+1), g.Count(g.GetSource()))
}

func TestEveryEdgeSpanHasPositiveLength(t *testing.T) {
	g, _ := build(t, []uint16{1, 2, 3, 1, 2, 4})

	for idx := uint32(1); idx <= uint32(g.EdgeCount()); idx++ {
		e := g.Edges().Get(idx)
		assert.Greater(t, e.EdgeLen(g.Tokens().Len()), 0)
		assert.NotEqual(t, arena.NilIndex, e.Target)
	}
}
