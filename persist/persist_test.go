package persist_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnav-k/cdawg/dawg"
	"github.com/arnav-k/cdawg/persist"
	"github.com/arnav-k/cdawg/tokenvec"
)

func build(t *testing.T, toks []uint16) *dawg.Cdawg[uint16] {
	t.Helper()

	tok := tokenvec.New[uint16](len(toks))
	g, err := dawg.New(tok)
	require.NoError(t, err)

	for _, tk := range toks {
		tok.Push(tk)
		require.NoError(t, g.Extend())
	}

	return g
}

func TestSaveThenLoadReproducesStructure(t *testing.T) {
	g := build(t, []uint16{1, 2, 1, 3, 2, 1})
	dir := filepath.Join(t.TempDir(), "graph")

	require.NoError(t, persist.Save(dir, g))

	loaded, err := persist.Load[uint16](dir)
	require.NoError(t, err)

	assert.Equal(t, g.NodeCount(), loaded.NodeCount())
	assert.Equal(t, g.EdgeCount(), loaded.EdgeCount())
	assert.Equal(t, g.GetSource(), loaded.GetSource())
	assert.Equal(t, g.GetSink(), loaded.GetSink())
	assert.Equal(t, g.Tokens().Len(), loaded.Tokens().Len())

	for idx := uint32(1); idx <= uint32(g.NodeCount()); idx++ {
		assert.Equal(t, g.Nodes().Get(idx), loaded.Nodes().Get(idx))
	}
	for idx := uint32(1); idx <= uint32(g.EdgeCount()); idx++ {
		assert.Equal(t, g.Edges().Get(idx), loaded.Edges().Get(idx))
	}
	for pos := 1; pos <= g.Tokens().Len(); pos++ {
		assert.Equal(t, g.Tokens().At(pos), loaded.Tokens().At(pos))
	}
}

func TestLoadedGraphContinuesConstruction(t *testing.T) {
	g := build(t, []uint16{1, 2, 1})
	dir := filepath.Join(t.TempDir(), "graph")
	require.NoError(t, persist.Save(dir, g))

	loaded, err := persist.Load[uint16](dir)
	require.NoError(t, err)

	loaded.Tokens().Push(3)
	require.NoError(t, loaded.Extend())
	assert.Equal(t, 4, loaded.Tokens().Len())
}
