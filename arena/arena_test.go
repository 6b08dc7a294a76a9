package arena_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnav-k/cdawg/arena"
)

func TestNodesRAMAllocateAndGetSet(t *testing.T) {
	nodes := arena.NewNodes(arena.NewRAMBacking(2, arena.NodeStride))

	idx1, err := nodes.Allocate()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), idx1)

	idx2, err := nodes.Allocate()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), idx2)

	nodes.Set(idx1, arena.Node{Length: 3, Count: 7})
	got := nodes.Get(idx1)
	assert.Equal(t, uint64(3), got.Length)
	assert.Equal(t, uint64(7), got.Count)

	// idx2 untouched, still zero.
	assert.Equal(t, arena.Node{}, nodes.Get(idx2))
}

func TestNodesRAMGrowsPastInitialCapacity(t *testing.T) {
	nodes := arena.NewNodes(arena.NewRAMBacking(1, arena.NodeStride))

	var last uint32
	for i := 0; i < 40; i++ {
		idx, err := nodes.Allocate()
		require.NoError(t, err)
		last = idx
	}

	assert.Equal(t, uint32(40), last)
	assert.Equal(t, uint32(40), nodes.Len())
}

func TestEdgeOpenEndResolvesAgainstCurrentLength(t *testing.T) {
	e := arena.Edge{SpanStart: 3, SpanEnd: arena.OpenEnd}
	assert.True(t, e.Open())
	assert.Equal(t, uint32(8), e.End(7))
	assert.Equal(t, 5, e.EdgeLen(7))

	closed := arena.Edge{SpanStart: 3, SpanEnd: 5}
	assert.False(t, closed.Open())
	assert.Equal(t, uint32(5), closed.End(100))
	assert.Equal(t, 2, closed.EdgeLen(100))
}

func TestFileBackingPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.arena")

	b1, err := arena.NewFileBacking(path, 4, arena.EdgeStride)
	require.NoError(t, err)
	edges := arena.NewEdges(b1)

	idx, err := edges.Allocate()
	require.NoError(t, err)
	edges.Set(idx, arena.Edge{SpanStart: 1, SpanEnd: 2, Target: 2})
	require.NoError(t, edges.Flush())
	require.NoError(t, edges.Close())

	b2, err := arena.NewFileBacking(path, 4, arena.EdgeStride)
	require.NoError(t, err)
	reopened := arena.NewEdges(b2)

	assert.Equal(t, uint32(1), reopened.Len())
	got := reopened.Get(idx)
	assert.Equal(t, uint32(1), got.SpanStart)
	assert.Equal(t, uint32(2), got.SpanEnd)
	assert.Equal(t, uint32(2), got.Target)
	require.NoError(t, reopened.Close())
}
