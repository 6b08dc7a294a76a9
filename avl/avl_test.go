package avl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnav-k/cdawg/arena"
	"github.com/arnav-k/cdawg/avl"
)

// tree bundles the arenas, a node, and the key-lookup closure Insert/Find
// need, plus the keys map the test itself can inspect.
type tree struct {
	nodes *arena.Nodes
	edges *arena.Edges
	node  uint32
	keys  map[uint32]uint32 // edgeIdx -> key
}

func (tr *tree) keyOf(edgeIdx uint32) uint32 { return tr.keys[edgeIdx] }

func (tr *tree) insert(t *testing.T, key uint32) uint32 {
	t.Helper()

	idx, err := tr.edges.Allocate()
	require.NoError(t, err)
	tr.keys[idx] = key
	avl.Insert(tr.nodes, tr.edges, tr.node, idx, tr.keyOf)

	return idx
}

func newTree(t *testing.T) *tree {
	t.Helper()

	nodes := arena.NewNodes(arena.NewRAMBacking(4, arena.NodeStride))
	edges := arena.NewEdges(arena.NewRAMBacking(4, arena.EdgeStride))
	node, err := nodes.Allocate()
	require.NoError(t, err)

	return &tree{nodes: nodes, edges: edges, node: node, keys: map[uint32]uint32{}}
}

func TestFindLocatesEveryInsertedKey(t *testing.T) {
	tr := newTree(t)
	for _, k := range []uint32{5, 3, 8, 1, 4, 7, 9} {
		tr.insert(t, k)
	}

	for _, k := range []uint32{5, 3, 8, 1, 4, 7, 9} {
		idx, found := avl.Find(tr.nodes, tr.edges, tr.node, k, tr.keyOf)
		require.True(t, found, "expected to find key %d", k)
		assert.Equal(t, k, tr.keyOf(idx))
	}

	_, found := avl.Find(tr.nodes, tr.edges, tr.node, 42, tr.keyOf)
	assert.False(t, found)
}

func TestInOrderYieldsAscendingKeys(t *testing.T) {
	tr := newTree(t)
	order := []uint32{50, 20, 70, 10, 30, 60, 80, 5, 15}
	for _, k := range order {
		tr.insert(t, k)
	}

	var seen []uint32
	avl.InOrder(tr.nodes, tr.edges, tr.node, func(edgeIdx uint32) bool {
		seen = append(seen, tr.keyOf(edgeIdx))
		return true
	})

	require.Len(t, seen, len(order))
	for i := 1; i < len(seen); i++ {
		assert.Less(t, seen[i-1], seen[i], "in-order traversal must yield strictly ascending keys")
	}
}

func TestInOrderEarlyStop(t *testing.T) {
	tr := newTree(t)
	for _, k := range []uint32{1, 2, 3, 4, 5} {
		tr.insert(t, k)
	}

	var seen []uint32
	avl.InOrder(tr.nodes, tr.edges, tr.node, func(edgeIdx uint32) bool {
		seen = append(seen, tr.keyOf(edgeIdx))
		return len(seen) < 2
	})

	assert.Len(t, seen, 2)
}

func TestBalanceRatioStaysBoundedAfterManyInserts(t *testing.T) {
	tr := newTree(t)
	for i := uint32(1); i <= 200; i++ {
		tr.insert(t, i) // ascending-order insertion is the worst case for an unbalanced BST
	}

	ratio := avl.BalanceRatio(tr.nodes, tr.edges, tr.node)
	assert.Less(t, ratio, 3.0, "AVL tree depth should stay within a small constant of log2(n)")
}

func TestCountMatchesNumberOfInserts(t *testing.T) {
	tr := newTree(t)
	for _, k := range []uint32{9, 1, 5, 3, 7} {
		tr.insert(t, k)
	}

	assert.Equal(t, 5, avl.Count(tr.nodes, tr.edges, tr.node))
}
