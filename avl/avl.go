// Package avl implements the balanced per-node adjacency structure used
// to look up a CDAWG state's outgoing edges by their leading token in
// O(log degree) instead of a linear scan.
//
// Each node's adjacency is an independent AVL tree threaded through the
// Left/Right/Balance fields of its own outgoing Edge records; nothing is
// shared between trees belonging to different nodes. Keys are supplied
// by the caller (the token at an edge's span start) rather than stored,
// since the arena's Edge record has no key field of its own.
package avl

import (
	"math"

	"github.com/arnav-k/cdawg/arena"
)

// KeyFunc returns the ordering key for the edge at idx.
type KeyFunc func(edgeIdx uint32) uint32

// Find looks up the child of node keyed by key, returning NilIndex and
// false if no such edge exists.
func Find(nodes *arena.Nodes, edges *arena.Edges, node uint32, key uint32, keyOf KeyFunc) (uint32, bool) {
	cur := nodes.Get(node).FirstEdge
	for cur != arena.NilIndex {
		e := edges.Get(cur)
		k := keyOf(cur)
		switch {
		case key == k:
			return cur, true
		case key < k:
			cur = e.Left
		default:
			cur = e.Right
		}
	}

	return arena.NilIndex, false
}

// Insert adds newEdge (already allocated, with Left/Right/Balance still
// zero) into node's adjacency tree, rebalancing as needed. An edge
// already in the tree with the same key is replaced by newEdge.
func Insert(nodes *arena.Nodes, edges *arena.Edges, node uint32, newEdge uint32, keyOf KeyFunc) {
	root := nodes.Get(node).FirstEdge
	root, _ = insert(edges, root, newEdge, keyOf)
	n := nodes.Get(node)
	n.FirstEdge = root
	nodes.Set(node, n)
}

// insert returns the new subtree root and whether the subtree's height grew.
func insert(edges *arena.Edges, root uint32, newEdge uint32, keyOf KeyFunc) (uint32, bool) {
	if root == arena.NilIndex {
		return newEdge, true
	}

	e := edges.Get(root)
	key, newKey := keyOf(root), keyOf(newEdge)

	switch {
	case newKey < key:
		child, grew := insert(edges, e.Left, newEdge, keyOf)
		e.Left = child
		edges.Set(root, e)
		if grew {
			return rebalanceAfterLeftGrowth(edges, root)
		}

		return root, false
	case newKey > key:
		child, grew := insert(edges, e.Right, newEdge, keyOf)
		e.Right = child
		edges.Set(root, e)
		if grew {
			return rebalanceAfterRightGrowth(edges, root)
		}

		return root, false
	default:
		// Key collision: sibling edges must have distinct leading
		// tokens (I3), so newEdge replaces root in the tree, taking
		// over its children and balance.
		n := edges.Get(newEdge)
		n.Left, n.Right, n.Balance = e.Left, e.Right, e.Balance
		edges.Set(newEdge, n)

		return newEdge, false
	}
}

func rebalanceAfterLeftGrowth(edges *arena.Edges, root uint32) (uint32, bool) {
	e := edges.Get(root)
	e.Balance--
	edges.Set(root, e)

	switch e.Balance {
	case 0:
		return root, false
	case -1:
		return root, true
	default: // -2: rotate
		return rotateLeftHeavy(edges, root), false
	}
}

func rebalanceAfterRightGrowth(edges *arena.Edges, root uint32) (uint32, bool) {
	e := edges.Get(root)
	e.Balance++
	edges.Set(root, e)

	switch e.Balance {
	case 0:
		return root, false
	case 1:
		return root, true
	default: // 2: rotate
		return rotateRightHeavy(edges, root), false
	}
}

func rotateLeftHeavy(edges *arena.Edges, root uint32) uint32 {
	e := edges.Get(root)
	left := edges.Get(e.Left)
	if left.Balance <= 0 {
		return rotateRight(edges, root)
	}

	e.Left = rotateLeft(edges, e.Left)
	edges.Set(root, e)

	return rotateRight(edges, root)
}

func rotateRightHeavy(edges *arena.Edges, root uint32) uint32 {
	e := edges.Get(root)
	right := edges.Get(e.Right)
	if right.Balance >= 0 {
		return rotateLeft(edges, root)
	}

	e.Right = rotateRight(edges, e.Right)
	edges.Set(root, e)

	return rotateLeft(edges, root)
}

// rotateLeft rotates root down-left, promoting its right child.
func rotateLeft(edges *arena.Edges, root uint32) uint32 {
	e := edges.Get(root)
	pivot := e.Right
	p := edges.Get(pivot)

	e.Right = p.Left
	edges.Set(root, e)

	p.Left = root
	edges.Set(pivot, p)

	fixupBalanceAfterRotateLeft(edges, root, pivot)

	return pivot
}

// rotateRight rotates root down-right, promoting its left child.
func rotateRight(edges *arena.Edges, root uint32) uint32 {
	e := edges.Get(root)
	pivot := e.Left
	p := edges.Get(pivot)

	e.Left = p.Right
	edges.Set(root, e)

	p.Right = root
	edges.Set(pivot, p)

	fixupBalanceAfterRotateRight(edges, root, pivot)

	return pivot
}

func fixupBalanceAfterRotateLeft(edges *arena.Edges, root, pivot uint32) {
	rootRec := edges.Get(root)
	pivotRec := edges.Get(pivot)

	if pivotRec.Balance >= 0 {
		rootRec.Balance = rootRec.Balance - 1 - pivotRec.Balance
	} else {
		rootRec.Balance = rootRec.Balance - 1
	}

	if rootRec.Balance <= 0 {
		pivotRec.Balance = pivotRec.Balance - 1 + rootRec.Balance
	} else {
		pivotRec.Balance = pivotRec.Balance - 1
	}

	edges.Set(root, rootRec)
	edges.Set(pivot, pivotRec)
}

func fixupBalanceAfterRotateRight(edges *arena.Edges, root, pivot uint32) {
	rootRec := edges.Get(root)
	pivotRec := edges.Get(pivot)

	if pivotRec.Balance <= 0 {
		rootRec.Balance = rootRec.Balance + 1 - pivotRec.Balance
	} else {
		rootRec.Balance = rootRec.Balance + 1
	}

	if rootRec.Balance >= 0 {
		pivotRec.Balance = pivotRec.Balance + 1 + rootRec.Balance
	} else {
		pivotRec.Balance = pivotRec.Balance + 1
	}

	edges.Set(root, rootRec)
	edges.Set(pivot, pivotRec)
}

func max8(a, b int8) int8 {
	if a > b {
		return a
	}

	return b
}

func min8(a, b int8) int8 {
	if a < b {
		return a
	}

	return b
}

// InOrder visits every edge in node's adjacency tree in ascending key
// order, stopping early if visit returns false.
func InOrder(nodes *arena.Nodes, edges *arena.Edges, node uint32, visit func(edgeIdx uint32) bool) {
	inOrder(edges, nodes.Get(node).FirstEdge, visit)
}

func inOrder(edges *arena.Edges, root uint32, visit func(edgeIdx uint32) bool) bool {
	if root == arena.NilIndex {
		return true
	}

	e := edges.Get(root)
	if !inOrder(edges, e.Left, visit) {
		return false
	}
	if !visit(root) {
		return false
	}

	return inOrder(edges, e.Right, visit)
}

// Depth returns the height of node's adjacency tree (0 for an empty tree).
func Depth(nodes *arena.Nodes, edges *arena.Edges, node uint32) int {
	return depth(edges, nodes.Get(node).FirstEdge)
}

func depth(edges *arena.Edges, root uint32) int {
	if root == arena.NilIndex {
		return 0
	}

	e := edges.Get(root)
	l, r := depth(edges, e.Left), depth(edges, e.Right)
	if l > r {
		return l + 1
	}

	return r + 1
}

// Count returns the number of edges in node's adjacency tree.
func Count(nodes *arena.Nodes, edges *arena.Edges, node uint32) int {
	n := 0
	InOrder(nodes, edges, node, func(uint32) bool { n++; return true })

	return n
}

// BalanceRatio is the diagnostic max_depth / log2(edge_count+2) described
// for monitoring adjacency-tree health: close to 1 for a well-balanced
// tree, growing unbounded only if rotations have a bug.
func BalanceRatio(nodes *arena.Nodes, edges *arena.Edges, node uint32) float64 {
	d := Depth(nodes, edges, node)
	c := Count(nodes, edges, node)

	return float64(d) / math.Log2(float64(c+2))
}
