// Package persist saves and loads a built Cdawg to and from a directory
// of files: memory-mapped node and edge arenas plus a packed token
// vector, coordinated by a small JSON metadata file.
package persist

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/arnav-k/cdawg/arena"
	"github.com/arnav-k/cdawg/cdawgerr"
	"github.com/arnav-k/cdawg/dawg"
	"github.com/arnav-k/cdawg/tokenvec"
)

const (
	nodesFile    = "nodes.vec"
	edgesFile    = "edges.vec"
	tokensFile   = "tokens.bin"
	metadataFile = "metadata.json"
)

// metadata is the only piece of state that doesn't live naturally inside
// one of the arena/token files: the source/sink indices and the maximum
// explicit state length the automaton was built with. It is encoded with
// plain encoding/json — no third-party JSON library appears anywhere in
// the reference corpus this project draws its dependencies from, so
// there is nothing to adopt instead.
type metadata struct {
	Source         uint32 `json:"source"`
	Sink           uint32 `json:"sink"`
	NodeCount      int    `json:"e"`
	MaxStateLength int64  `json:"max_state_length"`
}

// Save writes g's full state to dir, creating it if necessary. The
// directory is self-contained: Load(dir) reconstructs an equivalent
// Cdawg from it alone.
func Save[T tokenvec.TokenID](dir string, g *dawg.Cdawg[T]) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cdawgerr.Wrap("persist.Save", cdawgerr.ErrIO)
	}

	if err := g.Tokens().Save(filepath.Join(dir, tokensFile)); err != nil {
		return err
	}

	if err := saveNodes(filepath.Join(dir, nodesFile), g.Nodes()); err != nil {
		return err
	}

	if err := saveEdges(filepath.Join(dir, edgesFile), g.Edges()); err != nil {
		return err
	}

	meta := metadata{
		Source:         g.GetSource(),
		Sink:           g.GetSink(),
		NodeCount:      g.NodeCount(),
		MaxStateLength: g.MaxStateLength(),
	}

	f, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return cdawgerr.Wrap("persist.Save", cdawgerr.ErrIO)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return cdawgerr.Wrap("persist.Save", cdawgerr.ErrIO)
	}

	return nil
}

// saveNodes copies src's records, in order, into a fresh memory-mapped
// file at path, record by record through the public Get/Allocate/Set
// surface — Save works the same whether the source arena is RAM- or
// file-backed.
func saveNodes(path string, src *arena.Nodes) error {
	n := src.Len()

	backing, err := arena.NewFileBacking(path, int(n), arena.NodeStride)
	if err != nil {
		return err
	}
	dst := arena.NewNodes(backing)

	for idx := uint32(1); idx <= n; idx++ {
		dstIdx, err := dst.Allocate()
		if err != nil {
			return cdawgerr.Wrap("persist.saveNodes", cdawgerr.ErrCapacity)
		}
		dst.Set(dstIdx, src.Get(idx))
	}

	if err := dst.Flush(); err != nil {
		return err
	}

	return dst.Close()
}

func saveEdges(path string, src *arena.Edges) error {
	n := src.Len()

	backing, err := arena.NewFileBacking(path, int(n), arena.EdgeStride)
	if err != nil {
		return err
	}
	dst := arena.NewEdges(backing)

	for idx := uint32(1); idx <= n; idx++ {
		dstIdx, err := dst.Allocate()
		if err != nil {
			return cdawgerr.Wrap("persist.saveEdges", cdawgerr.ErrCapacity)
		}
		dst.Set(dstIdx, src.Get(idx))
	}

	if err := dst.Flush(); err != nil {
		return err
	}

	return dst.Close()
}

// Load reconstructs a Cdawg previously written by Save, re-opening its
// arenas as memory-mapped files rather than copying them into RAM.
func Load[T tokenvec.TokenID](dir string) (*dawg.Cdawg[T], error) {
	f, err := os.Open(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, cdawgerr.Wrap("persist.Load", cdawgerr.ErrIO)
	}
	defer f.Close()

	var meta metadata
	if err := json.NewDecoder(f).Decode(&meta); err != nil {
		return nil, cdawgerr.Wrap("persist.Load", cdawgerr.ErrDecode)
	}

	tok, err := tokenvec.Load[T](filepath.Join(dir, tokensFile))
	if err != nil {
		return nil, err
	}

	nodeBacking, err := arena.NewFileBacking(filepath.Join(dir, nodesFile), 16, arena.NodeStride)
	if err != nil {
		return nil, err
	}
	nodes := arena.NewNodes(nodeBacking)

	edgeBacking, err := arena.NewFileBacking(filepath.Join(dir, edgesFile), 16, arena.EdgeStride)
	if err != nil {
		return nil, err
	}
	edges := arena.NewEdges(edgeBacking)

	return dawg.NewOverArenas(tok, nodes, edges, meta.Source, meta.Sink, meta.MaxStateLength), nil
}
