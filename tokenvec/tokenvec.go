// Package tokenvec implements the append-only token id sequence that backs
// every edge span in a CDAWG.
//
// A Vector is the one object aliased between the construction algorithm and
// the outside world while a corpus is being indexed: the algorithm reads
// positions it has itself just written while resolving edge splits, and a
// caller may be streaming in new tokens from a reader at the same time. The
// contract that makes this safe without fine-grained coordination is that a
// position, once written, is immutable — growth only ever appends.
package tokenvec

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"sync"

	"github.com/arnav-k/cdawg/cdawgerr"
)

// TokenID is the constraint satisfied by every token id width this package
// supports. The CLI defaults to uint16, matching the 16-bit default noted
// for the on-disk token width.
type TokenID interface {
	~uint16 | ~uint32
}

// Vector is an append-only, 1-indexed sequence of token ids.
//
// Positions are stable: once Push returns a position, At(position) always
// returns the same value for the lifetime of the Vector. A single RWMutex
// guards the backing slice; the arenas hold no lock of their own.
type Vector[T TokenID] struct {
	mu   sync.RWMutex
	toks []T // toks[0] is position 1; toks is never truncated
}

// New returns an empty Vector with capacity pre-sized for cap tokens.
func New[T TokenID](capacity int) *Vector[T] {
	if capacity < 0 {
		capacity = 0
	}

	return &Vector[T]{toks: make([]T, 0, capacity)}
}

// Push appends tok and returns its stable 1-based position.
func (v *Vector[T]) Push(tok T) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.toks = append(v.toks, tok)

	return len(v.toks)
}

// At returns the token written at the given 1-based position. It panics if
// pos is out of range: every caller in this module only ever references
// positions the automaton has already absorbed, so an out-of-range request
// indicates an invariant violation (I5), not user error.
func (v *Vector[T]) At(pos int) T {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if pos < 1 || pos > len(v.toks) {
		cdawgerr.Fatal("tokenvec: position out of range")
	}

	return v.toks[pos-1]
}

// Len returns the current length n of the vector.
func (v *Vector[T]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return len(v.toks)
}

// Save writes the vector as a packed little-endian array of the chosen
// token width. File length implicitly encodes the vector's length.
func (v *Vector[T]) Save(path string) error {
	v.mu.RLock()
	defer v.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return cdawgerr.Wrap("tokenvec.Save", cdawgerr.ErrIO)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	buf := make([]byte, 4)
	for _, tok := range v.toks {
		switch width := any(tok).(type) {
		case uint16:
			binary.LittleEndian.PutUint16(buf[:2], width)
			if _, err := w.Write(buf[:2]); err != nil {
				return cdawgerr.Wrap("tokenvec.Save", cdawgerr.ErrIO)
			}
		case uint32:
			binary.LittleEndian.PutUint32(buf[:4], width)
			if _, err := w.Write(buf[:4]); err != nil {
				return cdawgerr.Wrap("tokenvec.Save", cdawgerr.ErrIO)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return cdawgerr.Wrap("tokenvec.Save", cdawgerr.ErrIO)
	}

	return nil
}

// Load reads a packed little-endian token file produced by Save into a
// fresh Vector, inferring its length from the file size.
func Load[T TokenID](path string) (*Vector[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cdawgerr.Wrap("tokenvec.Load", cdawgerr.ErrIO)
	}
	defer f.Close()

	var zero T
	width := 2
	if _, ok := any(zero).(uint32); ok {
		width = 4
	}

	info, err := f.Stat()
	if err != nil {
		return nil, cdawgerr.Wrap("tokenvec.Load", cdawgerr.ErrIO)
	}
	if info.Size()%int64(width) != 0 {
		return nil, cdawgerr.Wrap("tokenvec.Load", cdawgerr.ErrDecode)
	}

	n := int(info.Size()) / width
	vec := New[T](n)
	r := bufio.NewReader(f)
	buf := make([]byte, width)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, cdawgerr.Wrap("tokenvec.Load", cdawgerr.ErrIO)
		}
		switch width {
		case 2:
			vec.Push(any(binary.LittleEndian.Uint16(buf)).(T))
		case 4:
			vec.Push(any(binary.LittleEndian.Uint32(buf)).(T))
		}
	}

	return vec, nil
}
