package arena

import "github.com/arnav-k/cdawg/cdawgerr"

// rawStore is the low-level, type-agnostic byte store shared by the RAM
// and memory-mapped-file backings. Both node and edge arenas are built on
// top of one rawStore, parameterized by their own fixed stride.
type rawStore interface {
	length() uint32
	capacity() uint32
	grow(newCap uint32) error
	readAt(idx uint32, stride int) []byte
	writeAt(idx uint32, stride int, data []byte)
	setLength(n uint32) error
	flush() error
	close() error
}

// Backing is the pluggable storage a node or edge arena is built over.
type Backing interface {
	// Allocate reserves the next record slot, growing the store if needed,
	// and returns its dense, non-zero index.
	Allocate(stride int) (uint32, error)
	Len() uint32
	Cap() uint32
	Flush() error
	Close() error

	readAt(idx uint32, stride int) []byte
	writeAt(idx uint32, stride int, data []byte)
}

type backing struct {
	store rawStore
}

func (b *backing) Allocate(stride int) (uint32, error) {
	n := b.store.length()
	if n+1 > b.store.capacity() {
		newCap := b.store.capacity() * 2
		if newCap == 0 {
			newCap = 16
		}
		if err := b.store.grow(newCap); err != nil {
			return NilIndex, err
		}
	}

	idx := n + 1 // indices are 1-based; 0 is NilIndex
	if err := b.store.setLength(idx); err != nil {
		return NilIndex, err
	}

	return idx, nil
}

func (b *backing) Len() uint32 { return b.store.length() }
func (b *backing) Cap() uint32 { return b.store.capacity() }

func (b *backing) Flush() error { return b.store.flush() }
func (b *backing) Close() error { return b.store.close() }

func (b *backing) readAt(idx uint32, stride int) []byte {
	if idx == NilIndex || idx > b.store.length() {
		cdawgerr.Fatal("arena: read of unallocated index")
	}

	return b.store.readAt(idx, stride)
}

func (b *backing) writeAt(idx uint32, stride int, data []byte) {
	if idx == NilIndex || idx > b.store.length() {
		cdawgerr.Fatal("arena: write of unallocated index")
	}

	b.store.writeAt(idx, stride, data)
}
