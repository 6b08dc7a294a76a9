package arena

import (
	"encoding/binary"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/arnav-k/cdawg/cdawgerr"
)

// fileHeaderSize is the size of the (capacity, length) header prefixing
// every arena file, both uint64 little-endian.
const fileHeaderSize = 16

// fileStore backs a node or edge arena with a memory-mapped file. The
// file layout is a 16-byte header (capacity, length) followed by
// capacity*stride bytes of records.
type fileStore struct {
	f      *os.File
	m      mmap.MMap
	stride int
	cap    uint32
	len    uint32
}

// NewFileBacking opens (creating if absent) path as a memory-mapped
// record store with the given stride. initialCap is only used when the
// file is freshly created.
func NewFileBacking(path string, initialCap, stride int) (Backing, error) {
	if initialCap < 1 {
		initialCap = 16
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, cdawgerr.Wrap("arena.NewFileBacking", cdawgerr.ErrIO)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()

		return nil, cdawgerr.Wrap("arena.NewFileBacking", cdawgerr.ErrIO)
	}

	fs := &fileStore{f: f, stride: stride}
	if info.Size() == 0 {
		if err := fs.initEmpty(uint32(initialCap)); err != nil {
			f.Close()

			return nil, err
		}
	} else if err := fs.mapExisting(); err != nil {
		f.Close()

		return nil, err
	}

	return &backing{store: fs}, nil
}

func (s *fileStore) initEmpty(initialCap uint32) error {
	size := int64(fileHeaderSize) + int64(initialCap)*int64(s.stride)
	if err := s.f.Truncate(size); err != nil {
		return cdawgerr.Wrap("arena.fileStore.initEmpty", cdawgerr.ErrIO)
	}

	m, err := mmap.Map(s.f, mmap.RDWR, 0)
	if err != nil {
		return cdawgerr.Wrap("arena.fileStore.initEmpty", cdawgerr.ErrIO)
	}

	s.m = m
	s.cap = initialCap
	s.len = 0
	binary.LittleEndian.PutUint64(s.m[0:8], uint64(s.cap))
	binary.LittleEndian.PutUint64(s.m[8:16], uint64(s.len))

	return nil
}

func (s *fileStore) mapExisting() error {
	m, err := mmap.Map(s.f, mmap.RDWR, 0)
	if err != nil {
		return cdawgerr.Wrap("arena.fileStore.mapExisting", cdawgerr.ErrIO)
	}

	if len(m) < fileHeaderSize {
		m.Unmap()

		return cdawgerr.Wrap("arena.fileStore.mapExisting", cdawgerr.ErrDecode)
	}

	s.m = m
	s.cap = uint32(binary.LittleEndian.Uint64(m[0:8]))
	s.len = uint32(binary.LittleEndian.Uint64(m[8:16]))

	return nil
}

func (s *fileStore) length() uint32   { return s.len }
func (s *fileStore) capacity() uint32 { return s.cap }

func (s *fileStore) grow(newCap uint32) error {
	if err := s.m.Unmap(); err != nil {
		return cdawgerr.Wrap("arena.fileStore.grow", cdawgerr.ErrIO)
	}

	size := int64(fileHeaderSize) + int64(newCap)*int64(s.stride)
	if err := s.f.Truncate(size); err != nil {
		return cdawgerr.Wrap("arena.fileStore.grow", cdawgerr.ErrCapacity)
	}

	m, err := mmap.Map(s.f, mmap.RDWR, 0)
	if err != nil {
		return cdawgerr.Wrap("arena.fileStore.grow", cdawgerr.ErrIO)
	}

	s.m = m
	s.cap = newCap
	binary.LittleEndian.PutUint64(s.m[0:8], uint64(s.cap))

	return nil
}

func (s *fileStore) setLength(n uint32) error {
	s.len = n
	binary.LittleEndian.PutUint64(s.m[8:16], uint64(s.len))

	return nil
}

func (s *fileStore) offset(idx uint32) int {
	return fileHeaderSize + int(idx-1)*s.stride
}

func (s *fileStore) readAt(idx uint32, stride int) []byte {
	off := s.offset(idx)
	out := make([]byte, stride)
	copy(out, s.m[off:off+stride])

	return out
}

func (s *fileStore) writeAt(idx uint32, stride int, data []byte) {
	off := s.offset(idx)
	copy(s.m[off:off+stride], data)
}

func (s *fileStore) flush() error {
	if err := s.m.Flush(); err != nil {
		return cdawgerr.Wrap("arena.fileStore.flush", cdawgerr.ErrIO)
	}

	return nil
}

func (s *fileStore) close() error {
	if err := s.m.Unmap(); err != nil {
		return cdawgerr.Wrap("arena.fileStore.close", cdawgerr.ErrIO)
	}

	if err := s.f.Close(); err != nil {
		return cdawgerr.Wrap("arena.fileStore.close", cdawgerr.ErrIO)
	}

	return nil
}
