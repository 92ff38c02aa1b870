package mdict

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// mappedFile is a read-only memory-mapped view of a dictionary file. All
// positioned reads in the container parser and query engine go through
// it; there is no file cursor to serialize on, only the mapped region.
type mappedFile struct {
	data mmap.MMap
}

func openMappedFile(path string) (*mappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapIOErr(err)
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, wrapIOErr(err)
	}
	return &mappedFile{data: m}, nil
}

func (m *mappedFile) Close() error {
	return m.data.Unmap()
}

func (m *mappedFile) Len() uint64 {
	return uint64(len(m.data))
}

// read returns a slice of length bytes starting at offset, failing with
// an I/O error if the requested range lies outside the mapped file.
func (m *mappedFile) read(offset, length uint64) ([]byte, error) {
	end := offset + length
	if end < offset || end > uint64(len(m.data)) {
		return nil, newError(KindIO, fmt.Errorf("read past end of file: offset=%d length=%d filesize=%d", offset, length, len(m.data)))
	}
	return m.data[offset:end], nil
}

// toUint decodes a big-endian unsigned integer of width 1, 2, 4, or 8
// bytes — every integer field in the container is big-endian except the
// block-count prefix inside RIPEMD-128 padding and UTF-16LE text, neither
// of which goes through this function.
func toUint(b []byte) (uint64, error) {
	switch len(b) {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(b)), nil
	case 8:
		return binary.BigEndian.Uint64(b), nil
	default:
		return 0, newError(KindInvalidFormat, fmt.Errorf("unsupported integer width: %d bytes", len(b)))
	}
}
