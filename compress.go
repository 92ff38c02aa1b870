package mdict

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// inflateZlib inflates a zlib-wrapped stream in full.
func inflateZlib(src []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, newError(KindDecompression, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, newError(KindDecompression, err)
	}
	return out, nil
}

// decompressBlock dispatches on the 4-byte compression type prefixing a
// key or record block and returns the decompressed payload of bytes
// [8:]. unpackSize is the LZO1X output size; the none and zlib paths do
// not use it. The 8-byte header itself is never part of the returned
// slice.
func decompressBlock(block []byte, unpackSize uint64) ([]byte, error) {
	compType, err := compressionTypeFromBytes(block)
	if err != nil {
		return nil, err
	}

	switch compType {
	case CompressionNone:
		return block[8:], nil
	case CompressionLZO:
		return decompressLZO1X(block[8:], int(unpackSize))
	case CompressionZlib:
		return inflateZlib(block[8:])
	default:
		return nil, newError(KindInvalidCompressionType, nil)
	}
}
