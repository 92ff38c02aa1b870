package mdict

import (
	"fmt"

	"github.com/woozymasta/lzo"

	"github.com/globalmac/mdict/internal/lzofallback"
)

// decompressLZO1X decompresses an LZO1X-1 stream with outLen as the
// expected output size (the fallback may return fewer bytes), preferring the reference external decoder and falling back to the
// in-tree implementation only if it rejects the input.
func decompressLZO1X(src []byte, outLen int) ([]byte, error) {
	if outLen == 0 {
		return []byte{}, nil
	}

	out, primaryErr := lzo.Decompress(src, &lzo.DecompressOptions{OutLen: outLen})
	if primaryErr == nil {
		return out, nil
	}

	out, fallbackErr := lzofallback.Decompress(src, outLen)
	if fallbackErr != nil {
		return nil, newError(KindDecompression, fmt.Errorf("lzo1x decode failed (primary: %v, fallback: %v)", primaryErr, fallbackErr))
	}
	return out, nil
}
