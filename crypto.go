package mdict

import "github.com/globalmac/mdict/internal/ripemd128"

// fastDecrypt runs the MDict XOR stream cipher over data in place, keyed
// by key (cycled if shorter than data). previous starts at 0x36 and is
// fed the pre-transform byte at each step.
func fastDecrypt(data []byte, key []byte) {
	var previous byte = 0x36
	for idx, b := range data {
		t := rotateLeft4(b) ^ previous ^ byte(idx) ^ key[idx%len(key)]
		previous = b
		data[idx] = t
	}
}

func rotateLeft4(b byte) byte {
	return (b << 4) | (b >> 4)
}

// mdxDecrypt decrypts a compressed block whose 4 bytes at offset [4:8)
// carry the key-derivation seed: RIPEMD-128(block[4:8] ++ 0x95 0x36 0x00
// 0x00) is the XOR-stream key for the payload starting at byte 8. The
// 8-byte compression-type header is copied through unchanged.
func mdxDecrypt(block []byte) []byte {
	if len(block) < 8 {
		out := make([]byte, len(block))
		copy(out, block)
		return out
	}

	var keyBuf [8]byte
	copy(keyBuf[:4], block[4:8])
	keyBuf[4] = 0x95
	keyBuf[5] = 0x36
	keyBuf[6] = 0x00
	keyBuf[7] = 0x00

	key := ripemd128.Sum(keyBuf[:])

	out := make([]byte, len(block))
	copy(out[:8], block[:8])
	copy(out[8:], block[8:])
	fastDecrypt(out[8:], key[:])
	return out
}
