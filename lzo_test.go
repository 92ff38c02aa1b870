package mdict

import "testing"

func TestDecompressLZO1XZeroLength(t *testing.T) {
	out, err := decompressLZO1X(nil, 0)
	if err != nil {
		t.Fatalf("decompressLZO1X(nil, 0): %v", err)
	}
	if len(out) != 0 {
		t.Errorf("decompressLZO1X(nil, 0) = %v, want empty", out)
	}
}

func TestDecompressLZO1XInvalidInput(t *testing.T) {
	// Neither the primary decoder nor the in-tree fallback can produce
	// 100 bytes from a single zero byte; both must fail and the combined
	// error must surface as a Decompression-kind *Error.
	_, err := decompressLZO1X([]byte{0}, 100)
	if err == nil {
		t.Fatal("expected an error for an invalid LZO1X stream")
	}
	mdictErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error is %T, want *mdict.Error", err)
	}
	if mdictErr.Kind() != KindDecompression {
		t.Errorf("error kind = %v, want %v", mdictErr.Kind(), KindDecompression)
	}
}
