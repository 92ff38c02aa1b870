package mdict

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := newError(KindKeyNotFound, fmt.Errorf("no such entry: %q", "xyz"))
	if !errors.Is(err, ErrKeyNotFound) {
		t.Error("errors.Is did not match the KindKeyNotFound sentinel")
	}
	if errors.Is(err, ErrIO) {
		t.Error("errors.Is matched an unrelated sentinel")
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("boom")
	err := newError(KindIO, inner)
	if errors.Unwrap(err) != inner {
		t.Error("Unwrap did not return the wrapped error")
	}
}

func TestErrorStringIncludesKind(t *testing.T) {
	err := newError(KindDecryption, fmt.Errorf("bad key"))
	if got := err.Error(); got != "decryption: bad key" {
		t.Errorf("Error() = %q, want %q", got, "decryption: bad key")
	}
}
