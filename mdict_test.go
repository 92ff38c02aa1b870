package mdict

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"
)

// buildTestMDX assembles a minimal, valid v1.2, uncompressed, unencrypted
// UTF-8 MDX file with a single key block and a single record block, so
// the full Open pipeline (P1-P6 plus sort/prefix-index construction) can
// be exercised without a real-world fixture on disk. words must already
// be in ascending compare_keys order (plain lowercase, no punctuation)
// so the writer-side layout matches the order Open's own sort produces.
func buildTestMDX(t *testing.T, words, defs []string) string {
	t.Helper()
	if len(words) != len(defs) {
		t.Fatalf("buildTestMDX: %d words but %d defs", len(words), len(defs))
	}

	be32 := func(buf *bytes.Buffer, v uint32) {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], v)
		buf.Write(b[:])
	}

	// Key block payload: [record_offset:4][utf8 key][0x00] per entry.
	var keyBlockRaw bytes.Buffer
	offsets := make([]uint32, len(defs))
	var recOff uint32
	for i, d := range defs {
		offsets[i] = recOff
		recOff += uint32(len(d))
	}
	for i, w := range words {
		be32(&keyBlockRaw, offsets[i])
		keyBlockRaw.WriteString(w)
		keyBlockRaw.WriteByte(0)
	}

	var keyBlockPacked bytes.Buffer
	keyBlockPacked.Write([]byte{0, 0, 0, 0, 0, 0, 0, 0}) // none-compression + checksum
	keyBlockPacked.Write(keyBlockRaw.Bytes())

	// Key-info table: one block descriptor.
	var keyInfo bytes.Buffer
	be32(&keyInfo, uint32(len(words))) // entries_in_block
	firstWord, lastWord := words[0], words[len(words)-1]
	keyInfo.WriteByte(byte(len(firstWord)))
	keyInfo.WriteString(firstWord)
	keyInfo.WriteByte(byte(len(lastWord)))
	keyInfo.WriteString(lastWord)
	be32(&keyInfo, uint32(keyBlockPacked.Len())) // pack_size
	be32(&keyInfo, uint32(keyBlockRaw.Len()))     // unpack_size

	// Record stream: every definition concatenated in key order.
	var recordRaw bytes.Buffer
	for _, d := range defs {
		recordRaw.WriteString(d)
	}
	var recordPacked bytes.Buffer
	recordPacked.Write([]byte{0, 0, 0, 0, 0, 0, 0, 0})
	recordPacked.Write(recordRaw.Bytes())

	var keyHeader bytes.Buffer
	be32(&keyHeader, 1)                           // keyword_blocks_num
	be32(&keyHeader, uint32(len(words)))          // keyword_num
	be32(&keyHeader, uint32(keyInfo.Len()))       // key_info_packed_size
	be32(&keyHeader, uint32(keyBlockPacked.Len())) // keyword_block_packed_size

	var recordHeader bytes.Buffer
	be32(&recordHeader, 1)                          // record_blocks_num
	be32(&recordHeader, uint32(len(words)))         // entries_num
	be32(&recordHeader, 8)                          // record_info_comp_size (1 block * 8)
	be32(&recordHeader, uint32(recordPacked.Len())) // record_block_comp_size

	var recordInfoTable bytes.Buffer
	be32(&recordInfoTable, uint32(recordPacked.Len()))
	be32(&recordInfoTable, uint32(recordRaw.Len()))

	headerText := `<Dictionary GeneratedByEngineVersion="1.2" Encrypted="No" Encoding="" StripKey="Yes" KeyCaseSensitive="No" />`
	units := utf16.Encode([]rune(headerText))
	var headerBytes bytes.Buffer
	for _, u := range units {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], u)
		headerBytes.Write(b[:])
	}

	var file bytes.Buffer
	be32(&file, uint32(headerBytes.Len()))
	file.Write(headerBytes.Bytes())
	file.Write([]byte{0, 0, 0, 0}) // adler-32, unchecked by the parser
	file.Write(keyHeader.Bytes())
	file.Write(keyInfo.Bytes())
	file.Write(keyBlockPacked.Bytes())
	file.Write(recordHeader.Bytes())
	file.Write(recordInfoTable.Bytes())
	file.Write(recordPacked.Bytes())

	path := filepath.Join(t.TempDir(), "fixture.mdx")
	if err := os.WriteFile(path, file.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func openTestFixture(t *testing.T) *Handle {
	t.Helper()
	words := []string{"apple", "banana", "hello", "world"}
	defs := []string{"Apple definition", "Banana definition", "Hello definition", "World definition"}
	path := buildTestMDX(t, words, defs)

	h, err := Open(path, KindMDX)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestOpenBasics(t *testing.T) {
	h := openTestFixture(t)

	if h.Count() != 4 {
		t.Errorf("Count() = %d, want 4", h.Count())
	}
	if h.Meta().Kind != KindMDX {
		t.Errorf("Meta().Kind = %v, want mdx", h.Meta().Kind)
	}
	if _, ok := h.Header()["GeneratedByEngineVersion"]; !ok {
		t.Error("Header() missing GeneratedByEngineVersion")
	}
	if !h.Meta().PrefixIndexed() {
		t.Error("PrefixIndexed() = false, want true (default Open builds the index)")
	}
}

func TestOpenLookup(t *testing.T) {
	h := openTestFixture(t)

	res, ok, err := h.Lookup("hello")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatal("Lookup(hello) not found")
	}
	if res.Definition != "Hello definition" {
		t.Errorf("Lookup(hello).Definition = %q, want %q", res.Definition, "Hello definition")
	}

	if !h.Contains("hello") {
		t.Error("Contains(hello) = false, want true")
	}
	if h.Contains("xyznonexistent123") {
		t.Error("Contains(xyznonexistent123) = true, want false")
	}
}

func TestOpenPrefix(t *testing.T) {
	h := openTestFixture(t)

	matches := h.Prefix("ba")
	if len(matches) == 0 {
		t.Fatal("Prefix(ba) returned nothing")
	}
	for _, kw := range matches {
		if len(kw.KeyText) < 2 || kw.KeyText[:2] != "ba" {
			t.Errorf("Prefix(ba) returned non-matching key %q", kw.KeyText)
		}
	}
}

func TestOpenSuggest(t *testing.T) {
	h := openTestFixture(t)

	suggestions := h.Suggest("helo", 2)
	found := false
	for _, s := range suggestions {
		if s == "hello" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggest(helo, 2) = %v, want it to include %q", suggestions, "hello")
	}
}

func TestOpenAssociate(t *testing.T) {
	h := openTestFixture(t)

	assoc := h.Associate("apple")
	if len(assoc) == 0 {
		t.Fatal("Associate(apple) returned nothing")
	}
	for _, kw := range assoc {
		if kw.KeyBlockIdx != assoc[0].KeyBlockIdx {
			t.Errorf("Associate(apple) mixed key blocks: %+v", assoc)
		}
	}
}

func TestOpenRoundTrip(t *testing.T) {
	h := openTestFixture(t)

	for _, word := range []string{"apple", "banana", "hello", "world"} {
		if !h.Contains(word) {
			t.Errorf("Contains(%q) = false, want true", word)
			continue
		}
		res, ok, err := h.Lookup(word)
		if err != nil || !ok {
			t.Errorf("Lookup(%q) failed: ok=%v err=%v", word, ok, err)
		}
		if res.Definition == "" {
			t.Errorf("Lookup(%q) returned an empty definition", word)
		}
	}
}

func TestOpenWithoutPrefixIndex(t *testing.T) {
	words := []string{"apple", "banana"}
	defs := []string{"Apple definition", "Banana definition"}
	path := buildTestMDX(t, words, defs)

	h, err := OpenWithOptions(path, KindMDX, WithoutPrefixIndex())
	if err != nil {
		t.Fatalf("OpenWithOptions: %v", err)
	}
	defer h.Close()

	if h.Meta().PrefixIndexed() {
		t.Error("PrefixIndexed() = true, want false with WithoutPrefixIndex")
	}
	if h.prefixIdx != nil {
		t.Error("prefixIdx is non-nil despite WithoutPrefixIndex")
	}
	matches := h.Prefix("ap")
	if len(matches) != 1 || matches[0].KeyText != "apple" {
		t.Errorf("Prefix(ap) without index = %+v, want [apple]", matches)
	}
}
