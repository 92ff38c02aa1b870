package mdict

import "fmt"

// FileKind distinguishes the two MDict container flavors: mdx (text
// dictionaries) and mdd (binary resource archives).
type FileKind int

const (
	KindMDX FileKind = iota
	KindMDD
)

func (k FileKind) String() string {
	if k == KindMDD {
		return "mdd"
	}
	return "mdx"
}

// TextEncoding is the charset used to decode key and record text.
type TextEncoding int

const (
	EncodingUTF8 TextEncoding = iota
	EncodingUTF16LE
	EncodingGB18030
	EncodingBig5
)

func (e TextEncoding) String() string {
	switch e {
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingGB18030:
		return "gb18030"
	case EncodingBig5:
		return "big5"
	default:
		return "utf-8"
	}
}

// EncryptType reports which section of the container, if any, is
// XOR-encrypted.
type EncryptType int

const (
	EncryptNone EncryptType = iota
	EncryptRecordBlock
	EncryptKeyInfoBlock
)

// CompressionType is the codec used for a single key or record block, as
// signaled by the 4-byte little-endian code prefixing the block.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionLZO
	CompressionZlib
)

func compressionTypeFromBytes(b []byte) (CompressionType, error) {
	if len(b) < 4 {
		return 0, newError(KindInvalidFormat, fmt.Errorf("compression type header truncated"))
	}
	switch {
	case b[0] == 0x00 && b[1] == 0 && b[2] == 0 && b[3] == 0:
		return CompressionNone, nil
	case b[0] == 0x01 && b[1] == 0 && b[2] == 0 && b[3] == 0:
		return CompressionLZO, nil
	case b[0] == 0x02 && b[1] == 0 && b[2] == 0 && b[3] == 0:
		return CompressionZlib, nil
	default:
		return 0, newError(KindInvalidCompressionType, fmt.Errorf("unrecognized compression type bytes % x", b[:4]))
	}
}

// Meta is the dictionary's metadata, fixed once at construction time.
type Meta struct {
	Kind          FileKind
	Version       float64
	Encoding      TextEncoding
	Encryption    EncryptType
	NumWidth      int
	Passcode      []byte
	prefixIndexed bool
}

// PrefixIndexed reports whether the adaptive radix tree accelerating
// Prefix queries was built. Always true unless WithoutPrefixIndex was
// passed to OpenWithOptions.
func (m Meta) PrefixIndexed() bool { return m.prefixIndexed }

// Keyword is one dictionary entry: its decoded text plus enough
// bookkeeping to fetch its payload and find entries the writer grouped
// alongside it in the same key block.
type Keyword struct {
	KeyText           string
	RecordStartOffset uint64
	RecordEndOffset   uint64
	KeyBlockIdx       int
}

// LookupResult pairs a resolved keyword with its decoded definition (MDX)
// or, for MDD, is unused in favor of raw bytes from LocateRaw.
type LookupResult struct {
	KeyText    string
	Definition string
}

// FuzzyWord pairs a keyword with its edit distance from a fuzzy-search
// query, ascending by distance in the slice FuzzySearch returns.
type FuzzyWord struct {
	Keyword      Keyword
	EditDistance int
}

// keyBlockInfo is one entry of the key-info table: per-block bookkeeping
// used only while the key blocks are being read and split into keywords.
type keyBlockInfo struct {
	firstKey        string
	lastKey         string
	packSize        uint64
	packAccum       uint64
	unpackSize      uint64
	unpackAccum     uint64
	entriesNum      uint64
	entriesNumAccum uint64
	index           int
}

// recordInfo is one entry of the record-info table: compressed/decompressed
// size and running offsets for a single record block.
type recordInfo struct {
	packSize    uint64
	packAccum   uint64
	unpackSize  uint64
	unpackAccum uint64
}

// keyHeaderInfo is the parsed key-header section.
type keyHeaderInfo struct {
	keywordBlocksNum       uint64
	keywordNum             uint64
	keyInfoUnpackSize      uint64
	keyInfoPackedSize      uint64
	keywordBlockPackedSize uint64
}

// recordHeaderInfo is the parsed record-header section.
type recordHeaderInfo struct {
	recordBlocksNum     uint64
	entriesNum          uint64
	recordInfoCompSize  uint64
	recordBlockCompSize uint64
}
