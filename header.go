package mdict

import (
	"fmt"
	"strconv"
	"strings"
)

// parseOuterHeader parses the outer header: a 4-byte big-endian length, that
// many bytes of UTF-16LE XML-like text, then a 4-byte Adler-32 (not
// verified). It returns the parsed attribute map and the offset the key
// header starts at.
func (h *Handle) parseOuterHeader() (map[string]string, uint64, error) {
	lenBuf, err := h.file.read(0, 4)
	if err != nil {
		return nil, 0, err
	}
	headerByteLen, err := toUint(lenBuf)
	if err != nil {
		return nil, 0, err
	}

	textBuf, err := h.file.read(4, headerByteLen)
	if err != nil {
		return nil, 0, err
	}

	headerEnd := 4 + headerByteLen + 4 // +4 for the Adler-32 tail

	headerText, err := decodeUTF16LE(textBuf)
	if err != nil {
		return nil, 0, err
	}

	attrs, err := parseHeaderAttrs(headerText)
	if err != nil {
		return nil, 0, err
	}

	if _, ok := attrs["KeyCaseSensitive"]; !ok {
		attrs["KeyCaseSensitive"] = "No"
	}
	if _, ok := attrs["StripKey"]; !ok {
		attrs["StripKey"] = "Yes"
	}

	return attrs, headerEnd, nil
}

// deriveMeta fills in version, num_width, encoding, and encryption from
// the parsed header attributes.
func deriveMeta(kind FileKind, attrs map[string]string) (Meta, error) {
	meta := Meta{Kind: kind}

	versionStr := attrs["GeneratedByEngineVersion"]
	if versionStr == "" {
		versionStr = "1.2"
	}
	version, err := strconv.ParseFloat(versionStr, 64)
	if err != nil {
		version = 1.2
	}
	meta.Version = version

	if version >= 2.0 {
		meta.NumWidth = 8
	} else {
		meta.NumWidth = 4
	}

	encrypted := attrs["Encrypted"]
	switch encrypted {
	case "", "No":
		meta.Encryption = EncryptNone
	case "Yes":
		meta.Encryption = EncryptRecordBlock
	default:
		n, err := strconv.Atoi(encrypted)
		if err != nil || n < 0 || n > 2 {
			meta.Encryption = EncryptNone
		} else {
			meta.Encryption = EncryptType(n)
		}
	}

	encodingStr := strings.ToLower(attrs["Encoding"])
	switch encodingStr {
	case "":
		meta.Encoding = EncodingUTF8
	case "gbk", "gb2312":
		meta.Encoding = EncodingGB18030
	case "big5":
		meta.Encoding = EncodingBig5
	case "utf16", "utf-16":
		meta.Encoding = EncodingUTF16LE
	default:
		meta.Encoding = EncodingUTF8
	}

	if kind == KindMDD {
		meta.Encoding = EncodingUTF16LE
	}

	return meta, nil
}

// parseKeyHeader reads the key header. It returns the key-header fields
// and the offset at which the key-info table starts.
func (h *Handle) parseKeyHeader(start uint64) (keyHeaderInfo, uint64, error) {
	numWidth := uint64(h.meta.NumWidth)

	fieldCount := 4
	if h.meta.Version >= 2.0 {
		fieldCount = 5
	}
	size := uint64(fieldCount) * numWidth

	buf, err := h.file.read(start, size)
	if err != nil {
		return keyHeaderInfo{}, 0, err
	}

	if h.meta.Encryption == EncryptRecordBlock && len(h.meta.Passcode) == 0 {
		return keyHeaderInfo{}, 0, newError(KindEncryptedFileRequiresPasscode, fmt.Errorf("file declares record-block encryption but no passcode was configured"))
	}

	var info keyHeaderInfo
	var off uint64

	info.keywordBlocksNum, err = toUint(buf[off : off+numWidth])
	if err != nil {
		return keyHeaderInfo{}, 0, err
	}
	off += numWidth

	info.keywordNum, err = toUint(buf[off : off+numWidth])
	if err != nil {
		return keyHeaderInfo{}, 0, err
	}
	off += numWidth

	if h.meta.Version >= 2.0 {
		info.keyInfoUnpackSize, err = toUint(buf[off : off+numWidth])
		if err != nil {
			return keyHeaderInfo{}, 0, err
		}
		off += numWidth
	}

	info.keyInfoPackedSize, err = toUint(buf[off : off+numWidth])
	if err != nil {
		return keyHeaderInfo{}, 0, err
	}
	off += numWidth

	info.keywordBlockPackedSize, err = toUint(buf[off : off+numWidth])
	if err != nil {
		return keyHeaderInfo{}, 0, err
	}

	end := start + size
	if h.meta.Version >= 2.0 {
		end += 4 // trailing checksum, skipped
	}

	return info, end, nil
}
