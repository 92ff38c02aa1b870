package mdict

import "fmt"

// parseKeyInfoTable reads the (possibly compressed,
// possibly encrypted) key-info blob and decode it into one keyBlockInfo
// per key block. Returns the list and the offset the key blocks start at.
func (h *Handle) parseKeyInfoTable(start uint64, kh keyHeaderInfo) ([]keyBlockInfo, uint64, error) {
	buf, err := h.file.read(start, kh.keyInfoPackedSize)
	if err != nil {
		return nil, 0, err
	}

	if h.meta.Version >= 2.0 {
		compType, compErr := compressionTypeFromBytes(buf)

		if h.meta.Encryption == EncryptKeyInfoBlock {
			buf = mdxDecrypt(buf)
		}

		if compErr == nil && compType == CompressionZlib {
			inflated, err := inflateZlib(buf[8:])
			if err != nil {
				return nil, 0, err
			}
			buf = inflated
		}
	}

	list, err := h.decodeKeyInfo(buf, kh)
	if err != nil {
		return nil, 0, err
	}

	end := start + kh.keyInfoPackedSize
	return list, end, nil
}

func (h *Handle) decodeKeyInfo(buf []byte, kh keyHeaderInfo) ([]keyBlockInfo, error) {
	numWidth := uint64(h.meta.NumWidth)
	isUTF16 := h.meta.Encoding == EncodingUTF16LE

	list := make([]keyBlockInfo, 0, kh.keywordBlocksNum)

	var off uint64
	var entriesAccum, packAccum, unpackAccum uint64

	for idx := uint64(0); idx < kh.keywordBlocksNum; idx++ {
		if off+numWidth > uint64(len(buf)) {
			return nil, newError(KindInvalidFormat, fmt.Errorf("key-info table truncated at block %d", idx))
		}
		entriesInBlock, err := toUint(buf[off : off+numWidth])
		if err != nil {
			return nil, err
		}
		off += numWidth

		widthFieldSize := numWidth / 4

		firstWordSizeRaw, err := toUint(buf[off : off+widthFieldSize])
		if err != nil {
			return nil, err
		}
		off += widthFieldSize
		firstWordSize := wordByteSize(firstWordSizeRaw, h.meta.Version, isUTF16)

		if off+firstWordSize > uint64(len(buf)) {
			return nil, newError(KindInvalidFormat, fmt.Errorf("key-info table truncated reading first word at block %d", idx))
		}
		firstWordBuf := buf[off : off+firstWordSize]
		off += firstWordSize

		lastWordSizeRaw, err := toUint(buf[off : off+widthFieldSize])
		if err != nil {
			return nil, err
		}
		off += widthFieldSize
		lastWordSize := wordByteSize(lastWordSizeRaw, h.meta.Version, isUTF16)

		if off+lastWordSize > uint64(len(buf)) {
			return nil, newError(KindInvalidFormat, fmt.Errorf("key-info table truncated reading last word at block %d", idx))
		}
		lastWordBuf := buf[off : off+lastWordSize]
		off += lastWordSize

		packSize, err := toUint(buf[off : off+numWidth])
		if err != nil {
			return nil, err
		}
		off += numWidth

		unpackSize, err := toUint(buf[off : off+numWidth])
		if err != nil {
			return nil, err
		}
		off += numWidth

		firstKey, _ := decodeText(firstWordBuf, h.meta.Encoding)
		lastKey, _ := decodeText(lastWordBuf, h.meta.Encoding)

		list = append(list, keyBlockInfo{
			firstKey:        firstKey,
			lastKey:         lastKey,
			packSize:        packSize,
			packAccum:       packAccum,
			unpackSize:      unpackSize,
			unpackAccum:     unpackAccum,
			entriesNum:      entriesInBlock,
			entriesNumAccum: entriesAccum,
			index:           int(idx),
		})

		entriesAccum += entriesInBlock
		packAccum += packSize
		unpackAccum += unpackSize
	}

	return list, nil
}

// wordByteSize applies the key-info width rule for the first/last word
// length fields: v2.0+ stores size-minus-one; v1.x stores the raw size.
// UTF-16LE text doubles whichever size results.
func wordByteSize(raw uint64, version float64, isUTF16 bool) uint64 {
	var size uint64
	if version >= 2.0 {
		size = raw + 1
	} else {
		size = raw
	}
	if isUTF16 {
		size *= 2
	}
	return size
}
