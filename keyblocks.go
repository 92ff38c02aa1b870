package mdict

import "fmt"

// readKeyBlocks walks the key-info descriptors, decompresses each key
// block, and splits it into Keyword entries. Returns the combined
// keyword list (not yet sorted) and the offset the record header starts
// at.
func (h *Handle) readKeyBlocks(start uint64, infos []keyBlockInfo, keyInfoEnd uint64, keywordBlockPackedSize uint64) ([]Keyword, uint64, error) {
	var keywords []Keyword

	for _, info := range infos {
		offset := start + info.packAccum
		packed, err := h.file.read(offset, info.packSize)
		if err != nil {
			return nil, 0, err
		}

		unpacked, err := decompressBlock(packed, info.unpackSize)
		if err != nil {
			return nil, 0, err
		}

		entries, err := h.splitKeyBlock(unpacked, info.index)
		if err != nil {
			return nil, 0, err
		}
		keywords = append(keywords, entries...)
	}

	recordHeaderStart := keyInfoEnd + keywordBlockPackedSize
	return keywords, recordHeaderStart, nil
}

// splitKeyBlock parses a decompressed key block into its (record_offset,
// key_text) entries, per the key-block entry format.
func (h *Handle) splitKeyBlock(block []byte, keyBlockIdx int) ([]Keyword, error) {
	nulWidth := 1
	if h.meta.Encoding == EncodingUTF16LE || h.meta.Kind == KindMDD {
		nulWidth = 2
	}
	numWidth := h.meta.NumWidth

	var entries []Keyword
	pos := 0

	for pos < len(block) {
		if pos+numWidth > len(block) {
			break
		}
		recordOffset, err := toUint(block[pos : pos+numWidth])
		if err != nil {
			return nil, err
		}

		keyStart := pos + numWidth
		keyEnd := -1
		i := keyStart
		for i < len(block) {
			if nulWidth == 1 && block[i] == 0 {
				keyEnd = i
				break
			}
			if nulWidth == 2 && i+1 < len(block) && block[i] == 0 && block[i+1] == 0 {
				keyEnd = i
				break
			}
			i += nulWidth
		}
		if keyEnd < 0 {
			break
		}

		keyText, err := decodeText(block[keyStart:keyEnd], h.meta.Encoding)
		if err != nil {
			return nil, newError(KindEncoding, fmt.Errorf("key block %d: %w", keyBlockIdx, err))
		}

		entries = append(entries, Keyword{
			KeyText:           keyText,
			RecordStartOffset: recordOffset,
			RecordEndOffset:   0,
			KeyBlockIdx:       keyBlockIdx,
		})

		pos = keyEnd + nulWidth
	}

	return entries, nil
}
