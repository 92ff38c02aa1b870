package mdict

import "sort"

// findRecordBlockIndex returns the rightmost record block whose
// unpack_accumulate_offset is ≤ recordStart — the block containing that
// decompressed offset.
func (h *Handle) findRecordBlockIndex(recordStart uint64) int {
	n := len(h.recordInfoList)
	idx := sort.Search(n, func(i int) bool {
		return h.recordInfoList[i].unpackAccum > recordStart
	})
	if idx > 0 {
		return idx - 1
	}
	return 0
}

// fetchRaw resolves a keyword to its raw payload bytes: locate the
// owning record block, read and (if needed) decrypt and decompress it,
// then slice out the entry's extent.
func (h *Handle) fetchRaw(kw Keyword) ([]byte, error) {
	blockIdx := h.findRecordBlockIndex(kw.RecordStartOffset)
	if blockIdx >= len(h.recordInfoList) {
		return nil, newError(KindInvalidFormat, nil)
	}
	info := h.recordInfoList[blockIdx]

	offset := h.recordBlockStart + info.packAccum
	block, err := h.file.read(offset, info.packSize)
	if err != nil {
		return nil, err
	}

	unpacked, err := h.decompressRecordBlock(block, info.unpackSize)
	if err != nil {
		return nil, err
	}

	start := kw.RecordStartOffset - info.unpackAccum
	var end uint64
	if kw.RecordEndOffset > 0 {
		end = kw.RecordEndOffset - info.unpackAccum
	} else {
		end = uint64(len(unpacked))
	}
	if end > uint64(len(unpacked)) {
		end = uint64(len(unpacked))
	}
	if start > end {
		start = end
	}

	out := make([]byte, end-start)
	copy(out, unpacked[start:end])
	return out, nil
}

// decompressRecordBlock decrypts (when the container declares
// record-block encryption) then decompresses one record block.
func (h *Handle) decompressRecordBlock(block []byte, unpackSize uint64) ([]byte, error) {
	if h.meta.Encryption == EncryptRecordBlock {
		block = mdxDecrypt(block)
	}
	return decompressBlock(block, unpackSize)
}
