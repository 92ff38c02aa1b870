package mdict

// parseRecordHeader reads the record header: four num_width
// fields describing the record section. Returns the header and the
// offset the record-info table starts at.
func (h *Handle) parseRecordHeader(start uint64) (recordHeaderInfo, uint64, error) {
	numWidth := uint64(h.meta.NumWidth)
	size := 4 * numWidth

	buf, err := h.file.read(start, size)
	if err != nil {
		return recordHeaderInfo{}, 0, err
	}

	var info recordHeaderInfo
	var off uint64

	info.recordBlocksNum, err = toUint(buf[off : off+numWidth])
	if err != nil {
		return recordHeaderInfo{}, 0, err
	}
	off += numWidth

	info.entriesNum, err = toUint(buf[off : off+numWidth])
	if err != nil {
		return recordHeaderInfo{}, 0, err
	}
	off += numWidth

	info.recordInfoCompSize, err = toUint(buf[off : off+numWidth])
	if err != nil {
		return recordHeaderInfo{}, 0, err
	}
	off += numWidth

	info.recordBlockCompSize, err = toUint(buf[off : off+numWidth])
	if err != nil {
		return recordHeaderInfo{}, 0, err
	}

	return info, start + size, nil
}

// parseRecordInfoTable reads the record-info table: num_blocks
// (pack_size, unpack_size) pairs, accumulated into running offsets.
// Returns the table and the offset the record-block run starts at.
func (h *Handle) parseRecordInfoTable(start uint64, rh recordHeaderInfo) ([]recordInfo, uint64, error) {
	numWidth := uint64(h.meta.NumWidth)

	buf, err := h.file.read(start, rh.recordInfoCompSize)
	if err != nil {
		return nil, 0, err
	}

	list := make([]recordInfo, 0, rh.recordBlocksNum)
	var off, packAccum, unpackAccum uint64

	for i := uint64(0); i < rh.recordBlocksNum; i++ {
		packSize, err := toUint(buf[off : off+numWidth])
		if err != nil {
			return nil, 0, err
		}
		off += numWidth

		unpackSize, err := toUint(buf[off : off+numWidth])
		if err != nil {
			return nil, 0, err
		}
		off += numWidth

		list = append(list, recordInfo{
			packSize:    packSize,
			packAccum:   packAccum,
			unpackSize:  unpackSize,
			unpackAccum: unpackAccum,
		})

		packAccum += packSize
		unpackAccum += unpackSize
	}

	end := start + rh.recordInfoCompSize
	return list, end, nil
}
