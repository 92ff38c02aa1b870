package mdict

import (
	"log/slog"
	"sort"
)

// Handle is an open MDict dictionary (.mdx) or resource archive (.mdd).
// It holds a memory-mapped view of the file plus the decoded key index;
// record payloads are fetched on demand, never materialized up front.
type Handle struct {
	path string
	file *mappedFile

	meta   Meta
	header map[string]string

	stripKeyEnabled  bool
	keyCaseSensitive bool

	keywordList      []Keyword
	recordInfoList   []recordInfo
	recordBlockStart uint64

	prefixIdx *prefixIndex

	logger *slog.Logger
}

// Open memory-maps path and parses it as kind, building the full keyword
// index and, by default, a radix-tree prefix accelerator.
func Open(path string, kind FileKind) (*Handle, error) {
	return OpenWithOptions(path, kind)
}

// OpenWithOptions is Open with functional options — a decryption
// passcode, a custom logger, or skipping prefix-index construction.
func OpenWithOptions(path string, kind FileKind, opts ...Option) (*Handle, error) {
	cfg := defaultOpenConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	file, err := openMappedFile(path)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		path:   path,
		file:   file,
		logger: cfg.logger,
	}

	if err := h.build(kind, cfg); err != nil {
		file.Close()
		return nil, err
	}

	return h, nil
}

func (h *Handle) build(kind FileKind, cfg *openConfig) error {
	h.logger.Debug("parsing outer header", "path", h.path)
	attrs, keyHeaderStart, err := h.parseOuterHeader()
	if err != nil {
		return err
	}
	h.header = attrs

	meta, err := deriveMeta(kind, attrs)
	if err != nil {
		return err
	}
	meta.Passcode = cfg.passcode
	h.meta = meta

	h.stripKeyEnabled = attrs["StripKey"] != "No"
	h.keyCaseSensitive = attrs["KeyCaseSensitive"] == "Yes"

	h.logger.Debug("parsing key header", "version", meta.Version, "num_width", meta.NumWidth)
	kh, keyInfoStart, err := h.parseKeyHeader(keyHeaderStart)
	if err != nil {
		return err
	}

	blockInfos, keyInfoEnd, err := h.parseKeyInfoTable(keyInfoStart, kh)
	if err != nil {
		return err
	}

	h.logger.Debug("reading key blocks", "blocks", kh.keywordBlocksNum, "keywords", kh.keywordNum)
	keywords, recordHeaderStart, err := h.readKeyBlocks(keyInfoEnd, blockInfos, keyInfoEnd, kh.keywordBlockPackedSize)
	if err != nil {
		return err
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return h.compareKeys(keywords[i].KeyText, keywords[j].KeyText) < 0
	})
	for i := 1; i < len(keywords); i++ {
		keywords[i-1].RecordEndOffset = keywords[i].RecordStartOffset
	}
	h.keywordList = keywords

	rh, recordInfoStart, err := h.parseRecordHeader(recordHeaderStart)
	if err != nil {
		return err
	}

	recordInfos, recordBlockStart, err := h.parseRecordInfoTable(recordInfoStart, rh)
	if err != nil {
		return err
	}
	h.recordInfoList = recordInfos
	h.recordBlockStart = recordBlockStart

	if !cfg.skipPrefixIndex {
		h.logger.Debug("building prefix index", "keywords", len(h.keywordList))
		h.prefixIdx = buildPrefixIndex(h.keywordList)
		h.meta.prefixIndexed = true
	}

	return nil
}

// Close unmaps the underlying file. The Handle must not be used
// afterward.
func (h *Handle) Close() error {
	return h.file.Close()
}

// Header returns the parsed outer-header attribute map.
func (h *Handle) Header() map[string]string {
	return h.header
}

// Meta returns the dictionary's fixed metadata.
func (h *Handle) Meta() Meta {
	return h.meta
}

// Filepath returns the path the dictionary was opened from.
func (h *Handle) Filepath() string {
	return h.path
}
