package mdict

import (
	"sort"
	"strings"
)

var mdxStripper = strings.NewReplacer(
	"(", "", ")", "", ".", "", ",", "", "-", "", "&", "",
	" ", "", "'", "", "/", "", "\\", "", "@", "", "_", "", "$", "", "!", "",
)

var mddStripper = strings.NewReplacer(
	"(", "", ")", "", ".", "", ",", "", " ", "", "'", "", "/", "", "@", "",
)

// stripKey is the writer-side key-normalization procedure: lowercase,
// then remove a format-specific character class (dropping the trailing
// extension and mapping '_' to '!' for MDD first), then trim whitespace.
func stripKey(key string, isMDD bool) string {
	result := strings.ToLower(key)

	if isMDD {
		if pos := strings.LastIndex(result, "."); pos >= 0 {
			result = result[:pos]
		}
		result = mddStripper.Replace(result)
		result = strings.ReplaceAll(result, "_", "!")
	} else {
		result = mdxStripper.Replace(result)
	}

	return strings.TrimSpace(result)
}

// strip applies the header-configurable normalization used for sorting
// and lookup: StripKey gates stripKey, KeyCaseSensitive gates lowercasing.
func (h *Handle) strip(key string) string {
	result := key

	if h.stripKeyEnabled {
		result = stripKey(result, h.meta.Kind == KindMDD)
	}
	if !h.keyCaseSensitive {
		result = strings.ToLower(result)
	}
	return strings.TrimSpace(result)
}

func (h *Handle) compareKeys(a, b string) int {
	return strings.Compare(h.strip(a), h.strip(b))
}

// lookupExact binary-searches keyword_list for word, returning false if
// no entry compares equal under strip/case settings.
func (h *Handle) lookupExact(word string) (Keyword, bool) {
	idx, ok := h.lookupLanding(word)
	if !ok {
		return Keyword{}, false
	}
	return h.keywordList[idx], true
}

// lookupLanding returns the lower-bound landing index for word — the
// first entry not less than word — plus whether it is an exact match.
// It is the basis for both exact lookup and associative (nearest
// neighbor) lookup used to seed fuzzy search.
func (h *Handle) lookupLanding(word string) (int, bool) {
	n := len(h.keywordList)
	if n == 0 {
		return 0, false
	}

	idx := sort.Search(n, func(i int) bool {
		return h.compareKeys(h.keywordList[i].KeyText, word) >= 0
	})
	if idx >= n {
		idx = n - 1
	}
	return idx, h.compareKeys(h.keywordList[idx].KeyText, word) == 0
}

// lookupAssociate returns the nearest keyword by sort order regardless of
// whether it is an exact match — used to seed the fuzzy-search candidate
// pool via the landing block's group of associated keywords.
func (h *Handle) lookupAssociate(word string) (Keyword, bool) {
	if len(h.keywordList) == 0 {
		return Keyword{}, false
	}
	idx, _ := h.lookupLanding(word)
	return h.keywordList[idx], true
}

// Contains reports whether key exists in the dictionary.
func (h *Handle) Contains(key string) bool {
	_, ok := h.lookupExact(key)
	return ok
}

// Lookup resolves key to its decoded definition (MDX) or resource text.
func (h *Handle) Lookup(key string) (LookupResult, bool, error) {
	kw, ok := h.lookupExact(key)
	if !ok {
		return LookupResult{}, false, nil
	}
	res, err := h.Fetch(kw)
	if err != nil {
		return LookupResult{}, false, err
	}
	return res, true, nil
}

// Fetch resolves a previously-found keyword reference to its decoded
// payload.
func (h *Handle) Fetch(kw Keyword) (LookupResult, error) {
	raw, err := h.fetchRaw(kw)
	if err != nil {
		return LookupResult{}, err
	}
	text, err := decodeText(raw, h.meta.Encoding)
	if err != nil {
		// Fall back to the raw bytes as a string rather than fail the
		// whole fetch; invalid sequences are kept as-is, not replaced.
		text = string(raw)
	}
	return LookupResult{KeyText: kw.KeyText, Definition: text}, nil
}

// LocateRaw resolves key to its raw (undecoded) payload bytes — the MDD
// counterpart of Lookup, for binary resources.
func (h *Handle) LocateRaw(key string) ([]byte, bool, error) {
	kw, ok := h.lookupExact(key)
	if !ok {
		return nil, false, nil
	}
	raw, err := h.fetchRaw(kw)
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// Prefix returns keywords whose lowercased text starts with the
// lowercased prefix, in sort order. Uses the radix prefix index when
// available, falling back to a linear scan otherwise.
func (h *Handle) Prefix(prefix string) []Keyword {
	lowerPrefix := strings.ToLower(prefix)
	if h.prefixIdx != nil {
		indices := h.prefixIdx.indicesWithPrefix(lowerPrefix)
		out := make([]Keyword, len(indices))
		for i, idx := range indices {
			out[i] = h.keywordList[idx]
		}
		return out
	}
	return h.prefixScanLinear(lowerPrefix)
}

// prefixScanLinear is the O(N) conformance fallback: exercised directly
// by tests to confirm it agrees with the radix-accelerated path.
func (h *Handle) prefixScanLinear(lowerPrefix string) []Keyword {
	var out []Keyword
	for _, kw := range h.keywordList {
		if strings.HasPrefix(strings.ToLower(kw.KeyText), lowerPrefix) {
			out = append(out, kw)
		}
	}
	return out
}

// Associate returns every keyword sharing the key block of the nearest
// match to word — the candidate pool the writer grouped together,
// used to seed fuzzy suggestions.
func (h *Handle) Associate(word string) []Keyword {
	kw, ok := h.lookupAssociate(word)
	if !ok {
		return nil
	}
	var out []Keyword
	for _, k := range h.keywordList {
		if k.KeyBlockIdx == kw.KeyBlockIdx {
			out = append(out, k)
		}
	}
	return out
}

// levenshteinDistance computes the standard edit distance over Unicode
// scalars, cost 1 for substitution/insertion/deletion.
func levenshteinDistance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	m, n := len(ar), len(br)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
		dp[i][0] = i
	}
	for j := 0; j <= n; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if ar[i-1] != br[j-1] {
				dp[i][j] = 1 + min3(dp[i-1][j], dp[i][j-1], dp[i-1][j-1])
			} else {
				dp[i][j] = dp[i-1][j-1]
			}
		}
	}

	return dp[m][n]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Suggest returns associated keywords within maxDistance of word (edit
// distance over stripped keys), ascending by distance. maxDistance > 5
// returns nothing.
func (h *Handle) Suggest(word string, maxDistance int) []string {
	fuzzy := h.fuzzyCandidates(word, maxDistance)
	out := make([]string, len(fuzzy))
	for i, fw := range fuzzy {
		out[i] = fw.Keyword.KeyText
	}
	return out
}

// FuzzySearch is Suggest plus the edit distance for each match, capped at
// maxResults.
func (h *Handle) FuzzySearch(word string, maxResults, maxDistance int) []FuzzyWord {
	fuzzy := h.fuzzyCandidates(word, maxDistance)
	if maxResults < 0 {
		maxResults = 0
	}
	if len(fuzzy) > maxResults {
		fuzzy = fuzzy[:maxResults]
	}
	return fuzzy
}

func (h *Handle) fuzzyCandidates(word string, maxDistance int) []FuzzyWord {
	if maxDistance > 5 {
		return nil
	}
	isMDD := h.meta.Kind == KindMDD
	strippedWord := stripKey(word, isMDD)

	pool := h.Associate(word)

	out := make([]FuzzyWord, 0, len(pool))
	for _, kw := range pool {
		d := levenshteinDistance(stripKey(kw.KeyText, isMDD), strippedWord)
		if d <= maxDistance {
			out = append(out, FuzzyWord{Keyword: kw, EditDistance: d})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EditDistance < out[j].EditDistance
	})

	return out
}

// Count returns the total number of keywords.
func (h *Handle) Count() int {
	return len(h.keywordList)
}

// Keys returns every keyword's text, in sort order.
func (h *Handle) Keys() []string {
	out := make([]string, len(h.keywordList))
	for i, kw := range h.keywordList {
		out[i] = kw.KeyText
	}
	return out
}

// KeywordList returns every Keyword, in sort order.
func (h *Handle) KeywordList() []Keyword {
	out := make([]Keyword, len(h.keywordList))
	copy(out, h.keywordList)
	return out
}
