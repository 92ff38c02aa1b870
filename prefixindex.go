package mdict

import (
	"sort"
	"strings"

	art "github.com/plar/go-adaptive-radix-tree/v2"
)

// prefixIndex accelerates Prefix queries with an adaptive radix tree
// keyed by each keyword's lowercased text, mapping to the keyword_list
// indices that share it (duplicates are legal in a dictionary). This
// narrows the candidate set to exactly the entries whose lowercase text
// has the queried prefix — the same predicate the O(N) scan uses, so the
// two are provably equivalent, just different in asymptotic cost.
type prefixIndex struct {
	tree art.Tree
}

func buildPrefixIndex(keywords []Keyword) *prefixIndex {
	tree := art.New()
	for i, kw := range keywords {
		key := art.Key(strings.ToLower(kw.KeyText))
		if existing, found := tree.Search(key); found {
			tree.Insert(key, append(existing.([]int), i))
		} else {
			tree.Insert(key, []int{i})
		}
	}
	return &prefixIndex{tree: tree}
}

// indicesWithPrefix returns keyword_list indices whose lowercased key
// starts with lowerPrefix, in ascending order.
func (p *prefixIndex) indicesWithPrefix(lowerPrefix string) []int {
	var out []int
	p.tree.ForEachPrefix(art.Key(lowerPrefix), func(node art.Node) bool {
		out = append(out, node.Value().([]int)...)
		return true
	}, art.TraverseLeaf)
	sort.Ints(out)
	return out
}
