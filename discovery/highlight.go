package discovery

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/jonwraymond/navrank/rank"
)

// highlights returns the rune positions of label matched by the query
// terms. Each term is matched on its own, so "op rd" marks the "op" of
// "Open" and the "r..d" of "README".
func highlights(label, query string) []int {
	terms := rank.Tokenize(query)
	if len(terms) == 0 || label == "" {
		return nil
	}

	// sahilm/fuzzy reports byte offsets; map them to rune positions.
	runeAt := make(map[int]int, len(label))
	n := 0
	for b := range label {
		runeAt[b] = n
		n++
	}

	seen := make(map[int]struct{})
	var out []int
	for _, term := range terms {
		matches := fuzzy.Find(term, []string{label})
		if len(matches) == 0 {
			continue
		}
		for _, b := range matches[0].MatchedIndexes {
			r, ok := runeAt[b]
			if !ok {
				continue
			}
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	sort.Ints(out)
	return out
}

func addHighlights(results Results, query string) {
	for i := range results {
		results[i].Highlights = highlights(results[i].Entry.Label, query)
	}
}
