package rank

import (
	"sort"

	"github.com/jonwraymond/navrank/entry"
)

// Result pairs a ranked entry with its normalized score.
type Result[T any] struct {
	// Entry is the ranked record, copied from the input slice.
	Entry T

	// Index is the entry's position in the input slice.
	Index int

	// Score is the normalized score; 1 for every entry on an empty query.
	Score float64
}

// Rank scores entries against query over the named fields, drops entries
// below opts.Threshold, and returns the rest in descending score order.
// Ties keep their input order. The input slice is not modified.
//
// field reads a named field from an entry; a nil field treats every field
// as absent.
func Rank[T any](entries []T, query string, fields []string, field entry.FieldFunc[T], opts Options) []Result[T] {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return identity(entries)
	}

	var cache *Cache
	if !opts.DisableCache {
		cache = NewCache()
	}
	s := newScorer(fields, field, opts, cache)

	results := make([]Result[T], 0, len(entries))
	for i, e := range entries {
		score, _ := s.score(e, i, terms, false)
		if score < opts.Threshold {
			continue
		}
		results = append(results, Result[T]{Entry: e, Index: i, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// RankEntries ranks any Fielder type, such as entry.Entry.
func RankEntries[T entry.Fielder](entries []T, query string, fields []string, opts Options) []Result[T] {
	return Rank(entries, query, fields, entry.FielderFunc[T](), opts)
}

// identity is the empty-query result: everything, score 1, input order.
func identity[T any](entries []T) []Result[T] {
	results := make([]Result[T], len(entries))
	for i, e := range entries {
		results[i] = Result[T]{Entry: e, Index: i, Score: 1}
	}
	return results
}
