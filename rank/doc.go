// Package rank turns a raw query and a list of candidate entries into a
// score-ordered result set, tolerating partial words and typos.
//
// # Usage
//
//	results := rank.RankEntries(entries, "opn readme", entry.DefaultFields, rank.DefaultOptions())
//	for _, r := range results {
//	    fmt.Printf("%.2f %s\n", r.Score, r.Entry.Label)
//	}
//
// Records of any type can be ranked by supplying a field accessor:
//
//	results := rank.Rank(bookmarks, query, []string{"title", "url"},
//	    func(b Bookmark, field string) (string, bool) { ... }, opts)
//
// # Scoring
//
// The query is lower-cased and split on whitespace into terms. Each term is
// matched against every searched field using the first tier that applies:
//
//   - exact: the whole field equals the term (weight; stops the field scan)
//   - substring: the field contains the term (0.9 × weight)
//   - partial word: a word of the field and the term contain one another
//     (0.9 × weight × shorter/longer length)
//   - typo: a word within MaxEditDistance edits of the term
//     (0.6 × weight × (1 − distance / max(MaxEditDistance+1, len(term))))
//
// A term's score is its best score over all fields. An entry's score is the
// sum of its term scores divided by terms × (Σ weights / fields). With more
// than one field of unequal weight this can exceed 1; the arithmetic is kept
// as is and pinned by tests.
//
// Entries scoring below Options.Threshold are dropped and the rest are
// stably sorted by descending score, so ties keep their input order. An
// empty query returns every entry with score 1 in input order.
//
// # Caching
//
// Each call owns a fresh [Cache] of lower-cased field text and edit
// distances. Text is keyed by the entry's position in the input slice, so
// entries with equal contents never share a slot. Setting
// Options.DisableCache changes speed, never results.
//
// # Thread Safety
//
// Rank holds no package-level state and is safe to call from many
// goroutines at once. A [Cache] is not safe for concurrent use.
package rank
