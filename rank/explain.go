package rank

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/navrank/entry"
)

// TermExplanation describes how one query term scored.
type TermExplanation struct {
	Term string `json:"term"`

	// Field is the field that produced Score, empty when nothing matched.
	Field string  `json:"field,omitempty"`
	Tier  Tier    `json:"tier"`
	Score float64 `json:"score"`
}

// Explanation breaks an entry's score down by term.
type Explanation struct {
	Terms       []TermExplanation `json:"terms"`
	Total       float64           `json:"total"`
	MaxPossible float64           `json:"maxPossible"`
	Score       float64           `json:"score"`
}

// String renders one line per term followed by the final score.
func (e Explanation) String() string {
	var b strings.Builder
	for _, t := range e.Terms {
		if t.Tier == TierNone {
			fmt.Fprintf(&b, "%-16s no match\n", t.Term)
			continue
		}
		fmt.Fprintf(&b, "%-16s %-9s %-12s %.4f\n", t.Term, t.Tier, t.Field, t.Score)
	}
	fmt.Fprintf(&b, "score %.4f (total %.4f, max %.4f)", e.Score, e.Total, e.MaxPossible)
	return b.String()
}

// Explain scores a single item the same way Rank would and reports the
// contribution of every term. An empty query explains to score 1 with no
// terms.
func Explain[T any](item T, query string, fields []string, field entry.FieldFunc[T], opts Options) Explanation {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return Explanation{Score: 1}
	}

	var cache *Cache
	if !opts.DisableCache {
		cache = NewCache()
	}
	s := newScorer(fields, field, opts, cache)
	score, matches := s.score(item, 0, terms, true)

	out := Explanation{
		Terms:       make([]TermExplanation, len(matches)),
		MaxPossible: s.maxPossible,
		Score:       score,
	}
	for i, m := range matches {
		out.Terms[i] = TermExplanation{Term: terms[i], Field: m.field, Tier: m.tier, Score: m.score}
		out.Total += m.score
	}
	return out
}

// MarshalText lets Tier appear by name in JSON output.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
