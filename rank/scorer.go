package rank

import (
	"strings"
	"unicode/utf8"

	"github.com/jonwraymond/navrank/entry"
)

// Tier multipliers.
const (
	substringFactor = 0.9
	wordFactor      = 0.9
	typoFactor      = 0.6
)

// Tier names the matching strategy that produced a term score.
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierSubstring
	TierWord
	TierTypo
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierSubstring:
		return "substring"
	case TierWord:
		return "word"
	case TierTypo:
		return "typo"
	default:
		return "none"
	}
}

// fieldSpec is a searched field and its weight.
type fieldSpec struct {
	name   string
	weight float64
}

// termMatch is the best match of one term against one entry.
type termMatch struct {
	field string
	tier  Tier
	score float64
}

// scorer holds the per-call state shared by every entry.
type scorer[T any] struct {
	fields      []fieldSpec
	maxPossible float64
	get         entry.FieldFunc[T]
	maxEdit     int
	cache       *Cache
}

func newScorer[T any](fields []string, get entry.FieldFunc[T], opts Options, cache *Cache) *scorer[T] {
	s := &scorer[T]{
		fields:  make([]fieldSpec, len(fields)),
		get:     get,
		maxEdit: opts.maxEdit(),
		cache:   cache,
	}
	for i, name := range fields {
		w := opts.weight(name)
		s.fields[i] = fieldSpec{name: name, weight: w}
		s.maxPossible += w
	}
	return s
}

// score returns the normalized score of item (at position pos) for terms,
// and the per-term matches when explain is set.
func (s *scorer[T]) score(item T, pos int, terms []string, explain bool) (float64, []termMatch) {
	var matches []termMatch
	if explain {
		matches = make([]termMatch, 0, len(terms))
	}

	total := 0.0
	for _, term := range terms {
		m := s.matchTerm(item, pos, term)
		total += m.score
		if explain {
			matches = append(matches, m)
		}
	}

	if s.maxPossible <= 0 {
		return 0, matches
	}
	perTerm := s.maxPossible / float64(len(s.fields))
	return total / (float64(len(terms)) * perTerm), matches
}

// matchTerm finds the best score for term across all fields. An exact
// match ends the scan.
func (s *scorer[T]) matchTerm(item T, pos int, term string) termMatch {
	var best termMatch
	for _, f := range s.fields {
		text := s.fieldText(item, pos, f.name)
		score, tier := s.matchField(term, text, f.weight)
		if tier == TierNone {
			continue
		}
		if tier == TierExact {
			if score > best.score || best.tier == TierNone {
				best = termMatch{field: f.name, tier: tier, score: score}
			}
			return best
		}
		if score > best.score {
			best = termMatch{field: f.name, tier: tier, score: score}
		}
	}
	return best
}

func (s *scorer[T]) fieldText(item T, pos int, field string) string {
	return s.cache.text(pos, field, func() (string, bool) {
		if s.get == nil {
			return "", false
		}
		return s.get(item, field)
	})
}

// matchField scores one term against one field's lower-cased text.
func (s *scorer[T]) matchField(term, text string, weight float64) (float64, Tier) {
	if text == "" {
		return 0, TierNone
	}
	if text == term {
		return weight, TierExact
	}
	if strings.Contains(text, term) {
		return weight * substringFactor, TierSubstring
	}

	words := strings.Fields(text)
	termLen := utf8.RuneCountInString(term)

	best := 0.0
	for _, word := range words {
		var score float64
		switch {
		case word == term:
			score = weight * wordFactor
		case strings.Contains(word, term) || strings.Contains(term, word):
			wordLen := utf8.RuneCountInString(word)
			score = weight * wordFactor * float64(min(termLen, wordLen)) / float64(max(termLen, wordLen))
		}
		if score > best {
			best = score
		}
	}
	if best > 0 {
		return best, TierWord
	}

	if s.maxEdit <= 0 {
		return 0, TierNone
	}
	denom := float64(max(s.maxEdit+1, termLen))
	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		if abs(wordLen-termLen) > s.maxEdit {
			continue
		}
		d := s.cache.distance(term, word)
		if d > s.maxEdit {
			continue
		}
		score := weight * (1 - float64(d)/denom) * typoFactor
		if score > best {
			best = score
		}
	}
	if best > 0 {
		return best, TierTypo
	}
	return 0, TierNone
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
