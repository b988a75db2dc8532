package rank

import (
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Cache memoizes lower-cased field text and edit distances for a single
// Rank call. The zero value is not usable; call NewCache. A nil *Cache is
// valid and caches nothing.
//
// Cache is not safe for concurrent use.
type Cache struct {
	distances map[pairKey]int
	texts     map[textKey]string
}

// pairKey holds a string pair in canonical order.
type pairKey struct {
	a, b string
}

// textKey identifies one field of one entry by the entry's position in the
// ranked slice.
type textKey struct {
	pos   int
	field string
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		distances: make(map[pairKey]int),
		texts:     make(map[textKey]string),
	}
}

// Distances returns the number of memoized edit distances.
func (c *Cache) Distances() int {
	if c == nil {
		return 0
	}
	return len(c.distances)
}

// Texts returns the number of memoized field texts.
func (c *Cache) Texts() int {
	if c == nil {
		return 0
	}
	return len(c.texts)
}

// text returns the lower-cased value of field for the entry at pos,
// calling load on a miss.
func (c *Cache) text(pos int, field string, load func() (string, bool)) string {
	if c == nil {
		return lowerField(load)
	}
	key := textKey{pos: pos, field: field}
	if s, ok := c.texts[key]; ok {
		return s
	}
	s := lowerField(load)
	c.texts[key] = s
	return s
}

func lowerField(load func() (string, bool)) string {
	s, ok := load()
	if !ok {
		return ""
	}
	return strings.ToLower(s)
}

// distance returns the memoized Levenshtein distance between a and b.
func (c *Cache) distance(a, b string) int {
	if c == nil {
		return Distance(a, b)
	}
	key := canonicalPair(a, b)
	if d, ok := c.distances[key]; ok {
		return d
	}
	d := Distance(key.a, key.b)
	c.distances[key] = d
	return d
}

// canonicalPair orders a pair shorter-first, then lexically, so (a, b) and
// (b, a) share a cache slot.
func canonicalPair(a, b string) pairKey {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la > lb || (la == lb && a > b) {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// Distance returns the Levenshtein edit distance between a and b, counting
// single-rune insertions, deletions, and substitutions.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	return edlib.LevenshteinDistance(a, b)
}
