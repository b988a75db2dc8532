package rank

import (
	"strings"
)

// DefaultMaxEditDistance is used when Options.MaxEditDistance is nil.
const DefaultMaxEditDistance = 2

// Options configures a Rank call. The zero value is usable and matches
// DefaultOptions. Values are taken as given; a negative Threshold, for
// example, simply keeps every entry.
type Options struct {
	// Threshold is the minimum normalized score an entry needs to be
	// returned. Default: 0.
	Threshold float64

	// Weights multiplies the contribution of a field. Fields not present
	// in the map weigh 1.
	Weights map[string]float64

	// MaxEditDistance bounds the typo tier. Nil means
	// DefaultMaxEditDistance. Zero admits only words at distance 0, which
	// the partial-word tier already scores, so zero and negative values
	// both turn typo matching off.
	MaxEditDistance *int

	// DisableCache turns off per-call memoization of field text and edit
	// distances.
	DisableCache bool
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:       0,
		MaxEditDistance: MaxEdits(DefaultMaxEditDistance),
	}
}

// MaxEdits returns a pointer to n for Options.MaxEditDistance.
func MaxEdits(n int) *int {
	return &n
}

func (o Options) maxEdit() int {
	if o.MaxEditDistance == nil {
		return DefaultMaxEditDistance
	}
	return *o.MaxEditDistance
}

func (o Options) weight(field string) float64 {
	if w, ok := o.Weights[field]; ok {
		return w
	}
	return 1
}

// Tokenize lower-cases query and splits it on runs of whitespace. Empty
// terms are dropped and repeated terms are kept once, in first-seen order.
func Tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(fields))
	terms := fields[:0]
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}
