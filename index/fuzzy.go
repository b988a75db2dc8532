package index

import (
	"github.com/jonwraymond/navrank/entry"
	"github.com/jonwraymond/navrank/rank"
)

// FuzzyConfig configures a FuzzySearcher.
type FuzzyConfig struct {
	// Fields are the entry fields to score. Empty means entry.DefaultFields.
	Fields []string

	// Options are passed to rank.RankEntries unchanged.
	Options rank.Options
}

// FuzzySearcher is the default Searcher. It ranks with the tiered fuzzy
// scorer from package rank.
type FuzzySearcher struct {
	fields []string
	opts   rank.Options
}

// NewFuzzySearcher creates a FuzzySearcher.
func NewFuzzySearcher(cfg FuzzyConfig) *FuzzySearcher {
	fields := cfg.Fields
	if len(fields) == 0 {
		fields = entry.DefaultFields
	}
	return &FuzzySearcher{
		fields: append([]string(nil), fields...),
		opts:   cfg.Options,
	}
}

// Search implements Searcher. Results keep rank's ordering: descending
// score with ties in entry order.
func (s *FuzzySearcher) Search(query string, limit int, entries []entry.Entry) ([]Hit, error) {
	results := rank.RankEntries(entries, query, s.fields, s.opts)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{Entry: r.Entry, Score: r.Score}
	}
	return hits, nil
}

// Fields returns the fields this searcher scores.
func (s *FuzzySearcher) Fields() []string {
	return append([]string(nil), s.fields...)
}

// Options returns the ranking options this searcher uses.
func (s *FuzzySearcher) Options() rank.Options {
	return s.opts
}
