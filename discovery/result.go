package discovery

import (
	"strings"

	"github.com/jonwraymond/navrank/entry"
)

// ScoreType indicates the source of a search result's score.
type ScoreType string

const (
	// ScoreFuzzy indicates the tiered fuzzy score from package rank.
	ScoreFuzzy ScoreType = "fuzzy"

	// ScoreBM25 indicates the score came from BM25 lexical search.
	ScoreBM25 ScoreType = "bm25"

	// ScoreHybrid indicates the score is a weighted combination of BM25 and fuzzy.
	ScoreHybrid ScoreType = "hybrid"
)

// Result represents a unified search result with score details.
type Result struct {
	// Entry is the matched navigation target.
	Entry entry.Entry `json:"entry"`

	// Score is the relevance score for this result.
	// The score's interpretation depends on ScoreType.
	Score float64 `json:"score"`

	// ScoreType indicates how the Score was computed.
	ScoreType ScoreType `json:"scoreType"`

	// Highlights are the rune positions in Entry.Label matched by the
	// query, ascending. Empty for an empty query.
	Highlights []int `json:"highlights,omitempty"`
}

// Results is a slice of Result with helper methods.
type Results []Result

// IDs returns just the entry IDs from the results.
func (r Results) IDs() []int {
	ids := make([]int, len(r))
	for i, result := range r {
		ids[i] = result.Entry.ID
	}
	return ids
}

// Labels returns the entry labels in result order.
func (r Results) Labels() []string {
	labels := make([]string, len(r))
	for i, result := range r {
		labels[i] = result.Entry.Label
	}
	return labels
}

// Entries returns just the entries from the results.
func (r Results) Entries() []entry.Entry {
	entries := make([]entry.Entry, len(r))
	for i, result := range r {
		entries[i] = result.Entry
	}
	return entries
}

// FilterByKind returns results of the given kind.
func (r Results) FilterByKind(kind entry.Kind) Results {
	var filtered Results
	for _, result := range r {
		if result.Entry.Kind == kind {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// FilterByCategory returns results filed under category or any of its
// subcategories. "Work" matches "Work" and "Work / CI" but not "Workshop".
func (r Results) FilterByCategory(category string) Results {
	prefix := category + entry.CategorySeparator
	var filtered Results
	for _, result := range r {
		c := result.Entry.Category
		if c == category || strings.HasPrefix(c, prefix) {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// FilterByMinScore returns results with score >= minScore.
func (r Results) FilterByMinScore(minScore float64) Results {
	var filtered Results
	for _, result := range r {
		if result.Score >= minScore {
			filtered = append(filtered, result)
		}
	}
	return filtered
}
