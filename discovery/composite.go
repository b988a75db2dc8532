package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jonwraymond/navrank/entry"
	"github.com/jonwraymond/navrank/index"
	"github.com/jonwraymond/navrank/rank"
	"github.com/jonwraymond/navrank/search"
)

// Error values for searcher construction.
var (
	ErrInvalidHybridConfig = errors.New("invalid hybrid config")
	ErrInvalidStrategy     = errors.New("invalid strategy")
)

// CompositeSearcher is a searcher that reports scores with their source.
// It implements index.Searcher for compatibility with InMemoryIndex.
type CompositeSearcher interface {
	index.Searcher

	// SearchWithScores returns results with detailed score information.
	SearchWithScores(ctx context.Context, query string, limit int, entries []entry.Entry) (Results, error)

	// GetScoreType returns the type of scoring used by this searcher.
	GetScoreType() ScoreType
}

// ScoredSearcher adapts any index.Searcher to CompositeSearcher, tagging
// its scores with a fixed ScoreType.
type ScoredSearcher struct {
	inner     index.Searcher
	scoreType ScoreType
}

// NewScoredSearcher wraps inner.
func NewScoredSearcher(inner index.Searcher, scoreType ScoreType) *ScoredSearcher {
	return &ScoredSearcher{inner: inner, scoreType: scoreType}
}

// Search implements index.Searcher.
func (s *ScoredSearcher) Search(query string, limit int, entries []entry.Entry) ([]index.Hit, error) {
	return s.inner.Search(query, limit, entries)
}

// SearchWithScores implements CompositeSearcher.
func (s *ScoredSearcher) SearchWithScores(ctx context.Context, query string, limit int, entries []entry.Entry) (Results, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hits, err := s.inner.Search(query, limit, entries)
	if err != nil {
		return nil, err
	}
	results := make(Results, len(hits))
	for i, h := range hits {
		results[i] = Result{Entry: h.Entry, Score: h.Score, ScoreType: s.scoreType}
	}
	return results, nil
}

// GetScoreType returns the ScoreType given to NewScoredSearcher.
func (s *ScoredSearcher) GetScoreType() ScoreType {
	return s.scoreType
}

// Unwrap returns the wrapped searcher.
func (s *ScoredSearcher) Unwrap() index.Searcher {
	return s.inner
}

// HybridSearcher blends BM25 relevance with the fuzzy score. BM25 scores
// are divided by the best BM25 score of the query so both sides lie in a
// comparable range before weighting.
type HybridSearcher struct {
	bm25  *search.BM25Searcher
	fuzzy *index.FuzzySearcher
	alpha float64 // BM25 weight (1-alpha for fuzzy)
}

// HybridOptions configures a HybridSearcher.
type HybridOptions struct {
	// BM25 is an optional BM25 searcher. If nil, one is created from BM25Config.
	BM25 *search.BM25Searcher

	// BM25Config is used when BM25 is nil.
	BM25Config search.BM25Config

	// Fuzzy configures the fuzzy side.
	Fuzzy index.FuzzyConfig

	// Alpha is the BM25 weight (0.0 to 1.0). Fuzzy weight is 1-Alpha.
	Alpha float64
}

// NewHybridSearcher creates a searcher combining BM25 and fuzzy ranking.
func NewHybridSearcher(opts HybridOptions) (*HybridSearcher, error) {
	if opts.Alpha < 0 || opts.Alpha > 1 {
		return nil, fmt.Errorf("%w: alpha %v outside [0, 1]", ErrInvalidHybridConfig, opts.Alpha)
	}
	bm25 := opts.BM25
	if bm25 == nil {
		bm25 = search.NewBM25Searcher(opts.BM25Config)
	}
	return &HybridSearcher{
		bm25:  bm25,
		fuzzy: index.NewFuzzySearcher(opts.Fuzzy),
		alpha: opts.Alpha,
	}, nil
}

// Search implements index.Searcher using hybrid scoring.
func (h *HybridSearcher) Search(query string, limit int, entries []entry.Entry) ([]index.Hit, error) {
	results, err := h.SearchWithScores(context.Background(), query, limit, entries)
	if err != nil {
		return nil, err
	}
	hits := make([]index.Hit, len(results))
	for i, r := range results {
		hits[i] = index.Hit{Entry: r.Entry, Score: r.Score}
	}
	return hits, nil
}

// SearchWithScores returns results with blended scores. An empty query
// returns every entry with score 1 in input order.
func (h *HybridSearcher) SearchWithScores(ctx context.Context, query string, limit int, entries []entry.Entry) (Results, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rank.Tokenize(query)) == 0 {
		return identityResults(entries, limit), nil
	}

	lexical, err := h.bm25.Search(query, 0, entries)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fuzzy, err := h.fuzzy.Search(query, 0, entries)
	if err != nil {
		return nil, err
	}

	maxBM25 := 0.0
	for _, hit := range lexical {
		if hit.Score > maxBM25 {
			maxBM25 = hit.Score
		}
	}

	type blended struct {
		entry entry.Entry
		bm25  float64
		fuzzy float64
	}
	byID := make(map[int]*blended, len(fuzzy))
	order := make([]int, 0, len(fuzzy))
	get := func(e entry.Entry) *blended {
		b, ok := byID[e.ID]
		if !ok {
			b = &blended{entry: e}
			byID[e.ID] = b
			order = append(order, e.ID)
		}
		return b
	}
	for _, hit := range lexical {
		if maxBM25 > 0 {
			get(hit.Entry).bm25 = hit.Score / maxBM25
		}
	}
	for _, hit := range fuzzy {
		get(hit.Entry).fuzzy = hit.Score
	}

	results := make(Results, 0, len(order))
	for _, id := range order {
		b := byID[id]
		score := h.alpha*b.bm25 + (1-h.alpha)*b.fuzzy
		if score <= 0 {
			continue
		}
		results = append(results, Result{Entry: b.entry, Score: score, ScoreType: ScoreHybrid})
	}

	sortResults(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetScoreType returns ScoreHybrid.
func (h *HybridSearcher) GetScoreType() ScoreType {
	return ScoreHybrid
}

// Alpha returns the BM25 weight.
func (h *HybridSearcher) Alpha() float64 {
	return h.alpha
}

// Close releases the BM25 index.
func (h *HybridSearcher) Close() error {
	return h.bm25.Close()
}

// sortResults sorts by score descending, then by entry ID ascending.
func sortResults(results Results) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.ID < results[j].Entry.ID
	})
}

func identityResults(entries []entry.Entry, limit int) Results {
	n := len(entries)
	if limit > 0 && limit < n {
		n = limit
	}
	results := make(Results, n)
	for i := range n {
		results[i] = Result{Entry: entries[i], Score: 1, ScoreType: ScoreHybrid}
	}
	return results
}
