package discovery

import (
	"context"
	"fmt"
	"io"

	"github.com/jonwraymond/navrank/entry"
	"github.com/jonwraymond/navrank/index"
	"github.com/jonwraymond/navrank/rank"
	"github.com/jonwraymond/navrank/search"
	"github.com/jonwraymond/navrank/tree"
)

// ErrNotFound is returned when an ID or ref matches no entry. It is the
// same value as index.ErrNotFound.
var ErrNotFound = index.ErrNotFound

// Strategy selects how queries are ranked.
type Strategy string

const (
	// StrategyFuzzy uses the tiered fuzzy scorer. This is the default.
	StrategyFuzzy Strategy = "fuzzy"

	// StrategyBM25 uses bleve's BM25 scoring.
	StrategyBM25 Strategy = "bm25"

	// StrategyHybrid blends BM25 and fuzzy scores by HybridAlpha.
	StrategyHybrid Strategy = "hybrid"
)

// Strategies lists the known strategies.
var Strategies = []Strategy{StrategyFuzzy, StrategyBM25, StrategyHybrid}

// Valid reports whether s names a known strategy. The empty strategy is
// valid and means StrategyFuzzy.
func (s Strategy) Valid() bool {
	switch s {
	case "", StrategyFuzzy, StrategyBM25, StrategyHybrid:
		return true
	}
	return false
}

// Options configures a Discovery instance.
type Options struct {
	// Index is the catalog. If nil, a new InMemoryIndex using the selected
	// strategy is created.
	Index index.Index

	// Strategy selects the ranking. Default: StrategyFuzzy.
	Strategy Strategy

	// Fields are the entry fields the fuzzy scorer reads.
	// Default: entry.DefaultFields.
	Fields []string

	// Rank configures the fuzzy scorer.
	Rank rank.Options

	// BM25Config configures the BM25 searcher for the bm25 and hybrid
	// strategies.
	BM25Config search.BM25Config

	// HybridAlpha is the BM25 weight for hybrid search (0.0 to 1.0).
	// Fuzzy weight is 1-HybridAlpha.
	// Default: 0.5 (equal weighting). Only used with StrategyHybrid.
	HybridAlpha float64
}

// Discovery is the facade a picker or launcher talks to. It combines the
// index, the selected searcher and label highlighting.
type Discovery struct {
	idx      index.Index
	searcher CompositeSearcher
	closer   io.Closer
	strategy Strategy
	fields   []string
	rankOpts rank.Options
}

// New creates a new Discovery instance with the given options.
func New(opts Options) (*Discovery, error) {
	if !opts.Strategy.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, opts.Strategy)
	}
	strategy := opts.Strategy
	if strategy == "" {
		strategy = StrategyFuzzy
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = entry.DefaultFields
	}
	fuzzyCfg := index.FuzzyConfig{Fields: fields, Options: opts.Rank}

	d := &Discovery{
		strategy: strategy,
		fields:   append([]string(nil), fields...),
		rankOpts: opts.Rank,
	}

	switch strategy {
	case StrategyHybrid:
		alpha := opts.HybridAlpha
		if alpha == 0 {
			alpha = 0.5
		}
		hybrid, err := NewHybridSearcher(HybridOptions{
			BM25Config: opts.BM25Config,
			Fuzzy:      fuzzyCfg,
			Alpha:      alpha,
		})
		if err != nil {
			return nil, err
		}
		d.searcher = hybrid
		d.closer = hybrid
	case StrategyBM25:
		bm25 := search.NewBM25Searcher(opts.BM25Config)
		d.searcher = NewScoredSearcher(bm25, ScoreBM25)
		d.closer = bm25
	default:
		d.searcher = NewScoredSearcher(index.NewFuzzySearcher(fuzzyCfg), ScoreFuzzy)
	}

	if opts.Index != nil {
		d.idx = opts.Index
	} else {
		d.idx = index.NewInMemoryIndex(index.IndexOptions{Searcher: d.searcher})
	}

	return d, nil
}

// Load replaces the catalog with nodes.
func (d *Discovery) Load(nodes []tree.Node) error {
	return d.idx.Load(nodes)
}

// LoadFile reads a JSON, JSONC or YAML tree from path and loads it.
func (d *Discovery) LoadFile(path string) error {
	nodes, err := tree.ReadFile(path)
	if err != nil {
		return err
	}
	return d.Load(nodes)
}

// Search ranks the catalog with the configured strategy. limit <= 0 means
// no limit. Results carry label highlights.
func (d *Discovery) Search(ctx context.Context, query string, limit int) (Results, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results, err := d.searcher.SearchWithScores(ctx, query, limit, d.idx.Entries())
	if err != nil {
		return nil, err
	}
	addHighlights(results, query)
	return results, nil
}

// SearchPage performs paginated search. Cursors are those of
// index.Paginate and fail with index.ErrInvalidCursor.
func (d *Discovery) SearchPage(ctx context.Context, query string, limit int, cursor string) (Results, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	all, err := d.searcher.SearchWithScores(ctx, query, 0, d.idx.Entries())
	if err != nil {
		return nil, "", err
	}
	page, next, err := index.Paginate(all, limit, cursor)
	if err != nil {
		return nil, "", err
	}
	addHighlights(page, query)
	return page, next, nil
}

// Get retrieves an entry by ID.
func (d *Discovery) Get(id int) (entry.Entry, error) {
	return d.idx.Get(id)
}

// Resolve maps a result back to the tree node it came from.
func (d *Discovery) Resolve(r Result) (*tree.Node, error) {
	return d.idx.Resolve(r.Entry.ID)
}

// ResolveRef finds the entry whose tree path is ref and returns it with
// its node.
func (d *Discovery) ResolveRef(ref entry.Ref) (entry.Entry, *tree.Node, error) {
	want := ref.String()
	for _, e := range d.idx.Entries() {
		if e.Ref.String() != want {
			continue
		}
		node, err := d.idx.Resolve(e.ID)
		if err != nil {
			return entry.Entry{}, nil, err
		}
		return e, node, nil
	}
	return entry.Entry{}, nil, fmt.Errorf("%w: ref %s", ErrNotFound, want)
}

// Explain reports how the fuzzy scorer arrives at the score of entry id
// for query, whatever the configured strategy.
func (d *Discovery) Explain(query string, id int) (rank.Explanation, error) {
	e, err := d.idx.Get(id)
	if err != nil {
		return rank.Explanation{}, err
	}
	return rank.Explain(e, query, d.fields, entry.FielderFunc[entry.Entry](), d.rankOpts), nil
}

// Categories returns the sorted category breadcrumbs of the catalog.
func (d *Discovery) Categories() []string {
	return d.idx.Categories()
}

// Kinds counts entries per kind.
func (d *Discovery) Kinds() map[entry.Kind]int {
	return d.idx.Kinds()
}

// Len returns the number of entries in the catalog.
func (d *Discovery) Len() int {
	return len(d.idx.Entries())
}

// Strategy returns the effective ranking strategy.
func (d *Discovery) Strategy() Strategy {
	return d.strategy
}

// ScoreType returns the score type attached to results.
func (d *Discovery) ScoreType() ScoreType {
	return d.searcher.GetScoreType()
}

// OnChange registers a listener for index changes.
// Returns an unsubscribe function.
func (d *Discovery) OnChange(listener index.ChangeListener) func() {
	if notifier, ok := d.idx.(index.ChangeNotifier); ok {
		return notifier.OnChange(listener)
	}
	return func() {}
}

// Index returns the underlying index for advanced operations.
func (d *Discovery) Index() index.Index {
	return d.idx
}

// Close releases searcher resources such as the BM25 index.
func (d *Discovery) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}
