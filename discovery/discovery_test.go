package discovery

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jonwraymond/navrank/entry"
	"github.com/jonwraymond/navrank/index"
	"github.com/jonwraymond/navrank/rank"
	"github.com/jonwraymond/navrank/tree"
)

func sampleTree() []tree.Node {
	return []tree.Node{
		{Label: "Work", Children: []tree.Node{
			{Label: "Issue tracker", Type: entry.KindURL, Target: "https://issues.example.com", Tags: []string{"bugs"}},
			{Label: "Deploy staging", Type: entry.KindShell, Target: "make deploy-staging", Description: "ship to staging"},
			{Label: "CI", Children: []tree.Node{
				{Label: "Build logs", Type: entry.KindURL, Target: "https://ci.example.com", Description: "ci build output"},
			}},
		}},
		{Label: "Notes", Children: []tree.Node{
			{Label: "Open README", Type: entry.KindMarkdown, Target: "README.md", Description: "project readme"},
		}},
	}
}

func newLoaded(t *testing.T, opts Options) *Discovery {
	t.Helper()
	disc, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = disc.Close() })
	if err := disc.Load(sampleTree()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return disc
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ============================================================
// Tests for construction
// ============================================================

func TestNew_DefaultOptions(t *testing.T) {
	disc, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if disc.idx == nil {
		t.Error("expected index to be initialized")
	}
	if disc.searcher == nil {
		t.Error("expected searcher to be initialized")
	}
	if disc.Strategy() != StrategyFuzzy {
		t.Errorf("expected fuzzy strategy, got %v", disc.Strategy())
	}
	if disc.ScoreType() != ScoreFuzzy {
		t.Errorf("expected score type fuzzy, got %v", disc.ScoreType())
	}
	if err := disc.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNew_Strategies(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     ScoreType
	}{
		{StrategyFuzzy, ScoreFuzzy},
		{StrategyBM25, ScoreBM25},
		{StrategyHybrid, ScoreHybrid},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			disc, err := New(Options{Strategy: tt.strategy})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer disc.Close()
			if disc.ScoreType() != tt.want {
				t.Errorf("expected %v, got %v", tt.want, disc.ScoreType())
			}
		})
	}
}

func TestNew_InvalidStrategy(t *testing.T) {
	_, err := New(Options{Strategy: "semantic"})
	if !errors.Is(err, ErrInvalidStrategy) {
		t.Fatalf("expected ErrInvalidStrategy, got %v", err)
	}
}

func TestNew_InvalidHybridAlpha(t *testing.T) {
	for _, alpha := range []float64{1.5, -0.1} {
		_, err := New(Options{Strategy: StrategyHybrid, HybridAlpha: alpha})
		if !errors.Is(err, ErrInvalidHybridConfig) {
			t.Errorf("alpha %v: expected ErrInvalidHybridConfig, got %v", alpha, err)
		}
	}
}

func TestNew_HybridDefaultAlpha(t *testing.T) {
	disc, err := New(Options{Strategy: StrategyHybrid})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer disc.Close()
	h, ok := disc.searcher.(*HybridSearcher)
	if !ok {
		t.Fatalf("expected *HybridSearcher, got %T", disc.searcher)
	}
	if h.Alpha() != 0.5 {
		t.Errorf("expected default alpha 0.5, got %v", h.Alpha())
	}
}

func TestNew_WithCustomIndex(t *testing.T) {
	idx := index.NewInMemoryIndex()
	disc, err := New(Options{Index: idx})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if disc.Index() != idx {
		t.Error("expected custom index to be used")
	}
}

// ============================================================
// Tests for Search
// ============================================================

func TestDiscovery_Search_Fuzzy(t *testing.T) {
	disc := newLoaded(t, Options{})

	results, err := disc.Search(context.Background(), "deploy", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	top := results[0]
	if top.Entry.Label != "Deploy staging" {
		t.Errorf("expected Deploy staging first, got %q", top.Entry.Label)
	}
	if top.ScoreType != ScoreFuzzy {
		t.Errorf("expected fuzzy score type, got %v", top.ScoreType)
	}
	if !approx(top.Score, 0.9) {
		t.Errorf("expected substring score 0.9, got %v", top.Score)
	}
	if want := []int{0, 1, 2, 3, 4, 5}; !reflect.DeepEqual(top.Highlights, want) {
		t.Errorf("highlights = %v, want %v", top.Highlights, want)
	}
}

func TestDiscovery_Search_Typo(t *testing.T) {
	disc := newLoaded(t, Options{Rank: rank.Options{Threshold: 0.1}})

	results, err := disc.Search(context.Background(), "opn readme", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Entry.Label != "Open README" {
		t.Fatalf("expected only Open README, got %v", results.Labels())
	}
	if want := []int{0, 1, 3, 5, 6, 7, 8, 9, 10}; !reflect.DeepEqual(results[0].Highlights, want) {
		t.Errorf("highlights = %v, want %v", results[0].Highlights, want)
	}
}

func TestDiscovery_Search_EmptyQuery(t *testing.T) {
	disc := newLoaded(t, Options{Rank: rank.Options{Threshold: 0.99}})

	results, err := disc.Search(context.Background(), "   ", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if want := []int{0, 1, 2, 3}; !reflect.DeepEqual(results.IDs(), want) {
		t.Fatalf("expected every entry in tree order, got %v", results.IDs())
	}
	for _, r := range results {
		if r.Score != 1 {
			t.Errorf("expected score 1, got %v", r.Score)
		}
		if len(r.Highlights) != 0 {
			t.Errorf("expected no highlights, got %v", r.Highlights)
		}
	}
}

func TestDiscovery_Search_Limit(t *testing.T) {
	disc := newLoaded(t, Options{})

	results, err := disc.Search(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestDiscovery_Search_BM25(t *testing.T) {
	disc := newLoaded(t, Options{Strategy: StrategyBM25})

	results, err := disc.Search(context.Background(), "readme", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Entry.Label != "Open README" {
		t.Fatalf("expected Open README, got %v", results.Labels())
	}
	if results[0].ScoreType != ScoreBM25 || results[0].Score <= 0 {
		t.Errorf("unexpected score %v (%v)", results[0].Score, results[0].ScoreType)
	}
}

func TestDiscovery_Search_Hybrid(t *testing.T) {
	disc := newLoaded(t, Options{Strategy: StrategyHybrid})

	results, err := disc.Search(context.Background(), "deploy", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %v", results.Labels())
	}
	// bm25 normalizes to 1 for the only lexical hit; fuzzy substring is 0.9.
	if !approx(results[0].Score, 0.95) {
		t.Errorf("expected hybrid score 0.95, got %v", results[0].Score)
	}
	if results[0].ScoreType != ScoreHybrid {
		t.Errorf("expected hybrid score type, got %v", results[0].ScoreType)
	}
}

func TestDiscovery_Search_Canceled(t *testing.T) {
	disc := newLoaded(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := disc.Search(ctx, "deploy", 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, _, err := disc.SearchPage(ctx, "deploy", 10, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled from SearchPage, got %v", err)
	}
}

func TestDiscovery_SearchPage(t *testing.T) {
	disc := newLoaded(t, Options{})

	page, cursor, err := disc.SearchPage(context.Background(), "", 3, "")
	if err != nil {
		t.Fatalf("SearchPage() error = %v", err)
	}
	if len(page) != 3 || cursor == "" {
		t.Fatalf("expected 3 results and a cursor, got %d and %q", len(page), cursor)
	}

	next, cursor, err := disc.SearchPage(context.Background(), "", 3, cursor)
	if err != nil {
		t.Fatalf("SearchPage() error = %v", err)
	}
	if len(next) != 1 || next[0].Entry.Label != "Open README" || cursor != "" {
		t.Fatalf("unexpected last page %v, cursor %q", next.Labels(), cursor)
	}

	if _, _, err := disc.SearchPage(context.Background(), "", 3, "nope"); !errors.Is(err, index.ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
}

// ============================================================
// Tests for Resolve and catalog accessors
// ============================================================

func TestDiscovery_Resolve(t *testing.T) {
	disc := newLoaded(t, Options{})

	results, err := disc.Search(context.Background(), "deploy", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	node, err := disc.Resolve(results[0])
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if node.Target != "make deploy-staging" {
		t.Errorf("unexpected node %+v", node)
	}

	if _, err := disc.Resolve(Result{Entry: entry.Entry{ID: 42}}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDiscovery_ResolveRef(t *testing.T) {
	disc := newLoaded(t, Options{})

	e, node, err := disc.ResolveRef(entry.Ref{0, 2, 0})
	if err != nil {
		t.Fatalf("ResolveRef() error = %v", err)
	}
	if e.Label != "Build logs" || node.Target != "https://ci.example.com" {
		t.Errorf("unexpected resolution %q -> %+v", e.Label, node)
	}
	if e.Category != "Work / CI" {
		t.Errorf("unexpected category %q", e.Category)
	}

	// Categories have refs but are not entries.
	if _, _, err := disc.ResolveRef(entry.Ref{0, 2}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for category ref, got %v", err)
	}
}

func TestDiscovery_Explain(t *testing.T) {
	disc := newLoaded(t, Options{})

	exp, err := disc.Explain("deploj", 1)
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if !approx(exp.Score, 0.5) {
		t.Errorf("expected score 0.5, got %v", exp.Score)
	}
	if exp.Terms[0].Tier != rank.TierTypo || exp.Terms[0].Field != entry.FieldLabel {
		t.Errorf("unexpected term explanation %+v", exp.Terms[0])
	}

	if _, err := disc.Explain("x", 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDiscovery_CatalogAccessors(t *testing.T) {
	disc := newLoaded(t, Options{})

	if disc.Len() != 4 {
		t.Errorf("expected 4 entries, got %d", disc.Len())
	}
	if want := []string{"Notes", "Work", "Work / CI"}; !reflect.DeepEqual(disc.Categories(), want) {
		t.Errorf("categories = %v, want %v", disc.Categories(), want)
	}
	if disc.Kinds()[entry.KindURL] != 2 {
		t.Errorf("unexpected kinds %v", disc.Kinds())
	}
	e, err := disc.Get(3)
	if err != nil || e.Label != "Open README" {
		t.Errorf("Get(3) = %q, %v", e.Label, err)
	}
}

func TestDiscovery_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nav.jsonc")
	data := `{
  // bookmarks
  "items": [
    {"label": "Home", "type": "file", "target": "~"},
  ]
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	disc, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := disc.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if disc.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", disc.Len())
	}

	if err := disc.LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDiscovery_OnChange(t *testing.T) {
	disc, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var events []index.ChangeEvent
	unsub := disc.OnChange(func(ev index.ChangeEvent) {
		events = append(events, ev)
	})
	defer unsub()

	if err := disc.Load(sampleTree()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(events) != 1 || events[0].Type != index.ChangeLoaded || events[0].Count != 4 {
		t.Fatalf("unexpected events %+v", events)
	}
}

// ============================================================
// Tests for Results helpers
// ============================================================

func sampleResults() Results {
	return Results{
		{Entry: entry.Entry{ID: 1, Label: "Deploy", Kind: entry.KindShell, Category: "Work"}, Score: 0.9},
		{Entry: entry.Entry{ID: 2, Label: "Logs", Kind: entry.KindURL, Category: "Work / CI"}, Score: 0.5},
		{Entry: entry.Entry{ID: 3, Label: "Shop", Kind: entry.KindURL, Category: "Workshop"}, Score: 0.2},
	}
}

func TestResults_IDsLabelsEntries(t *testing.T) {
	r := sampleResults()
	if want := []int{1, 2, 3}; !reflect.DeepEqual(r.IDs(), want) {
		t.Errorf("IDs() = %v", r.IDs())
	}
	if want := []string{"Deploy", "Logs", "Shop"}; !reflect.DeepEqual(r.Labels(), want) {
		t.Errorf("Labels() = %v", r.Labels())
	}
	if len(r.Entries()) != 3 || r.Entries()[1].Label != "Logs" {
		t.Errorf("Entries() = %v", r.Entries())
	}
}

func TestResults_FilterByKind(t *testing.T) {
	got := sampleResults().FilterByKind(entry.KindURL)
	if want := []int{2, 3}; !reflect.DeepEqual(got.IDs(), want) {
		t.Errorf("FilterByKind() = %v", got.IDs())
	}
}

func TestResults_FilterByCategory(t *testing.T) {
	got := sampleResults().FilterByCategory("Work")
	if want := []int{1, 2}; !reflect.DeepEqual(got.IDs(), want) {
		t.Errorf("FilterByCategory() = %v", got.IDs())
	}
}

func TestResults_FilterByMinScore(t *testing.T) {
	got := sampleResults().FilterByMinScore(0.5)
	if want := []int{1, 2}; !reflect.DeepEqual(got.IDs(), want) {
		t.Errorf("FilterByMinScore() = %v", got.IDs())
	}
}

// ============================================================
// Tests for searchers
// ============================================================

func TestHybridSearcher_EmptyQuery(t *testing.T) {
	h, err := NewHybridSearcher(HybridOptions{Alpha: 1})
	if err != nil {
		t.Fatalf("NewHybridSearcher() error = %v", err)
	}
	defer h.Close()

	entries := tree.Flatten(sampleTree())
	results, err := h.SearchWithScores(context.Background(), "", 2, entries)
	if err != nil {
		t.Fatalf("SearchWithScores() error = %v", err)
	}
	if want := []int{0, 1}; !reflect.DeepEqual(results.IDs(), want) {
		t.Errorf("expected first two entries, got %v", results.IDs())
	}
}

func TestHybridSearcher_AlphaExtremes(t *testing.T) {
	entries := tree.Flatten(sampleTree())

	// Alpha 0 is pure fuzzy: a typo that BM25 cannot see still matches.
	fuzzyOnly, err := NewHybridSearcher(HybridOptions{Alpha: 0})
	if err != nil {
		t.Fatalf("NewHybridSearcher() error = %v", err)
	}
	defer fuzzyOnly.Close()
	hits, err := fuzzyOnly.Search("deploj", 10, entries)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].Entry.ID != 1 || !approx(hits[0].Score, 0.5) {
		t.Fatalf("expected Deploy staging at 0.5, got %+v", hits)
	}

	// Alpha 1 is pure BM25: the typo matches nothing.
	bm25Only, err := NewHybridSearcher(HybridOptions{Alpha: 1})
	if err != nil {
		t.Fatalf("NewHybridSearcher() error = %v", err)
	}
	defer bm25Only.Close()
	hits, err = bm25Only.Search("deploj", 10, entries)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %+v", hits)
	}
}

func TestSortResults_EqualScores(t *testing.T) {
	results := Results{
		{Entry: entry.Entry{ID: 5}, Score: 0.5},
		{Entry: entry.Entry{ID: 2}, Score: 0.5},
		{Entry: entry.Entry{ID: 9}, Score: 0.7},
	}
	sortResults(results)
	if want := []int{9, 2, 5}; !reflect.DeepEqual(results.IDs(), want) {
		t.Errorf("sortResults() = %v, want %v", results.IDs(), want)
	}
}

func TestScoredSearcher_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	s := NewScoredSearcher(&mockSearcher{err: boom}, ScoreFuzzy)
	if _, err := s.SearchWithScores(context.Background(), "x", 1, nil); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if s.Unwrap() == nil {
		t.Fatal("expected wrapped searcher")
	}
}

type mockSearcher struct {
	err error
}

func (m *mockSearcher) Search(string, int, []entry.Entry) ([]index.Hit, error) {
	return nil, m.err
}

// ============================================================
// Tests for highlights
// ============================================================

func TestHighlights(t *testing.T) {
	tests := []struct {
		name  string
		label string
		query string
		want  []int
	}{
		{"prefix", "Deploy staging", "dep", []int{0, 1, 2}},
		{"case insensitive", "Open README", "readme", []int{5, 6, 7, 8, 9, 10}},
		{"multi-byte runes", "Café menu", "menu", []int{5, 6, 7, 8}},
		{"no match", "Logs", "xyz", nil},
		{"empty query", "Logs", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := highlights(tt.label, tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("highlights(%q, %q) = %v, want %v", tt.label, tt.query, got, tt.want)
			}
		})
	}
}
