package search

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/jonwraymond/navrank/entry"
	"github.com/jonwraymond/navrank/index"
)

// Default field boosts.
const (
	DefaultLabelBoost       = 3.0
	DefaultCategoryBoost    = 2.0
	DefaultTagsBoost        = 2.0
	DefaultDescriptionBoost = 1.0
)

// BM25Config configures a BM25Searcher. Zero boosts take their defaults.
type BM25Config struct {
	LabelBoost       float64
	CategoryBoost    float64
	TagsBoost        float64
	DescriptionBoost float64

	// MaxDocs caps how many entries are indexed, in input order.
	// 0 means unlimited.
	MaxDocs int

	// MaxDocTextLen truncates descriptions and details to this many
	// runes before indexing. 0 means unlimited.
	MaxDocTextLen int
}

func (c BM25Config) withDefaults() BM25Config {
	if c.LabelBoost == 0 {
		c.LabelBoost = DefaultLabelBoost
	}
	if c.CategoryBoost == 0 {
		c.CategoryBoost = DefaultCategoryBoost
	}
	if c.TagsBoost == 0 {
		c.TagsBoost = DefaultTagsBoost
	}
	if c.DescriptionBoost == 0 {
		c.DescriptionBoost = DefaultDescriptionBoost
	}
	return c
}

// Indexed field names.
const (
	fieldLabel       = "label"
	fieldDescription = "description"
	fieldCategory    = "category"
	fieldTags        = "tags"
)

// BM25Searcher ranks entries with bleve's BM25 scoring. It implements
// index.Searcher.
type BM25Searcher struct {
	cfg BM25Config

	mu          sync.Mutex
	idx         bleve.Index
	fingerprint string
	docCount    int
	closed      bool
}

var _ index.Searcher = (*BM25Searcher)(nil)

// NewBM25Searcher creates a BM25Searcher. The bleve index is built lazily
// on the first Search.
func NewBM25Searcher(cfg BM25Config) *BM25Searcher {
	return &BM25Searcher{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (s *BM25Searcher) Config() BM25Config {
	return s.cfg
}

// Search implements index.Searcher. An empty query returns the first limit
// entries with score 0. Otherwise results are ordered by score descending,
// then entry ID ascending. limit <= 0 means no limit.
func (s *BM25Searcher) Search(q string, limit int, entries []entry.Entry) ([]index.Hit, error) {
	if s.cfg.MaxDocs > 0 && len(entries) > s.cfg.MaxDocs {
		entries = entries[:s.cfg.MaxDocs]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	if strings.TrimSpace(q) == "" {
		n := len(entries)
		if limit > 0 && limit < n {
			n = limit
		}
		hits := make([]index.Hit, n)
		for i := range n {
			hits[i] = index.Hit{Entry: entries[i]}
		}
		return hits, nil
	}

	if err := s.ensureIndex(entries); err != nil {
		return nil, err
	}
	if s.docCount == 0 {
		return []index.Hit{}, nil
	}

	req := bleve.NewSearchRequestOptions(s.buildQuery(q), s.docCount, 0, false)
	res, err := s.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bm25 search: %w", err)
	}

	// Document IDs are positions in entries. Hits carry the caller's
	// current entry so fields the index ignores are never stale.
	hits := make([]index.Hit, 0, len(res.Hits))
	for _, m := range res.Hits {
		pos, err := strconv.Atoi(m.ID)
		if err != nil || pos < 0 || pos >= len(entries) {
			continue
		}
		hits = append(hits, index.Hit{Entry: entries[pos], Score: m.Score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Entry.ID < hits[j].Entry.ID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Close releases the bleve index. Search returns ErrClosed afterwards.
func (s *BM25Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.closeIndex()
}

func (s *BM25Searcher) buildQuery(q string) query.Query {
	fields := []struct {
		name  string
		boost float64
	}{
		{fieldLabel, s.cfg.LabelBoost},
		{fieldDescription, s.cfg.DescriptionBoost},
		{fieldCategory, s.cfg.CategoryBoost},
		{fieldTags, s.cfg.TagsBoost},
	}
	queries := make([]query.Query, 0, len(fields))
	for _, f := range fields {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(f.name)
		mq.SetBoost(f.boost)
		queries = append(queries, mq)
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// ensureIndex rebuilds the bleve index when entries differ from the last
// indexed set. Callers hold s.mu.
func (s *BM25Searcher) ensureIndex(entries []entry.Entry) error {
	fp := computeFingerprint(entries)
	if s.idx != nil && fp == s.fingerprint {
		return nil
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return fmt.Errorf("creating bm25 index: %w", err)
	}
	batch := idx.NewBatch()
	for i, e := range entries {
		if err := batch.Index(strconv.Itoa(i), s.document(e)); err != nil {
			_ = idx.Close()
			return fmt.Errorf("indexing entry %d: %w", e.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return fmt.Errorf("indexing entries: %w", err)
	}

	if err := s.closeIndex(); err != nil {
		_ = idx.Close()
		return err
	}
	s.idx = idx
	s.fingerprint = fp
	s.docCount = len(entries)
	return nil
}

func (s *BM25Searcher) closeIndex() error {
	if s.idx == nil {
		return nil
	}
	err := s.idx.Close()
	s.idx = nil
	s.fingerprint = ""
	s.docCount = 0
	if err != nil {
		return fmt.Errorf("closing bm25 index: %w", err)
	}
	return nil
}

func (s *BM25Searcher) document(e entry.Entry) map[string]any {
	desc := e.Description
	if e.Detail != "" {
		desc = strings.TrimSpace(desc + " " + e.Detail)
	}
	return map[string]any{
		fieldLabel:       e.Label,
		fieldDescription: truncateRunes(desc, s.cfg.MaxDocTextLen),
		fieldCategory:    e.Category,
		fieldTags:        strings.Join(e.Tags, " "),
	}
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
