package index

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jonwraymond/navrank/entry"
	"github.com/jonwraymond/navrank/tree"
)

// Error values for index operations.
var (
	ErrNotFound      = errors.New("entry not found")
	ErrInvalidCursor = errors.New("invalid cursor")
	ErrInvalidTree   = errors.New("invalid tree")
)

// Hit is a single search result.
type Hit struct {
	Entry entry.Entry `json:"entry"`
	Score float64     `json:"score"`
}

// Searcher ranks a snapshot of entries against a query.
//
// Implementations must not retain or modify entries. limit <= 0 means no
// limit.
type Searcher interface {
	Search(query string, limit int, entries []entry.Entry) ([]Hit, error)
}

// Index is the read/write surface of a navigation catalog.
type Index interface {
	Load(nodes []tree.Node) error
	Clear()
	Entries() []entry.Entry
	Get(id int) (entry.Entry, error)
	Resolve(id int) (*tree.Node, error)
	Search(query string, limit int) ([]Hit, error)
	SearchPage(query string, limit int, cursor string) ([]Hit, string, error)
	Categories() []string
	Kinds() map[entry.Kind]int
	Version() uint64
}

// ChangeType identifies what happened to the catalog.
type ChangeType string

const (
	ChangeLoaded  ChangeType = "loaded"
	ChangeCleared ChangeType = "cleared"
)

// ChangeEvent is delivered to listeners after the catalog changes.
type ChangeEvent struct {
	Type    ChangeType `json:"type"`
	Version uint64     `json:"version"`
	Count   int        `json:"count"`
}

// ChangeListener receives change events. Listeners run synchronously on the
// goroutine that made the change, after the index lock is released.
type ChangeListener func(ChangeEvent)

// ChangeNotifier is implemented by indexes that publish change events.
type ChangeNotifier interface {
	OnChange(listener ChangeListener) (unsubscribe func())
}

// IndexOptions configures an InMemoryIndex.
type IndexOptions struct {
	// Searcher ranks entries. Nil uses a FuzzySearcher with default config.
	Searcher Searcher
}

// InMemoryIndex keeps the loaded tree and its flattened entries in memory.
type InMemoryIndex struct {
	mu       sync.RWMutex
	nodes    []tree.Node
	entries  []entry.Entry
	version  uint64
	searcher Searcher

	listenerMu   sync.Mutex
	listeners    map[int]ChangeListener
	nextListener int
}

// NewInMemoryIndex creates an empty index.
func NewInMemoryIndex(opts ...IndexOptions) *InMemoryIndex {
	var o IndexOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Searcher == nil {
		o.Searcher = NewFuzzySearcher(FuzzyConfig{})
	}
	return &InMemoryIndex{
		searcher:  o.Searcher,
		listeners: make(map[int]ChangeListener),
	}
}

// Load validates nodes and replaces the catalog with them. The index keeps
// its own copy, so the caller may reuse nodes afterwards.
func (m *InMemoryIndex) Load(nodes []tree.Node) error {
	if err := tree.Validate(nodes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTree, err)
	}
	owned := cloneNodes(nodes)
	entries := tree.Flatten(owned)

	m.mu.Lock()
	m.nodes = owned
	m.entries = entries
	m.version++
	ev := ChangeEvent{Type: ChangeLoaded, Version: m.version, Count: len(entries)}
	m.mu.Unlock()

	m.notify(ev)
	return nil
}

// Clear empties the catalog.
func (m *InMemoryIndex) Clear() {
	m.mu.Lock()
	m.nodes = nil
	m.entries = nil
	m.version++
	ev := ChangeEvent{Type: ChangeCleared, Version: m.version}
	m.mu.Unlock()

	m.notify(ev)
}

// Version increases by one on every Load or Clear.
func (m *InMemoryIndex) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Entries returns a copy of the flattened entries in tree order.
func (m *InMemoryIndex) Entries() []entry.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entry.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Get returns the entry with the given ID.
func (m *InMemoryIndex) Get(id int) (entry.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id < 0 || id >= len(m.entries) {
		return entry.Entry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return m.entries[id], nil
}

// Resolve returns a copy of the tree node an entry was flattened from.
func (m *InMemoryIndex) Resolve(id int) (*tree.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id < 0 || id >= len(m.entries) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	n, err := tree.Resolve(m.nodes, m.entries[id].Ref)
	if err != nil {
		return nil, err
	}
	c := cloneNode(*n)
	return &c, nil
}

// Categories returns the distinct non-empty category breadcrumbs, sorted.
func (m *InMemoryIndex) Categories() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{})
	out := []string{}
	for _, e := range m.entries {
		if e.Category == "" {
			continue
		}
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	sort.Strings(out)
	return out
}

// Kinds counts entries per kind.
func (m *InMemoryIndex) Kinds() map[entry.Kind]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[entry.Kind]int)
	for _, e := range m.entries {
		out[e.Kind]++
	}
	return out
}

// Search ranks the current entries with the configured Searcher.
func (m *InMemoryIndex) Search(query string, limit int) ([]Hit, error) {
	return m.searcher.Search(query, limit, m.Entries())
}

// SearchPage returns one page of results and the cursor for the next page.
// An empty cursor starts at the beginning; an empty next cursor means there
// are no more results.
func (m *InMemoryIndex) SearchPage(query string, limit int, cursor string) ([]Hit, string, error) {
	if _, err := decodeCursor(cursor); err != nil {
		return nil, "", err
	}
	hits, err := m.Search(query, 0)
	if err != nil {
		return nil, "", err
	}
	return Paginate(hits, limit, cursor)
}

// OnChange registers listener and returns a function that removes it.
func (m *InMemoryIndex) OnChange(listener ChangeListener) func() {
	if listener == nil {
		return func() {}
	}
	m.listenerMu.Lock()
	id := m.nextListener
	m.nextListener++
	m.listeners[id] = listener
	m.listenerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.listenerMu.Lock()
			delete(m.listeners, id)
			m.listenerMu.Unlock()
		})
	}
}

func (m *InMemoryIndex) notify(ev ChangeEvent) {
	m.listenerMu.Lock()
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]ChangeListener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, m.listeners[id])
	}
	m.listenerMu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}

func cloneNodes(nodes []tree.Node) []tree.Node {
	if nodes == nil {
		return nil
	}
	out := make([]tree.Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneNode(n tree.Node) tree.Node {
	if n.Tags != nil {
		n.Tags = append([]string(nil), n.Tags...)
	}
	if n.Extra != nil {
		extra := make(map[string]any, len(n.Extra))
		for k, v := range n.Extra {
			extra[k] = v
		}
		n.Extra = extra
	}
	n.Children = cloneNodes(n.Children)
	return n
}
