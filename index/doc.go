// Package index holds the navigation catalog: the loaded tree, its flattened
// entries, and the searcher used to rank them.
//
// # Usage
//
// Load a tree and search it:
//
//	idx := index.NewInMemoryIndex()
//	if err := idx.Load(nodes); err != nil {
//	    return err
//	}
//	hits, err := idx.Search("readme", 10)
//
// Resolve a hit back to its tree node:
//
//	node, err := idx.Resolve(hits[0].Entry.ID)
//
// # Pluggable Search
//
// The default searcher is a FuzzySearcher over package rank. Any Searcher
// can be supplied instead, such as the BM25 searcher in package search:
//
//	idx := index.NewInMemoryIndex(index.IndexOptions{
//	    Searcher: search.NewBM25Searcher(search.BM25Config{}),
//	})
//
// # Pagination
//
// SearchPage returns an opaque cursor for the next page:
//
//	page, next, err := idx.SearchPage("query", 20, "")
//	for next != "" {
//	    page, next, err = idx.SearchPage("query", 20, next)
//	}
//
// A cursor is only meaningful for the catalog version it was issued
// against. After a Load the same cursor may skip or repeat entries.
//
// # Change Notifications
//
//	unsub := idx.OnChange(func(ev index.ChangeEvent) {
//	    log.Printf("catalog %s: v%d, %d entries", ev.Type, ev.Version, ev.Count)
//	})
//	defer unsub()
//
// # Thread Safety
//
// InMemoryIndex is safe for concurrent use. Search takes a snapshot of the
// entries and ranks it without holding the lock, so a slow searcher never
// blocks Load.
package index
