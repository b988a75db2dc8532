// Package search provides a BM25 searcher for the index package.
//
// It exists to:
//   - Keep index small and dependency-light
//   - Offer a term-frequency ranking next to the fuzzy scorer, for long
//     descriptions where typo tolerance matters less than relevance
//
// # Usage
//
// The primary type is [BM25Searcher], which implements [index.Searcher]:
//
//	idx := index.NewInMemoryIndex(index.IndexOptions{
//	    Searcher: search.NewBM25Searcher(search.BM25Config{}),
//	})
//
// # Configuration
//
// [BM25Config] allows customization of field boosts and safety limits:
//
//	cfg := search.BM25Config{
//	    LabelBoost:       3,    // default: 3
//	    CategoryBoost:    2,    // default: 2
//	    TagsBoost:        2,    // default: 2
//	    DescriptionBoost: 1,    // default: 1
//	    MaxDocs:          1000, // 0 = unlimited
//	    MaxDocTextLen:    5000, // 0 = unlimited
//	}
//
// # Thread Safety
//
// BM25Searcher is safe for concurrent use. A mutex guards the bleve index,
// which is cached by a fingerprint of the entries and rebuilt only when the
// entry set changes.
//
// # Behavior
//
// Empty queries return the first N entries with score 0. Non-empty queries
// use BM25 ranking with deterministic tie-breaking (score DESC, then entry
// ID ASC).
package search
