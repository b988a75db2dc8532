// Package discovery is the facade a picker, launcher or MCP server uses to
// search a navigation tree.
//
// It combines the tree, index, rank and search packages into a single,
// easy-to-use API. This package is the recommended entry point for most
// use cases.
//
// # Basic Usage
//
//	disc, err := discovery.New(discovery.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer disc.Close()
//
//	if err := disc.LoadFile("nav.jsonc"); err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := disc.Search(ctx, "opn readme", 10)
//	node, err := disc.Resolve(results[0])
//
// # Strategies
//
//   - fuzzy (default): tiered exact/substring/word/typo scoring from package rank
//   - bm25: bleve BM25 over label, description, category and tags
//   - hybrid: alpha*bm25/max(bm25) + (1-alpha)*fuzzy
//
//	disc, err := discovery.New(discovery.Options{
//	    Strategy:    discovery.StrategyHybrid,
//	    HybridAlpha: 0.3, // 30% BM25, 70% fuzzy
//	})
//
// # Highlights
//
// Every Result carries the rune positions of its label that match the
// query, for the caller to render however it likes.
//
// # Thread Safety
//
// All Discovery methods are safe for concurrent use.
package discovery
