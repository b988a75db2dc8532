package search

import "errors"

// ErrClosed is returned by Search after Close.
var ErrClosed = errors.New("bm25 searcher closed")
