// Package tree models the user's hierarchy of categories and navigation
// targets and flattens it into the linear entry sequence the ranker reads.
//
// Tree files are authored as JSONC (JSON with comments and trailing commas)
// or YAML. Either a bare array of nodes or an object with an "items" array
// is accepted:
//
//	[
//	  // Work
//	  {"label": "Work", "children": [
//	    {"label": "Tracker", "type": "url", "target": "https://tracker.example"},
//	    {"label": "Build", "type": "shell", "target": "make build"},
//	  ]},
//	]
//
// [Flatten] yields entries in depth-first pre-order with sequential IDs and
// a [entry.Ref] back to the originating node. [Resolve] follows that ref
// back so a caller can dispatch the selected entry's action.
//
// Writing trees back to disk is not handled here.
package tree
