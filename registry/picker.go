package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jonwraymond/navrank/discovery"
	"github.com/jonwraymond/navrank/entry"
	"github.com/jonwraymond/navrank/tree"
)

// PickerNamespace is the namespace of the tools RegisterPickerTools adds.
const PickerNamespace = "navrank"

// DefaultSearchLimit is used when navrank:search is called without a limit.
const DefaultSearchLimit = 20

// SearchOutput is the result of navrank:search.
type SearchOutput struct {
	Query   string            `json:"query"`
	Results discovery.Results `json:"results"`
	Count   int               `json:"count"`
}

// ResolveOutput is the result of navrank:resolve.
type ResolveOutput struct {
	Entry entry.Entry `json:"entry"`
	Node  *tree.Node  `json:"node"`
}

// RegisterPickerTools exposes disc as two MCP tools: navrank:search and
// navrank:resolve.
func RegisterPickerTools(reg *Registry, disc *discovery.Discovery) error {
	kinds := make([]string, len(entry.Kinds))
	for i, k := range entry.Kinds {
		kinds[i] = string(k)
	}

	err := reg.RegisterLocalFunc(
		"search",
		"Fuzzy-search the navigation tree. Returns matching entries best first.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "Search text; empty lists everything"},
				"limit": map[string]any{"type": "integer", "minimum": 1, "description": "Maximum results"},
				"kind":  map[string]any{"type": "string", "enum": kinds, "description": "Only return entries of this kind"},
			},
		},
		searchHandler(disc),
		WithNamespace(PickerNamespace),
		WithTitle("Search navigation targets"),
		WithTags("search", "navigation"),
		WithReadOnly(),
	)
	if err != nil {
		return err
	}

	return reg.RegisterLocalFunc(
		"resolve",
		"Resolve an entry ref (for example 0.2.1) to its tree node.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ref": map[string]any{"type": "string", "description": "Dot-separated child indices"},
			},
			"required": []string{"ref"},
		},
		resolveHandler(disc),
		WithNamespace(PickerNamespace),
		WithTitle("Resolve navigation target"),
		WithTags("navigation"),
		WithReadOnly(),
	)
}

func searchHandler(disc *discovery.Discovery) ToolHandler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		query, err := stringArg(args, "query")
		if err != nil {
			return nil, err
		}
		limit, err := intArg(args, "limit", DefaultSearchLimit)
		if err != nil {
			return nil, err
		}
		kind, err := stringArg(args, "kind")
		if err != nil {
			return nil, err
		}
		if kind != "" && !entry.Kind(kind).Valid() {
			return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, kind)
		}

		// A kind filter runs after ranking, so rank everything first.
		searchLimit := limit
		if kind != "" {
			searchLimit = 0
		}
		results, err := disc.Search(ctx, query, searchLimit)
		if err != nil {
			return nil, err
		}
		if kind != "" {
			results = results.FilterByKind(entry.Kind(kind))
			if len(results) > limit {
				results = results[:limit]
			}
		}
		if results == nil {
			results = discovery.Results{}
		}
		return SearchOutput{Query: query, Results: results, Count: len(results)}, nil
	}
}

func resolveHandler(disc *discovery.Discovery) ToolHandler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		raw, err := stringArg(args, "ref")
		if err != nil {
			return nil, err
		}
		ref, err := entry.ParseRef(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		e, node, err := disc.ResolveRef(ref)
		if err != nil {
			return nil, err
		}
		return ResolveOutput{Entry: e, Node: node}, nil
	}
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidRequest, key)
	}
	return strings.TrimSpace(s), nil
}

func intArg(args map[string]any, key string, def int) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	var n int
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidRequest, key)
		}
		n = int(x)
	case int:
		n = x
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidRequest, key)
		}
		n = int(i)
	default:
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidRequest, key)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %s must be at least 1", ErrInvalidRequest, key)
	}
	return n, nil
}
