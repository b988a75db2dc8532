package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/navrank/entry"
)

// Error values for tree operations.
var (
	ErrInvalidNode = errors.New("invalid node")
	ErrInvalidRef  = errors.New("ref does not resolve to a node")
)

// Node is one element of the user's hierarchy. A node with an empty Type
// is a category; anything else is an item that flattens to an Entry.
type Node struct {
	Label       string         `json:"label" yaml:"label"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Detail      string         `json:"detail,omitempty" yaml:"detail,omitempty"`
	Type        entry.Kind     `json:"type,omitempty" yaml:"type,omitempty"`
	Target      string         `json:"target,omitempty" yaml:"target,omitempty"`
	Tags        []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Children    []Node         `json:"children,omitempty" yaml:"children,omitempty"`
	Extra       map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// IsCategory reports whether n groups other nodes instead of naming a target.
func (n Node) IsCategory() bool {
	return n.Type == ""
}

// Flatten walks nodes depth-first in pre-order and returns one Entry per
// item. Categories contribute only to the Category breadcrumb of their
// descendants. Entry IDs are assigned sequentially from zero.
func Flatten(nodes []Node) []entry.Entry {
	out := make([]entry.Entry, 0, Count(nodes))
	var walk func(level []Node, path entry.Ref, crumbs []string)
	walk = func(level []Node, path entry.Ref, crumbs []string) {
		for i, n := range level {
			ref := append(path.Clone(), i)
			if !n.IsCategory() {
				out = append(out, toEntry(n, len(out), ref, crumbs))
			}
			if len(n.Children) > 0 {
				next := crumbs
				if n.IsCategory() {
					next = append(append([]string(nil), crumbs...), n.Label)
				}
				walk(n.Children, ref, next)
			}
		}
	}
	walk(nodes, nil, nil)
	return out
}

func toEntry(n Node, id int, ref entry.Ref, crumbs []string) entry.Entry {
	var tags []string
	if len(n.Tags) > 0 {
		tags = make([]string, len(n.Tags))
		copy(tags, n.Tags)
	}
	var extra map[string]any
	if len(n.Extra) > 0 {
		extra = make(map[string]any, len(n.Extra))
		for k, v := range n.Extra {
			extra[k] = v
		}
	}
	return entry.Entry{
		ID:          id,
		Label:       n.Label,
		Description: n.Description,
		Detail:      n.Detail,
		Target:      n.Target,
		Kind:        n.Type,
		Category:    strings.Join(crumbs, entry.CategorySeparator),
		Tags:        tags,
		Ref:         ref,
		Extra:       extra,
	}
}

// Count returns the number of items (non-category nodes) under nodes.
func Count(nodes []Node) int {
	n := 0
	for _, node := range nodes {
		if !node.IsCategory() {
			n++
		}
		n += Count(node.Children)
	}
	return n
}

// Resolve follows ref back to its node. The returned pointer aliases the
// caller's tree.
func Resolve(nodes []Node, ref entry.Ref) (*Node, error) {
	if len(ref) == 0 {
		return nil, fmt.Errorf("%w: empty ref", ErrInvalidRef)
	}
	level := nodes
	var node *Node
	for depth, idx := range ref {
		if idx < 0 || idx >= len(level) {
			return nil, fmt.Errorf("%w: %s (index %d at depth %d)", ErrInvalidRef, ref, idx, depth)
		}
		node = &level[idx]
		level = node.Children
	}
	return node, nil
}

// Validate checks that every node has a label and that items use a known
// kind. The first problem found is returned, wrapping ErrInvalidNode.
func Validate(nodes []Node) error {
	return validate(nodes, nil)
}

func validate(nodes []Node, path entry.Ref) error {
	for i, n := range nodes {
		ref := append(path.Clone(), i)
		if strings.TrimSpace(n.Label) == "" {
			return fmt.Errorf("%w at %s: label is required", ErrInvalidNode, ref)
		}
		if !n.IsCategory() && !n.Type.Valid() {
			return fmt.Errorf("%w at %s: unknown type %q", ErrInvalidNode, ref, n.Type)
		}
		if err := validate(n.Children, ref); err != nil {
			return err
		}
	}
	return nil
}
