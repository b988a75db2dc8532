package entry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the action family of a navigation target.
type Kind string

const (
	KindFile     Kind = "file"
	KindURL      Kind = "url"
	KindCommand  Kind = "command"
	KindShell    Kind = "shell"
	KindSnippet  Kind = "snippet"
	KindMarkdown Kind = "markdown"
)

// Kinds lists every known kind in display order.
var Kinds = []Kind{KindFile, KindURL, KindCommand, KindShell, KindSnippet, KindMarkdown}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Built-in field names understood by Entry.Field.
const (
	FieldLabel       = "label"
	FieldDescription = "description"
	FieldDetail      = "detail"
	FieldTarget      = "target"
	FieldKind        = "kind"
	FieldCategory    = "category"
	FieldTags        = "tags"
)

// DefaultFields are the fields searched when a caller does not name any.
var DefaultFields = []string{FieldLabel, FieldDescription, FieldCategory, FieldTags}

// ErrInvalidRef is returned when a Ref string cannot be parsed.
var ErrInvalidRef = errors.New("invalid ref")

// Ref is the child-index path from the tree roots down to a node.
// Ref{1, 0} is the first child of the second root node.
type Ref []int

// String renders the ref as dot-separated indices ("1.0").
func (r Ref) String() string {
	parts := make([]string, len(r))
	for i, idx := range r {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// Clone returns an independent copy of r.
func (r Ref) Clone() Ref {
	if r == nil {
		return nil
	}
	out := make(Ref, len(r))
	copy(out, r)
	return out
}

// ParseRef parses the output of Ref.String.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidRef)
	}
	parts := strings.Split(s, ".")
	ref := make(Ref, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRef, s)
		}
		ref[i] = n
	}
	return ref, nil
}

// Fielder is implemented by records that expose named string fields.
type Fielder interface {
	// Field returns the value of the named field. ok is false when the
	// field is absent or does not hold a string.
	Field(name string) (value string, ok bool)
}

// FieldFunc reads a named string field from a record of type T.
// It lets callers rank their own types without implementing Fielder.
type FieldFunc[T any] func(item T, name string) (value string, ok bool)

// FielderFunc adapts any Fielder type to a FieldFunc.
func FielderFunc[T Fielder]() FieldFunc[T] {
	return func(item T, name string) (string, bool) {
		return item.Field(name)
	}
}

// Entry is one flattened navigation target.
type Entry struct {
	// ID is the entry's position in the flattened sequence it came from.
	ID int `json:"id"`

	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Detail      string `json:"detail,omitempty"`

	// Target is the path, URL, command ID, shell line, snippet body, or
	// markdown file the entry acts on.
	Target string `json:"target,omitempty"`
	Kind   Kind   `json:"kind"`

	// Category is the breadcrumb of ancestor category labels.
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	Ref   Ref            `json:"ref"`
	Extra map[string]any `json:"extra,omitempty"`
}

// Field implements Fielder.
func (e Entry) Field(name string) (string, bool) {
	switch name {
	case FieldLabel:
		return e.Label, true
	case FieldDescription:
		return e.Description, e.Description != ""
	case FieldDetail:
		return e.Detail, e.Detail != ""
	case FieldTarget:
		return e.Target, e.Target != ""
	case FieldKind:
		return string(e.Kind), e.Kind != ""
	case FieldCategory:
		return e.Category, e.Category != ""
	case FieldTags:
		if len(e.Tags) == 0 {
			return "", false
		}
		return strings.Join(e.Tags, " "), true
	}
	if e.Extra == nil {
		return "", false
	}
	s, ok := e.Extra[name].(string)
	return s, ok
}

// CategorySeparator joins ancestor labels in Entry.Category.
const CategorySeparator = " / "
