package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// document is the object form of a tree file. A bare top-level array of
// nodes is accepted as well.
type document struct {
	Items []Node `json:"items" yaml:"items"`
}

// Parse decodes a JSONC tree: JSON extended with // and /* */ comments and
// trailing commas.
func Parse(data []byte) ([]Node, error) {
	stripped := bytes.TrimSpace(jsonc.ToJSON(data))
	if len(stripped) == 0 {
		return nil, nil
	}

	if stripped[0] == '[' {
		var nodes []Node
		if err := json.Unmarshal(stripped, &nodes); err != nil {
			return nil, fmt.Errorf("parsing tree: %w", err)
		}
		return nodes, nil
	}

	var doc document
	if err := json.Unmarshal(stripped, &doc); err != nil {
		return nil, fmt.Errorf("parsing tree: %w", err)
	}
	return doc.Items, nil
}

// ParseYAML decodes a YAML tree with the same shape as Parse.
func ParseYAML(data []byte) ([]Node, error) {
	var raw yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing tree: %w", err)
	}
	if len(raw.Content) == 0 {
		return nil, nil
	}

	root := raw.Content[0]
	if root.Kind == yaml.SequenceNode {
		var nodes []Node
		if err := root.Decode(&nodes); err != nil {
			return nil, fmt.Errorf("parsing tree: %w", err)
		}
		return nodes, nil
	}

	var doc document
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing tree: %w", err)
	}
	return doc.Items, nil
}

// ReadFile reads and validates a tree file. Files ending in .yaml or .yml
// are decoded as YAML; everything else as JSONC.
func ReadFile(path string) ([]Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var nodes []Node
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		nodes, err = ParseYAML(data)
	default:
		nodes, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := Validate(nodes); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nodes, nil
}
