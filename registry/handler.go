package registry

import (
	"context"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolHandler executes a tool with the arguments of a tools/call request.
// The returned value becomes the JSON-RPC result. Wrap ErrInvalidRequest
// to report bad arguments as invalid params.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// LocalToolOption configures tool registration.
type LocalToolOption func(*localToolConfig)

type localToolConfig struct {
	namespace string
	title     string
	tags      []string
	version   string
	readOnly  bool
}

// WithNamespace sets the tool namespace. The tool is then listed and
// called as "namespace:name".
func WithNamespace(ns string) LocalToolOption {
	return func(c *localToolConfig) {
		c.namespace = ns
	}
}

// WithTitle sets the human readable title shown by MCP clients.
func WithTitle(title string) LocalToolOption {
	return func(c *localToolConfig) {
		c.title = title
	}
}

// WithTags sets the tool tags. Tags are normalized and searchable.
func WithTags(tags ...string) LocalToolOption {
	return func(c *localToolConfig) {
		c.tags = tags
	}
}

// WithVersion sets the tool version.
func WithVersion(v string) LocalToolOption {
	return func(c *localToolConfig) {
		c.version = v
	}
}

// WithReadOnly marks the tool as free of side effects.
func WithReadOnly() LocalToolOption {
	return func(c *localToolConfig) {
		c.readOnly = true
	}
}

func applyLocalToolOptions(opts []LocalToolOption) localToolConfig {
	cfg := localToolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func buildLocalTool(name, description string, inputSchema map[string]any, cfg localToolConfig) model.Tool {
	tool := model.Tool{
		Tool: mcp.Tool{
			Name:        name,
			Title:       cfg.title,
			Description: description,
			InputSchema: inputSchema,
		},
		Namespace: cfg.namespace,
		Version:   cfg.version,
		Tags:      model.NormalizeTags(cfg.tags),
	}
	if cfg.readOnly {
		tool.Annotations = &mcp.ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true}
	}
	return tool
}
