package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jonwraymond/toolfoundation/model"

	"github.com/jonwraymond/navrank/rank"
)

// Config configures a Registry.
type Config struct {
	ServerInfo ServerInfo

	// Logger receives request logs at debug level. Nil discards them.
	Logger *slog.Logger
}

// ServerInfo describes this MCP server for initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// Registry is a small MCP tool registry: local tools with handlers, fuzzy
// tool search, and the protocol handlers that expose them.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]model.Tool
	handlers map[string]ToolHandler
	config   Config
	logger   *slog.Logger

	calls  atomic.Uint64
	failed atomic.Uint64
}

// New creates a new Registry with the given config.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		tools:    make(map[string]model.Tool),
		handlers: make(map[string]ToolHandler),
		config:   cfg,
		logger:   logger,
	}
}

// RegisterLocal registers a tool with a local execution handler.
// Registering the same tool ID again replaces the previous handler.
func (r *Registry) RegisterLocal(tool model.Tool, handler ToolHandler) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTool, err)
	}
	if handler == nil {
		return fmt.Errorf("%w: nil handler for %s", ErrInvalidTool, tool.ToolID())
	}

	r.mu.Lock()
	r.tools[tool.ToolID()] = tool
	r.handlers[tool.ToolID()] = handler
	r.mu.Unlock()

	return nil
}

// RegisterLocalFunc is a convenience for inline tool definition.
func (r *Registry) RegisterLocalFunc(
	name, description string,
	inputSchema map[string]any,
	handler ToolHandler,
	opts ...LocalToolOption,
) error {
	cfg := applyLocalToolOptions(opts)
	tool := buildLocalTool(name, description, inputSchema, cfg)
	return r.RegisterLocal(tool, handler)
}

// toolField exposes model.Tool fields to the fuzzy ranker.
func toolField(t model.Tool, name string) (string, bool) {
	switch name {
	case "name":
		return t.Name, true
	case "namespace":
		return t.Namespace, t.Namespace != ""
	case "description":
		return t.Description, t.Description != ""
	case "tags":
		return strings.Join(t.Tags, " "), len(t.Tags) > 0
	}
	return "", false
}

var toolSearchFields = []string{"name", "namespace", "description", "tags"}

// Search ranks registered tools against query with the fuzzy ranker. An
// empty query lists every tool in ID order. limit <= 0 means no limit.
func (r *Registry) Search(ctx context.Context, query string, limit int) ([]model.Tool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := r.sortedTools()
	ranked := rank.Rank(all, query, toolSearchFields, toolField, rank.Options{Threshold: 0.1})

	tools := make([]model.Tool, 0, len(ranked))
	for _, res := range ranked {
		tools = append(tools, res.Entry)
		if limit > 0 && len(tools) == limit {
			break
		}
	}
	return tools, nil
}

// ListAll returns all registered tools ordered by tool ID.
func (r *Registry) ListAll(ctx context.Context) ([]model.Tool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.sortedTools(), nil
}

// ListNamespaces returns the distinct non-empty tool namespaces, sorted.
func (r *Registry) ListNamespaces(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for _, t := range r.tools {
		if t.Namespace == "" {
			continue
		}
		if _, ok := seen[t.Namespace]; !ok {
			seen[t.Namespace] = struct{}{}
			out = append(out, t.Namespace)
		}
	}
	sort.Strings(out)
	return out, nil
}

// GetTool returns a tool by ID, or by bare name when that name is unique.
func (r *Registry) GetTool(ctx context.Context, id string) (model.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	toolID, err := r.lookupLocked(id)
	if err != nil {
		return model.Tool{}, err
	}
	return r.tools[toolID], nil
}

// Execute runs a tool by ID (or unique bare name) with the given arguments.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	toolID, err := r.lookupLocked(name)
	var handler ToolHandler
	if err == nil {
		handler = r.handlers[toolID]
	}
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, toolID)
	}

	r.calls.Add(1)
	if args == nil {
		args = map[string]any{}
	}
	result, err := handler(ctx, args)
	if err != nil {
		r.failed.Add(1)
		return nil, err
	}
	return result, nil
}

func (r *Registry) lookupLocked(name string) (string, error) {
	if _, ok := r.tools[name]; ok {
		return name, nil
	}
	var match string
	for id, t := range r.tools {
		if t.Name != name {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%w: %s is ambiguous, use a namespaced ID", ErrToolNotFound, name)
		}
		match = id
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return match, nil
}

func (r *Registry) sortedTools() []model.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	tools := make([]model.Tool, len(ids))
	for i, id := range ids {
		tools[i] = r.tools[id]
	}
	return tools
}

// RegistryStats returns registry statistics.
type RegistryStats struct {
	TotalTools  int
	Namespaces  int
	Calls       uint64
	FailedCalls uint64
}

// Stats returns registry statistics.
func (r *Registry) Stats() RegistryStats {
	namespaces, _ := r.ListNamespaces(context.Background())

	r.mu.RLock()
	total := len(r.tools)
	r.mu.RUnlock()

	return RegistryStats{
		TotalTools:  total,
		Namespaces:  len(namespaces),
		Calls:       r.calls.Load(),
		FailedCalls: r.failed.Load(),
	}
}
