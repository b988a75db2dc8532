// Package registry provides a small MCP server: local tools with handlers,
// the JSON-RPC protocol handlers for them, and the picker tools that expose
// a discovery.Discovery to MCP clients.
//
// Features:
//   - Local tool registration with handlers
//   - Fuzzy tool search over names, namespaces, descriptions and tags
//   - MCP protocol handlers (initialize, tools/list, tools/call)
//   - Multiple transports (stdio, HTTP, SSE)
//   - navrank:search and navrank:resolve over a navigation tree
//
// Example usage:
//
//	disc, _ := discovery.New(discovery.Options{})
//	_ = disc.LoadFile("nav.jsonc")
//
//	reg := registry.New(registry.Config{
//	    ServerInfo: registry.ServerInfo{
//	        Name:    "navrank",
//	        Version: "1.0.0",
//	    },
//	    Logger: slog.Default(),
//	})
//	if err := registry.RegisterPickerTools(reg, disc); err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.ServeStdio(ctx, reg)
//
// Tools are listed under their namespaced ID (navrank:search). tools/call
// accepts that ID or, when it is unambiguous, the bare tool name.
package registry
