// navrank ranks a navigation tree against a fuzzy query.
//
// Usage:
//
//	navrank [flags] <query...>
//	navrank serve [flags]
//	navrank version
//
// Configuration is read from --config or NAVRANK_CONFIG; flags override
// the values in the file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/jonwraymond/navrank/config"
	"github.com/jonwraymond/navrank/discovery"
	"github.com/jonwraymond/navrank/entry"
	"github.com/jonwraymond/navrank/index"
	"github.com/jonwraymond/navrank/rank"
	"github.com/jonwraymond/navrank/registry"
)

const version = "0.1.0"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "serve":
			return serveCmd(args[1:], stderr)
		case "version", "--version":
			fmt.Fprintf(stdout, "navrank %s\n", version)
			return nil
		}
	}
	return queryCmd(args, stdout, stderr)
}

// commonFlags are shared by the query and serve commands.
type commonFlags struct {
	configPath string
	treePath   string
	strategy   string
	threshold  float64
	logLevel   string
	logFormat  string
}

func (f *commonFlags) add(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configPath, "config", "c", "", "config file (default: $NAVRANK_CONFIG)")
	fs.StringVarP(&f.treePath, "tree", "t", "", "navigation tree file (JSON, JSONC or YAML)")
	fs.StringVarP(&f.strategy, "strategy", "s", "", "ranking strategy: fuzzy, bm25 or hybrid")
	fs.Float64Var(&f.threshold, "threshold", 0, "minimum fuzzy score")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text or json")
	fs.BoolP("help", "h", false, "show help")
}

// load reads the config file, applies flag overrides and validates.
func (f *commonFlags) load(fs *pflag.FlagSet) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load()
		if errors.Is(err, config.ErrNoConfig) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if fs.Changed("tree") {
		cfg.Tree = f.treePath
	}
	if fs.Changed("strategy") {
		cfg.Strategy = discovery.Strategy(f.strategy)
	}
	if fs.Changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Tree == "" {
		return nil, errors.New("no tree configured; set tree in the config file or pass --tree")
	}
	return cfg, nil
}

// parseFlags parses args and reports whether help was requested.
func parseFlags(fs *pflag.FlagSet, args []string, usage string, stderr io.Writer) (bool, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(fs, usage, stderr)
			return true, nil
		}
		return false, err
	}
	if help, _ := fs.GetBool("help"); help {
		printHelp(fs, usage, stderr)
		return true, nil
	}
	return false, nil
}

func printHelp(fs *pflag.FlagSet, usage string, w io.Writer) {
	fmt.Fprintf(w, "%s\nFlags:\n", usage)
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// openDiscovery builds the facade described by cfg and loads its tree.
func openDiscovery(cfg *config.Config, logger *slog.Logger) (*discovery.Discovery, error) {
	disc, err := discovery.New(cfg.DiscoveryOptions())
	if err != nil {
		return nil, err
	}
	start := time.Now()
	if err := disc.LoadFile(cfg.Tree); err != nil {
		disc.Close()
		return nil, err
	}
	logger.Debug("loaded tree",
		"tree", cfg.Tree,
		"entries", disc.Len(),
		"strategy", disc.Strategy(),
		"duration", time.Since(start),
	)
	return disc, nil
}

// ============================================================
// query
// ============================================================

const queryUsage = `Rank the navigation tree against a query.

Usage:
  navrank [flags] <query...>

An empty query lists every entry in tree order.
`

func queryCmd(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	var limit int
	var kind, category string
	var explain, asJSON bool

	fs := pflag.NewFlagSet("navrank", pflag.ContinueOnError)
	common.add(fs)
	fs.IntVarP(&limit, "limit", "n", 0, "maximum results (default from config)")
	fs.StringVarP(&kind, "kind", "k", "", "only show entries of this kind")
	fs.StringVar(&category, "category", "", "only show entries under this category")
	fs.BoolVarP(&explain, "explain", "e", false, "show per-term scoring")
	fs.BoolVar(&asJSON, "json", false, "write results as JSON")

	if help, err := parseFlags(fs, args, queryUsage, stderr); help || err != nil {
		return err
	}

	cfg, err := common.load(fs)
	if err != nil {
		return err
	}
	if fs.Changed("limit") {
		cfg.Limit = limit
	}
	if kind != "" && !entry.Kind(kind).Valid() {
		return fmt.Errorf("unknown kind %q", kind)
	}

	logger := cfg.NewLogger(stderr)
	disc, err := openDiscovery(cfg, logger)
	if err != nil {
		return err
	}
	defer disc.Close()

	query := strings.Join(fs.Args(), " ")
	results, err := disc.Search(context.Background(), query, 0)
	if err != nil {
		return err
	}
	if kind != "" {
		results = results.FilterByKind(entry.Kind(kind))
	}
	if category != "" {
		results = results.FilterByCategory(category)
	}
	if cfg.Limit > 0 && len(results) > cfg.Limit {
		results = results[:cfg.Limit]
	}
	logger.Debug("search", "query", query, "results", len(results))

	var explanations []rank.Explanation
	if explain {
		explanations = make([]rank.Explanation, len(results))
		for i, r := range results {
			if explanations[i], err = disc.Explain(query, r.Entry.ID); err != nil {
				return err
			}
		}
	}

	if asJSON {
		return writeJSON(stdout, results, explanations)
	}
	writeText(stdout, results, explanations)
	return nil
}

type jsonResult struct {
	discovery.Result
	Explanation *rank.Explanation `json:"explanation,omitempty"`
}

func writeJSON(w io.Writer, results discovery.Results, explanations []rank.Explanation) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i].Result = r
		if explanations != nil {
			out[i].Explanation = &explanations[i]
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, results discovery.Results, explanations []rank.Explanation) {
	for i, r := range results {
		line := fmt.Sprintf("%.3f  %-8s  %s", r.Score, r.Entry.Kind, r.Entry.Label)
		if r.Entry.Category != "" {
			line += "  (" + r.Entry.Category + ")"
		}
		if r.Entry.Target != "" {
			line += "  -> " + r.Entry.Target
		}
		fmt.Fprintln(w, line)
		if explanations != nil {
			for _, l := range strings.Split(explanations[i].String(), "\n") {
				fmt.Fprintf(w, "    %s\n", l)
			}
		}
	}
}

// ============================================================
// serve
// ============================================================

const serveUsage = `Serve the navigation tree as MCP tools (navrank:search, navrank:resolve).

Usage:
  navrank serve [flags]

SIGHUP reloads the tree file.
`

func serveCmd(args []string, stderr io.Writer) error {
	var common commonFlags
	var transport, addr string

	fs := pflag.NewFlagSet("navrank serve", pflag.ContinueOnError)
	common.add(fs)
	fs.StringVar(&transport, "transport", "", "stdio, http or sse (default from config)")
	fs.StringVar(&addr, "addr", "", "listen address for http and sse")

	if help, err := parseFlags(fs, args, serveUsage, stderr); help || err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	cfg, err := common.load(fs)
	if err != nil {
		return err
	}
	if fs.Changed("transport") {
		cfg.Server.Transport = config.Transport(transport)
	}
	if fs.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.NewLogger(stderr)
	disc, err := openDiscovery(cfg, logger)
	if err != nil {
		return err
	}
	defer disc.Close()

	unsubscribe := disc.OnChange(func(ev index.ChangeEvent) {
		logger.Info("tree changed", "type", ev.Type, "version", ev.Version, "entries", ev.Count)
	})
	defer unsubscribe()

	reg := registry.New(registry.Config{
		ServerInfo: registry.ServerInfo{Name: "navrank", Version: version},
		Logger:     logger,
	})
	if err := registry.RegisterPickerTools(reg, disc); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go reloadOnHangup(ctx, disc, cfg.Tree, logger)

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		return listen(ctx, cfg.Server.Addr, registry.ServeHTTP(reg), logger)
	case config.TransportSSE:
		return listen(ctx, cfg.Server.Addr, registry.ServeSSE(reg), logger)
	default:
		logger.Info("serving", "transport", "stdio", "entries", disc.Len())
		return registry.ServeStdio(ctx, reg)
	}
}

func reloadOnHangup(ctx context.Context, disc *discovery.Discovery, path string, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := disc.LoadFile(path); err != nil {
				logger.Error("reloading tree", "tree", path, "error", err)
			}
		}
	}
}

func listen(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
