package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/navrank/discovery"
	"github.com/jonwraymond/navrank/entry"
	"github.com/jonwraymond/navrank/rank"
	"github.com/jonwraymond/navrank/search"
)

// EnvVar names the environment variable Load reads the config path from.
const EnvVar = "NAVRANK_CONFIG"

// ErrNoConfig is returned by Load when EnvVar is unset.
var ErrNoConfig = errors.New(EnvVar + " environment variable not set")

// Transport selects how the MCP server is exposed.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
	TransportSSE   Transport = "sse"
)

// Config is the navrank configuration file.
type Config struct {
	// Tree is the path of the JSON, JSONC or YAML navigation tree. A
	// relative path is taken relative to the config file.
	Tree string `yaml:"tree"`

	// Strategy is fuzzy, bm25 or hybrid.
	Strategy discovery.Strategy `yaml:"strategy"`

	// Fields are the entry fields the fuzzy scorer reads, in order.
	Fields []string `yaml:"fields"`

	// Weights multiplies per-field scores. Missing fields weigh 1.
	Weights map[string]float64 `yaml:"weights"`

	Threshold float64 `yaml:"threshold"`

	// MaxEditDistance bounds typo matching. Unset means
	// rank.DefaultMaxEditDistance; 0 or a negative value turns typo
	// matching off.
	MaxEditDistance *int `yaml:"maxEditDistance"`

	DisableCache bool `yaml:"disableCache"`

	// Limit caps CLI and MCP search results. Zero means no limit.
	Limit int `yaml:"limit"`

	// HybridAlpha is the BM25 weight of the hybrid strategy.
	HybridAlpha float64 `yaml:"hybridAlpha"`

	BM25   BM25Config   `yaml:"bm25"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// BM25Config holds the field boosts of the bm25 and hybrid strategies.
// Zero values fall back to the search package defaults.
type BM25Config struct {
	LabelBoost       float64 `yaml:"labelBoost"`
	CategoryBoost    float64 `yaml:"categoryBoost"`
	TagsBoost        float64 `yaml:"tagsBoost"`
	DescriptionBoost float64 `yaml:"descriptionBoost"`
	MaxDocs          int     `yaml:"maxDocs"`
	MaxDocTextLen    int     `yaml:"maxDocTextLen"`
}

// ServerConfig configures `navrank serve`.
type ServerConfig struct {
	// Transport is stdio, http or sse. Default: stdio.
	Transport Transport `yaml:"transport"`

	// Addr is the listen address for http and sse.
	// Default: 127.0.0.1:8765
	Addr string `yaml:"addr"`
}

// LogConfig configures the slog handler of the binary.
type LogConfig struct {
	// Level is debug, info, warn or error. Default: info.
	Level string `yaml:"level"`

	// Format is text or json. Default: text.
	Format string `yaml:"format"`
}

// Default returns the configuration used as a base before a file is read.
func Default() *Config {
	return &Config{
		Strategy:    discovery.StrategyFuzzy,
		Fields:      append([]string(nil), entry.DefaultFields...),
		Threshold:   0,
		Limit:       20,
		HybridAlpha: 0.5,
		Server: ServerConfig{
			Transport: TransportStdio,
			Addr:      "127.0.0.1:8765",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from the file named by NAVRANK_CONFIG. There is
// no discovery fallback; if the variable is unset Load returns ErrNoConfig.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return nil, ErrNoConfig
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path on top of Default. ${VAR} and
// ${VAR:-default} are expanded in the tree path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Tree != "" && !filepath.IsAbs(cfg.Tree) {
		cfg.Tree = filepath.Join(filepath.Dir(path), cfg.Tree)
	}
	return cfg, nil
}

// Parse decodes YAML configuration on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Tree = expandVars(cfg.Tree, map[string]string{"HOME": os.Getenv("HOME")})
	return cfg, nil
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks enumerated values. Ranking options are taken as given.
func (c *Config) Validate() error {
	var errs []error

	if !c.Strategy.Valid() {
		errs = append(errs, fmt.Errorf("invalid strategy: %q", c.Strategy))
	}
	if c.HybridAlpha < 0 || c.HybridAlpha > 1 {
		errs = append(errs, fmt.Errorf("hybridAlpha %v outside [0, 1]", c.HybridAlpha))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log.format: %q", c.Log.Format))
	}
	switch c.Server.Transport {
	case "", TransportStdio, TransportHTTP, TransportSSE:
	default:
		errs = append(errs, fmt.Errorf("invalid server.transport: %q", c.Server.Transport))
	}

	return errors.Join(errs...)
}

// RankOptions returns the fuzzy scorer options.
func (c *Config) RankOptions() rank.Options {
	return rank.Options{
		Threshold:       c.Threshold,
		Weights:         c.Weights,
		MaxEditDistance: c.MaxEditDistance,
		DisableCache:    c.DisableCache,
	}
}

// DiscoveryOptions returns the options for discovery.New.
func (c *Config) DiscoveryOptions() discovery.Options {
	return discovery.Options{
		Strategy: c.Strategy,
		Fields:   c.Fields,
		Rank:     c.RankOptions(),
		BM25Config: search.BM25Config{
			LabelBoost:       c.BM25.LabelBoost,
			CategoryBoost:    c.BM25.CategoryBoost,
			TagsBoost:        c.BM25.TagsBoost,
			DescriptionBoost: c.BM25.DescriptionBoost,
			MaxDocs:          c.BM25.MaxDocs,
			MaxDocTextLen:    c.BM25.MaxDocTextLen,
		},
		HybridAlpha: c.HybridAlpha,
	}
}

// SlogLevel returns the configured log level, or info if it is invalid.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger builds the slog logger described by c.Log, writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log.level: %q", s)
}
