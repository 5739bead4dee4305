package config

import (
	"runtime"
	"time"
)

type Config struct {
	Version       int           `toml:"version"`
	Output        Output        `toml:"output"`
	Input         Input         `toml:"input"`
	Parse         Parse         `toml:"parse"`
	Watch         Watch         `toml:"watch"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Output struct {
	Path string `toml:"path"`
	// RootModule wraps file-level declarations in `declare module` instead
	// of emitting them at the top level.
	RootModule string `toml:"root_module"`
	Indent     string `toml:"indent"`
	MaxWidth   int    `toml:"max_width"`
	// Strict fails the run on any warning-level diagnostic.
	Strict bool `toml:"strict"`
}

type Input struct {
	Include      []string `toml:"include"`
	Exclude      []string `toml:"exclude"`
	MaxFileBytes int64    `toml:"max_file_bytes"`
}

type Parse struct {
	Workers int `toml:"workers"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	// Keep bounds the number of stored runs; older runs are pruned.
	Keep int `toml:"keep"`
}

type Observability struct {
	MetricsFile  string `toml:"metrics_file"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

const (
	DefaultOutputPath   = "export.flow.js"
	DefaultIndent       = "\t"
	DefaultMaxWidth     = 80
	DefaultMaxFileBytes = 8 << 20
	DefaultDebounce     = 300 * time.Millisecond
	DefaultHistoryPath  = ".flowdef/history.db"
	DefaultHistoryKeep  = 200
	DefaultServiceName  = "flowdef"
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if cfg.Output.Path == "" {
		cfg.Output.Path = DefaultOutputPath
	}
	if cfg.Output.Indent == "" {
		cfg.Output.Indent = DefaultIndent
	}
	if cfg.Output.MaxWidth == 0 {
		cfg.Output.MaxWidth = DefaultMaxWidth
	}

	if len(cfg.Input.Include) == 0 {
		cfg.Input.Include = []string{"*.d.ts"}
	}
	if cfg.Input.Exclude == nil {
		cfg.Input.Exclude = []string{"node_modules", ".git"}
	}
	if cfg.Input.MaxFileBytes == 0 {
		cfg.Input.MaxFileBytes = DefaultMaxFileBytes
	}

	if cfg.Parse.Workers == 0 {
		cfg.Parse.Workers = runtime.NumCPU()
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}

	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.Keep == 0 {
		cfg.History.Keep = DefaultHistoryKeep
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = DefaultServiceName
	}
}
