package config

import (
	"flowdef/internal/core/errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Load reads a TOML config file, fills defaults and validates it. Relative
// output and history paths resolve against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "read config"), errors.CtxPath, path)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.AddContext(errors.Newf(errors.CodeValidationError, "unknown config key %q", undecoded[0].String()), errors.CtxPath, path)
	}

	applyDefaults(&cfg)

	base := filepath.Dir(path)
	cfg.Output.Path = ResolveRelative(base, cfg.Output.Path)
	cfg.History.Path = ResolveRelative(base, cfg.History.Path)
	if cfg.Observability.MetricsFile != "" {
		cfg.Observability.MetricsFile = ResolveRelative(base, cfg.Observability.MetricsFile)
	}

	if err := Validate(&cfg); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return &cfg, nil
}
