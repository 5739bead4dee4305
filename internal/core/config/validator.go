package config

import (
	"flowdef/internal/core/errors"
	"flowdef/internal/shared/util"
	"strings"
)

// Validate checks a fully defaulted config.
func Validate(cfg *Config) error {
	for _, check := range []func(*Config) error{
		validateVersion,
		validateOutput,
		validateInput,
		validateParse,
		validateWatch,
		validateHistory,
	} {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return errors.Newf(errors.CodeValidationError, "unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if strings.TrimSpace(cfg.Output.Path) == "" {
		return errors.New(errors.CodeValidationError, "output.path must not be empty")
	}
	if strings.Trim(cfg.Output.Indent, " \t") != "" {
		return errors.Newf(errors.CodeValidationError, "output.indent must contain only spaces or tabs, got %q", cfg.Output.Indent)
	}
	if cfg.Output.MaxWidth < 20 {
		return errors.Newf(errors.CodeValidationError, "output.max_width must be >= 20, got %d", cfg.Output.MaxWidth)
	}
	if strings.ContainsAny(cfg.Output.RootModule, "'\n") {
		return errors.Newf(errors.CodeValidationError, "output.root_module %q is not a valid module name", cfg.Output.RootModule)
	}
	return nil
}

func validateInput(cfg *Config) error {
	if _, err := util.CompileGlobs(cfg.Input.Include); err != nil {
		return errors.Wrap(err, errors.CodeValidationError, "input.include")
	}
	if _, err := util.CompileGlobs(cfg.Input.Exclude); err != nil {
		return errors.Wrap(err, errors.CodeValidationError, "input.exclude")
	}
	if cfg.Input.MaxFileBytes < 0 {
		return errors.Newf(errors.CodeValidationError, "input.max_file_bytes must be >= 0, got %d", cfg.Input.MaxFileBytes)
	}
	return nil
}

func validateParse(cfg *Config) error {
	if cfg.Parse.Workers < 1 {
		return errors.Newf(errors.CodeValidationError, "parse.workers must be >= 1, got %d", cfg.Parse.Workers)
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return errors.Newf(errors.CodeValidationError, "watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if !cfg.History.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		return errors.New(errors.CodeValidationError, "history.path must not be empty when history.enabled=true")
	}
	if cfg.History.Keep < 0 {
		return errors.Newf(errors.CodeValidationError, "history.keep must be >= 0, got %d", cfg.History.Keep)
	}
	return nil
}
