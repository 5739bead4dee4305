package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: FLOWDEF_[SECTION]_[KEY] (e.g., FLOWDEF_OUTPUT_PATH).
func ApplyEnvOverrides(cfg *Config) {
	// Output
	setEnvString(&cfg.Output.Path, "FLOWDEF_OUTPUT_PATH")
	setEnvString(&cfg.Output.RootModule, "FLOWDEF_OUTPUT_ROOT_MODULE")
	setEnvInt(&cfg.Output.MaxWidth, "FLOWDEF_OUTPUT_MAX_WIDTH")
	setEnvBool(&cfg.Output.Strict, "FLOWDEF_OUTPUT_STRICT")

	// Parse
	setEnvInt(&cfg.Parse.Workers, "FLOWDEF_PARSE_WORKERS")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "FLOWDEF_WATCH_DEBOUNCE")

	// History
	setEnvBool(&cfg.History.Enabled, "FLOWDEF_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "FLOWDEF_HISTORY_PATH")

	// Observability
	setEnvString(&cfg.Observability.MetricsFile, "FLOWDEF_OBSERVABILITY_METRICS_FILE")
	setEnvString(&cfg.Observability.OTLPEndpoint, "FLOWDEF_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
