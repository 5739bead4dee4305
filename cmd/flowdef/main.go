package main

import (
	"context"
	"flag"
	"flowdef/internal/core/app"
	"flowdef/internal/core/config"
	"flowdef/internal/core/errors"
	"flowdef/internal/data/history"
	"flowdef/internal/shared/observability"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var (
	configPath   = flag.String("config", "", "Path to config file (defaults are used when empty)")
	outputPath   = flag.String("o", "", "Output libdef path, overrides output.path")
	rootModule   = flag.String("module", "", "Wrap top-level declarations in declare module '<name>'")
	watch        = flag.Bool("watch", false, "Reconvert whenever an input changes")
	strict       = flag.Bool("strict", false, "Fail when any warning is reported")
	historyLimit = flag.Int("history", 0, "Print a summary of the last N recorded runs and exit")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	version      = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "0.3.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("flowdef v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg))
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, err
		}
	}
	config.ApplyEnvOverrides(cfg)

	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}
	if *rootModule != "" {
		cfg.Output.RootModule = *rootModule
	}
	if *strict {
		cfg.Output.Strict = true
	}
	if *historyLimit > 0 {
		cfg.History.Enabled = true
	}
	return cfg, config.Validate(cfg)
}

func run(ctx context.Context, cfg *config.Config) int {
	shutdown, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		return 1
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			slog.Error("failed to open run history", "path", cfg.History.Path, "error", err)
			return 1
		}
		defer store.Close()
	}

	if *historyLimit > 0 {
		runs, err := store.LoadRuns(ctx, *historyLimit)
		if err != nil {
			slog.Error("failed to load run history", "error", err)
			return 1
		}
		fmt.Println(renderHistory(runs, history.Summarize(runs)))
		return 0
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: flowdef [flags] <file.d.ts|dir>...")
		return 2
	}

	var runs app.RunStore
	if store != nil {
		runs = store
	}
	conv := app.New(cfg, runs)

	code := 0
	if *watch {
		err = conv.Watch(ctx, inputs, func(res *app.Result, err error) {
			if err != nil {
				slog.Error("conversion failed", "code", errors.CodeOf(err), "error", err)
				return
			}
			fmt.Println(renderResult(res, cfg.Output.Path))
		})
		if err != nil {
			slog.Error("watch failed", "error", err)
			code = 1
		}
	} else {
		res, err := conv.Run(ctx, inputs)
		if err != nil {
			slog.Error("conversion failed", "code", errors.CodeOf(err), "error", err)
			code = 1
		} else {
			fmt.Println(renderResult(res, cfg.Output.Path))
		}
	}

	if store != nil {
		pruneHistory(ctx, store, cfg.History.Keep)
	}

	if cfg.Observability.MetricsFile != "" {
		if err := observability.WriteMetricsFile(cfg.Observability.MetricsFile); err != nil {
			slog.Warn("failed to write metrics file", "path", cfg.Observability.MetricsFile, "error", err)
		}
	}
	return code
}

// pruneHistory trims the run history even after ctx was cancelled by a
// signal, which is how watch mode ends.
func pruneHistory(ctx context.Context, store *history.Store, keep int) int64 {
	pruned, err := store.Prune(context.WithoutCancel(ctx), keep)
	if err != nil {
		slog.Warn("failed to prune run history", "error", err)
		return 0
	}
	if pruned > 0 {
		slog.Debug("pruned run history", "removed", pruned)
	}
	return pruned
}
