// Package app runs conversions: parse, collect, resolve, print.
package app

import (
	"context"
	"flowdef/internal/core/config"
	"flowdef/internal/core/errors"
	"flowdef/internal/data/history"
	"flowdef/internal/engine/collector"
	"flowdef/internal/engine/diag"
	"flowdef/internal/engine/ir"
	"flowdef/internal/engine/printer"
	"flowdef/internal/engine/resolver"
	"flowdef/internal/engine/syntax"
	"flowdef/internal/engine/tsparse"
	"flowdef/internal/shared/observability"
	"flowdef/internal/shared/util"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// RunStore records finished runs. *history.Store satisfies it.
type RunStore interface {
	SaveRun(ctx context.Context, run history.Run) error
}

type Stats struct {
	Inputs       int
	Modules      int
	Declarations map[string]int
	Imports      int
	Warnings     int
	Infos        int
	Duration     time.Duration
}

// TotalDeclarations sums emitted declarations. Variables only take part in
// resolution and are left out.
func (s Stats) TotalDeclarations() int {
	total := 0
	for bucket, n := range s.Declarations {
		if bucket == ir.BucketVariables.String() {
			continue
		}
		total += n
	}
	return total
}

type Result struct {
	RunID       uuid.UUID
	Output      string
	Diagnostics []diag.Diagnostic
	Stats       Stats
}

type Converter struct {
	cfg    *config.Config
	parser *tsparse.Parser
	runs   RunStore

	// mu serializes runs so watch-mode reruns never overlap.
	mu sync.Mutex
}

// New builds a converter. runs may be nil to skip run history.
func New(cfg *config.Config, runs RunStore) *Converter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Converter{
		cfg:    cfg,
		parser: tsparse.NewParser(cfg.Input.MaxFileBytes),
		runs:   runs,
	}
}

func (c *Converter) Config() *config.Config {
	return c.cfg
}

// Convert turns the declaration files at paths into one libdef. Files are
// parsed concurrently and collected in the order given. Nothing is written.
func (c *Converter) Convert(ctx context.Context, paths []string) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	res := &Result{RunID: uuid.New()}
	res.Stats.Inputs = len(paths)

	ctx, span := observability.Tracer.Start(ctx, "Converter.Convert", trace.WithAttributes(
		attribute.String("run_id", res.RunID.String()),
		attribute.Int("inputs", len(paths)),
	))
	defer span.End()

	log := slog.With("run_id", res.RunID.String())
	log.Debug("conversion started", "inputs", len(paths))

	err := c.convert(ctx, paths, res)
	res.Stats.Duration = time.Since(start)

	outcome := history.OutcomeOK
	if err != nil {
		outcome = history.OutcomeFailed
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debug("conversion failed", "error", err)
	}
	observability.ConversionsTotal.WithLabelValues(outcome).Inc()
	c.record(ctx, res, outcome, err)

	if err != nil {
		return nil, err
	}
	observability.ModulesEmitted.Set(float64(res.Stats.Modules))
	log.Info("conversion finished",
		"modules", res.Stats.Modules,
		"declarations", res.Stats.TotalDeclarations(),
		"warnings", res.Stats.Warnings,
		"duration", res.Stats.Duration)
	return res, nil
}

func (c *Converter) convert(ctx context.Context, paths []string, res *Result) error {
	if len(paths) == 0 {
		return errors.New(errors.CodeValidationError, "no input files")
	}

	var roots []*syntax.Node
	if err := stage(ctx, "parse", func(ctx context.Context) error {
		var err error
		roots, err = c.parseAll(ctx, paths)
		return err
	}); err != nil {
		return err
	}

	tree := ir.NewTree()
	if err := stage(ctx, "collect", func(ctx context.Context) error {
		col := collector.New(tree)
		for _, root := range roots {
			if err := col.Walk(root, ir.RootContext); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := stage(ctx, "resolve", func(ctx context.Context) error {
		diags, err := resolver.New(tree).Resolve()
		res.Diagnostics = append(res.Diagnostics, diags...)
		return err
	}); err != nil {
		return err
	}

	var modules []ir.Module
	if err := stage(ctx, "materialize", func(ctx context.Context) error {
		var err error
		modules, err = tree.Materialize()
		return err
	}); err != nil {
		return err
	}

	imports := tree.Imports.Normalize()
	_ = stage(ctx, "print", func(ctx context.Context) error {
		p := printer.New(printer.Options{
			Indent:     c.cfg.Output.Indent,
			MaxWidth:   c.cfg.Output.MaxWidth,
			RootModule: c.cfg.Output.RootModule,
		})
		var diags []diag.Diagnostic
		res.Output, diags = p.Render(imports, modules)
		res.Diagnostics = append(res.Diagnostics, diags...)
		return nil
	})

	res.Stats.Declarations = tree.Stats()
	res.Stats.Imports = len(imports)
	for _, m := range modules {
		if m.Context != ir.ScratchContext && !m.Empty() {
			res.Stats.Modules++
		}
	}
	for _, d := range res.Diagnostics {
		observability.DiagnosticsTotal.WithLabelValues(string(d.Code)).Inc()
	}
	res.Stats.Warnings = diag.Warnings(res.Diagnostics)
	res.Stats.Infos = len(res.Diagnostics) - res.Stats.Warnings

	if c.cfg.Output.Strict && res.Stats.Warnings > 0 {
		err := errors.Newf(errors.CodeValidationError, "%d warning(s) in strict mode", res.Stats.Warnings)
		for _, d := range res.Diagnostics {
			if d.Severity == diag.SeverityWarning {
				err = errors.AddContext(err, errors.CtxSymbol, d.String())
				break
			}
		}
		return err
	}
	return nil
}

// parseAll parses every path with at most parse.workers files in flight.
// roots keeps the input order.
func (c *Converter) parseAll(ctx context.Context, paths []string) ([]*syntax.Node, error) {
	roots := make([]*syntax.Node, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.cfg.Parse.Workers))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			root, err := c.parser.ParseFile(path)
			if err != nil {
				return err
			}
			roots[i] = root
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return roots, nil
}

// stage runs fn inside a span and records its duration.
func stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := observability.Tracer.Start(ctx, "stage."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	observability.ConversionDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return errors.AddContext(err, errors.CtxOperation, name)
	}
	return nil
}

// WriteOutput writes res to output.path, creating parent directories.
func (c *Converter) WriteOutput(res *Result) error {
	if res == nil {
		return errors.New(errors.CodeInternal, "no result to write")
	}
	if err := util.WriteStringWithDirs(c.cfg.Output.Path, res.Output, 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write output"), errors.CtxPath, c.cfg.Output.Path)
	}
	return nil
}

func (c *Converter) record(ctx context.Context, res *Result, outcome string, runErr error) {
	if c.runs == nil {
		return
	}
	run := history.Run{
		RunID:        res.RunID.String(),
		Timestamp:    time.Now().UTC(),
		Outcome:      outcome,
		Inputs:       res.Stats.Inputs,
		Modules:      res.Stats.Modules,
		Declarations: res.Stats.TotalDeclarations(),
		Imports:      res.Stats.Imports,
		Warnings:     res.Stats.Warnings,
		Infos:        res.Stats.Infos,
		OutputPath:   c.cfg.Output.Path,
		Duration:     res.Stats.Duration,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := c.runs.SaveRun(ctx, run); err != nil {
		slog.Warn("failed to record run history", "run_id", run.RunID, "error", err)
	}
}
