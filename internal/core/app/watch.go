package app

import (
	"context"
	"flowdef/internal/core/watcher"
	"log/slog"
)

// Watch converts inputs once, then reconverts whenever a matching file
// under inputs changes, until ctx is done. onResult sees every run,
// successful or not. The output file is only rewritten on success.
func (c *Converter) Watch(ctx context.Context, inputs []string, onResult func(*Result, error)) error {
	rerun := func() {
		res, err := c.Run(ctx, inputs)
		if onResult != nil {
			onResult(res, err)
		}
	}

	w, err := watcher.NewWatcher(c.cfg.Watch.Debounce, c.cfg.Input.Include, c.cfg.Input.Exclude, func(changed []string) {
		slog.Info("declaration files changed", "count", len(changed), "first", changed[0])
		rerun()
	})
	if err != nil {
		return err
	}
	defer w.Close()

	rerun()
	if err := w.Watch(inputs); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

// Run expands inputs, converts them and writes the output file.
func (c *Converter) Run(ctx context.Context, inputs []string) (*Result, error) {
	files, err := ExpandInputs(inputs, c.cfg.Input.Include, c.cfg.Input.Exclude)
	if err != nil {
		return nil, err
	}
	res, err := c.Convert(ctx, files)
	if err != nil {
		return nil, err
	}
	if err := c.WriteOutput(res); err != nil {
		return nil, err
	}
	return res, nil
}
