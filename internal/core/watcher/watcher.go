// Package watcher re-runs conversions when declaration files change.
package watcher

import (
	"flowdef/internal/shared/observability"
	"flowdef/internal/shared/util"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	debounce   time.Duration
	include    []glob.Glob
	exclude    []glob.Glob
	onChange   func([]string)
	callbackMu sync.Mutex

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer

	// hashes holds the content hash last seen per file so rewrites with
	// identical bytes do not trigger a rerun.
	hashes   map[string]uint64
	hashesMu sync.Mutex
}

// NewWatcher builds a watcher. include globs select file base names,
// exclude globs skip both directories and files by base name.
func NewWatcher(debounce time.Duration, include, exclude []string, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}

	includeGlobs, err := util.CompileGlobs(include)
	if err != nil {
		return nil, err
	}
	excludeGlobs, err := util.CompileGlobs(exclude)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		include:   includeGlobs,
		exclude:   excludeGlobs,
		onChange:  onChange,
		pending:   make(map[string]time.Time),
		hashes:    make(map[string]uint64),
	}, nil
}

func (w *Watcher) SetDebounce(debounce time.Duration) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	w.debounce = debounce
}

// Watch starts watching paths. A file path watches its directory.
func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			w.remember(path)
			if err := w.fsWatcher.Add(filepath.Dir(path)); err != nil {
				return err
			}
			continue
		}
		if err := w.watchRecursive(path); err != nil {
			return err
		}
	}

	go w.run()
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && w.shouldExcludeDir(path) {
				return filepath.SkipDir
			}
			return w.fsWatcher.Add(path)
		}

		if !w.shouldExcludeFile(path) {
			w.remember(path)
		}
		return nil
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			observability.WatcherEventsTotal.Inc()

			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if !w.shouldExcludeDir(event.Name) {
						if err := w.watchRecursive(event.Name); err != nil {
							slog.Warn("failed to watch new directory", "path", event.Name, "error", err)
						} else {
							w.enqueueExistingFiles(event.Name)
						}
					}
					continue
				}
			}

			if w.shouldExcludeFile(event.Name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
				w.forget(event.Name)
				w.scheduleChange(event.Name)
			case event.Op&fsnotify.Write == fsnotify.Write, event.Op&fsnotify.Create == fsnotify.Create:
				if w.contentChanged(event.Name) {
					w.scheduleChange(event.Name)
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func hashFile(path string) (uint64, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	return xxhash.Sum64(data), true
}

func (w *Watcher) remember(path string) {
	if sum, ok := hashFile(path); ok {
		w.hashesMu.Lock()
		w.hashes[path] = sum
		w.hashesMu.Unlock()
	}
}

func (w *Watcher) forget(path string) {
	w.hashesMu.Lock()
	delete(w.hashes, path)
	w.hashesMu.Unlock()
}

// contentChanged reports whether path differs from the last content seen.
// Unreadable files count as changed.
func (w *Watcher) contentChanged(path string) bool {
	sum, ok := hashFile(path)
	if !ok {
		return true
	}
	w.hashesMu.Lock()
	defer w.hashesMu.Unlock()
	if prev, seen := w.hashes[path]; seen && prev == sum {
		return false
	}
	w.hashes[path] = sum
	return true
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.flushChanges()
	})
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) > 0 {
		sort.Strings(paths)
		w.callbackMu.Lock()
		defer w.callbackMu.Unlock()
		w.onChange(paths)
	}
}

func (w *Watcher) shouldExcludeDir(path string) bool {
	return util.MatchAny(w.exclude, filepath.Base(path))
}

func (w *Watcher) shouldExcludeFile(path string) bool {
	base := filepath.Base(path)
	if len(w.include) > 0 && !util.MatchAny(w.include, base) {
		return true
	}
	return util.MatchAny(w.exclude, base)
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}

func (w *Watcher) enqueueExistingFiles(root string) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		if w.shouldExcludeFile(path) {
			return nil
		}
		if w.contentChanged(path) {
			w.scheduleChange(path)
		}
		return nil
	})
}
