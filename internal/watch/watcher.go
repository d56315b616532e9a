// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/invowk/modsurface/pkg/modinfo"
)

// DefaultDebounce is the quiet period used when Config.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dirs are the directories to watch, non-recursively. Duplicates are
		// ignored.
		Dirs []string
		// Debounce is the quiet period after the last event before OnChange fires.
		Debounce time.Duration
		// Logger receives watcher diagnostics. nil discards them.
		Logger *log.Logger
		// OnChange receives the sorted, deduplicated module files that changed.
		OnChange func(ctx context.Context, changed []string) error
	}

	// Watcher reports changes to module files (.mod.cue, .cue, .sh) in a set
	// of directories, coalescing bursts of events into one callback.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		logger   *log.Logger
		debounce time.Duration
		started  atomic.Bool

		dirsMu sync.Mutex
		dirs   map[string]bool
	}
)

// New creates a Watcher and registers cfg.Dirs.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	w := &Watcher{cfg: cfg, fsw: fsw, logger: cfg.Logger, debounce: cfg.Debounce, dirs: map[string]bool{}}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if err := w.Add(cfg.Dirs...); err != nil {
		fsw.Close() //nolint:errcheck // best-effort cleanup
		return nil, err
	}
	return w, nil
}

// Add registers directories that are not watched yet. It may be called from
// OnChange, for example after a reload discovered new nested modules.
func (w *Watcher) Add(dirs ...string) error {
	w.dirsMu.Lock()
	defer w.dirsMu.Unlock()

	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("watch: resolve %s: %w", dir, err)
		}
		if w.dirs[abs] {
			continue
		}
		if err := w.fsw.Add(abs); err != nil {
			return fmt.Errorf("watch: add directory %s: %w", abs, err)
		}
		w.dirs[abs] = true
		w.logger.Debug("watching", "dir", abs)
	}
	return nil
}

// ModuleDirs returns the directories holding m and every module it nests or
// requires, each once.
func ModuleDirs(m *modinfo.Module) []string {
	var (
		dirs    []string
		visited = map[*modinfo.Module]bool{}
		walk    func(*modinfo.Module)
	)
	walk = func(mod *modinfo.Module) {
		if mod == nil || visited[mod] {
			return
		}
		visited[mod] = true
		if dir := mod.ModuleBase(); dir != "" && !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
		for _, n := range mod.NestedModules() {
			walk(n)
		}
		for _, r := range mod.RequiredModules() {
			walk(r)
		}
	}
	walk(m)
	return dirs
}

// IsModuleFile reports whether path has a module file extension.
func IsModuleFile(path string) bool {
	return modinfo.ModuleExt(path) != ""
}

// Run blocks until ctx is canceled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks. Only
// one callback runs at a time; events arriving meanwhile are delivered by
// the next one. Run does not return while a callback is still running.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu       sync.Mutex
		pending  = map[string]struct{}{}
		timer    *time.Timer
		busy     atomic.Bool
		stopped  bool
		inflight sync.WaitGroup
	)

	fire := func() {
		mu.Lock()
		if stopped || ctx.Err() != nil {
			mu.Unlock()
			return
		}
		inflight.Add(1)
		mu.Unlock()
		defer inflight.Done()

		if !busy.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, retrying")
			mu.Lock()
			if !stopped {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 || w.cfg.OnChange == nil {
			return
		}
		if err := w.cfg.OnChange(ctx, changed); err != nil {
			w.logger.Error("change handler failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		inflight.Wait()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if !IsModuleFile(evt.Name) || evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			w.logger.Debug("module file changed", "path", evt.Name, "op", evt.Op.String())
			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: %w", err)
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}
