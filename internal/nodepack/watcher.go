package nodepack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/bpscript/internal/ctxlog"
	"github.com/vk/bpscript/internal/registry"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reloading.
const DefaultDebounce = 200 * time.Millisecond

// ReloadFunc observes the outcome of every reload.
type ReloadFunc func(defs []*registry.Definition, err error)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithOnReload registers a callback run after each reload.
func WithOnReload(fn ReloadFunc) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// Watcher reloads node packs whenever a pack file is created, written or
// renamed under the watched paths.
type Watcher struct {
	loader    *Loader
	paths     []string
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	onReload  ReloadFunc

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher starts watching the given files and directories. Directories
// are watched recursively; a file is watched through its parent directory so
// editors that replace files on save are still seen.
func NewWatcher(loader *Loader, paths []string, opts ...WatcherOption) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		loader:    loader,
		paths:     paths,
		fsWatcher: fsWatcher,
		debounce:  DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, p := range paths {
		if err := w.add(p); err != nil {
			fsWatcher.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	if !info.IsDir() {
		return w.fsWatcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsWatcher.Add(p)
		}
		return nil
	})
}

// Run processes file events until ctx is cancelled, then releases the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("👀 Watching node packs.", "paths", w.paths)
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Node pack watcher stopping.")
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Node pack watcher reported an error.", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.fsWatcher.Add(event.Name)
			return
		}
	}
	if !strings.HasSuffix(event.Name, Extension) {
		return
	}

	ctxlog.FromContext(ctx).Debug("Node pack changed.", "file", event.Name, "op", event.Op.String())
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.reload(ctx) })
}

func (w *Watcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	logger := ctxlog.FromContext(ctx)
	defs, err := w.loader.Load(ctx, w.paths...)
	if err != nil {
		logger.Error("Failed to reload node packs, keeping previous definitions.", "error", err)
	} else {
		logger.Info("🔄 Node packs reloaded.", "definitions", len(defs))
	}
	if w.onReload != nil {
		w.onReload(defs, err)
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.fsWatcher.Close()
}
