package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// Reloader is anything that can re-read its backing file.
type Reloader interface {
	Reload() error
}

// Watcher reloads stores when their backing files change on disk, so
// hand-edits to the seeded JSON files show up without a restart.
// Changes are debounced because editors and atomic renames produce
// bursts of events for one logical write.
type Watcher struct {
	fs  *fsnotify.Watcher
	log *slog.Logger

	mu      sync.Mutex
	targets map[string]Reloader // keyed by cleaned absolute path
	pending map[string]*time.Timer
}

func NewWatcher(log *slog.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		fs:      fs,
		log:     log,
		targets: make(map[string]Reloader),
		pending: make(map[string]*time.Timer),
	}, nil
}

// Register watches the file's directory and routes its change events to
// the given store. Watching the directory rather than the file survives
// the rename-over-the-top writes the stores use.
func (w *Watcher) Register(path string, target Reloader) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	w.mu.Lock()
	w.targets[abs] = target
	w.mu.Unlock()
	if err := w.fs.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return nil
}

// Run processes events until the context is canceled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fs.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", slog.String("err", err.Error()))
		}
	}
}

func (w *Watcher) schedule(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	target, ok := w.targets[abs]
	if !ok {
		return
	}
	if timer, ok := w.pending[abs]; ok {
		timer.Stop()
	}
	w.pending[abs] = time.AfterFunc(watchDebounce, func() {
		w.mu.Lock()
		delete(w.pending, abs)
		w.mu.Unlock()
		if err := target.Reload(); err != nil {
			w.log.Warn("reload after file change failed",
				slog.String("path", abs), slog.String("err", err.Error()))
			return
		}
		w.log.Info("store reloaded", slog.String("path", abs))
	})
}
