package params

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Change reports that the file backing Key was written, replaced or removed.
type Change struct {
	Key  string
	Path string
}

// Watcher observes the params data directory and reports changes of keys added via Add.
// Keys are never dropped once added.
type Watcher struct {
	store   *Store
	fs      *fsnotify.Watcher
	logger  *slog.Logger
	mu      sync.RWMutex
	keys    map[string]struct{}
	started bool
}

func NewWatcher(store *Store, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default().With("component", "params.watcher")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fsw.Add(store.dataDir()); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch params dir: %w", err)
	}

	return &Watcher{
		store:  store,
		fs:     fsw,
		logger: logger,
		keys:   make(map[string]struct{}),
	}, nil
}

func (w *Watcher) Add(keys ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, key := range keys {
		if _, ok := w.keys[key]; ok {
			continue
		}
		w.keys[key] = struct{}{}
		w.logger.Debug("watching param", "key", key, "path", w.store.KeyPath(key))
	}
}

func (w *Watcher) Watching(key string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.keys[key]
	return ok
}

// Start delivers changes to onChange from a single goroutine until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context, onChange func(Change)) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fs.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
					continue
				}
				key := filepath.Base(ev.Name)
				if !w.Watching(key) {
					continue
				}
				w.logger.Debug("param changed", "key", key, "op", ev.Op.String())
				if onChange != nil {
					onChange(Change{Key: key, Path: ev.Name})
				}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.logger.Warn("params watcher error", "error", err)
			}
		}
	}()
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
