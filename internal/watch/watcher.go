// Package watch monitors a directory for transaction files and hands each
// settled change to a handler.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jtdman/CashRegister/internal/constants"
	"github.com/jtdman/CashRegister/internal/logging"
)

// Handler is called once per settled file change.
type Handler func(path string)

// Watcher watches a single directory (non-recursive) for created or written
// .txt files. Editors and copy tools emit several events per save, so changes
// sit in a pending map until they have been quiet for the debounce window;
// each settled file then produces exactly one Handler call.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	logger   *logging.Logger

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]time.Time // file path -> last change time
}

// New creates a watcher for dir. A non-positive debounce falls back to the
// default window.
func New(dir string, debounce time.Duration, logger *logging.Logger, handler Handler) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path is not a directory: %s", dir)
	}

	if debounce <= 0 {
		debounce = constants.DefaultWatchDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		logger:   logger,
		watcher:  fsWatcher,
		pending:  make(map[string]time.Time),
	}, nil
}

// Run watches until ctx is cancelled. Settled files are handled one at a
// time, in the order they settle.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	defer w.watcher.Close()

	go w.processPending(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create {
				w.handleFileChange(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}

// handleFileChange records a change for debouncing. Only .txt files count,
// and output files are never treated as inputs even when the output
// directory sits inside the watched one.
func (w *Watcher) handleFileChange(path string) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, "-output.txt") {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// processPending drains changes that have been quiet for the debounce window.
func (w *Watcher) processPending(ctx context.Context) {
	ticker := time.NewTicker(constants.WatchDrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			w.mu.Lock()
			var toProcess []string
			for path, changeTime := range w.pending {
				if now.Sub(changeTime) >= w.debounce {
					toProcess = append(toProcess, path)
					delete(w.pending, path)
				}
			}
			w.mu.Unlock()

			for _, path := range toProcess {
				w.handler(path)
			}
		}
	}
}
