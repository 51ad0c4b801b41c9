package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher watches a directory for dataset file changes.
type watcher struct {
	dir      string
	debounce time.Duration
	onChange func()
	logger   *slog.Logger
}

// newWatcher creates a new file watcher.
func newWatcher(dir string, debounce time.Duration, onChange func(), logger *slog.Logger) *watcher {
	return &watcher{
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
	}
}

// watch starts watching for file changes and blocks until context is cancelled.
func (w *watcher) watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(w.dir); err != nil {
		return err
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			w.logger.Debug("file change detected", "file", event.Name, "op", event.Op.String())

			// Debounce: reset timer on each event
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				w.onChange()
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// isRelevantEvent checks if a file event should trigger a re-validation.
func (w *watcher) isRelevantEvent(event fsnotify.Event) bool {
	// Only care about writes and creates
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	// Ignore hidden files
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}

	// Ignore editor droppings
	ext := filepath.Ext(event.Name)
	ignoredExts := map[string]bool{
		".swp": true, ".swo": true, ".swn": true, // Vim
		".tmp": true, ".bak": true,
	}
	return !ignoredExts[ext]
}
