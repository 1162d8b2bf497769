// Package watch reloads the dataset when the local index document changes
// on disk. The watcher only reports that a change happened; the consumer
// re-ingests and replaces the dataset wholesale.
package watch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports writes to one file.
type Watcher struct {
	fs     *fsnotify.Watcher
	path   string
	logger *zap.Logger
}

// New creates a Watcher for path. The parent directory is watched rather
// than the file itself, so editors that replace the file via rename are
// still seen.
func New(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(path)); err != nil {
		fs.Close()
		return nil, err
	}
	return &Watcher{fs: fs, path: path, logger: logger}, nil
}

// Run invokes onChange for every write or create event on the watched file
// until ctx is canceled. It blocks; run it on its own goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				w.logger.Info("index document changed", zap.String("path", w.path))
				onChange()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// Close releases the underlying file watcher.
func (w *Watcher) Close() error { return w.fs.Close() }
