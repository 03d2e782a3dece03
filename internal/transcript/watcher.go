// Package transcript follows a consultation transcript file as it is edited.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher re-reads a transcript file every time it changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  *zap.Logger
}

// NewWatcher creates a watcher for the file at path. The file need not exist
// yet; its directory must.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve transcript path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{watcher: w, path: abs, logger: logger}, nil
}

// Watch emits the file's current contents, then the new contents after each
// write, create or rename into place. A removed file emits "". The channel
// closes when ctx is done or the watcher is stopped.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	// Watch the directory so editors that replace the file are still seen.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return nil, err
	}

	out := make(chan string, 16)
	initial, err := w.read()
	if err != nil {
		return nil, err
	}
	out <- initial

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}

				content, err := w.read()
				if err != nil {
					w.logger.Warn("read transcript", zap.String("path", w.path), zap.Error(err))
					continue
				}
				select {
				case out <- content:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("transcript watcher", zap.Error(err))
			}
		}
	}()

	return out, nil
}

func (w *Watcher) read() (string, error) {
	b, err := os.ReadFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
