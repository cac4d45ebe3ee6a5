package main

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/oarkflow/log"
)

// watchDebounce is how long rapid saves are coalesced into one re-run
const watchDebounce = 100 * time.Millisecond

// scriptWatcher re-runs a script whenever its file changes
type scriptWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	onSave  func()
	diag    *log.Logger

	mu         sync.Mutex
	lastChange time.Time
	runs       int
}

// newScriptWatcher watches the script's directory rather than the file, so
// editors that save by rename are still seen.
func newScriptWatcher(path string, onSave func(), diag *log.Logger) (*scriptWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	diag.Info().Str("file", abs).Msg("watching")
	return &scriptWatcher{
		watcher: fsWatcher,
		path:    abs,
		onSave:  onSave,
		diag:    diag,
	}, nil
}

// Watch blocks until ctx is cancelled or the watcher is closed.
func (w *scriptWatcher) Watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}

			w.mu.Lock()
			if time.Since(w.lastChange) < watchDebounce {
				w.mu.Unlock()
				continue
			}
			w.lastChange = time.Now()
			w.runs++
			w.mu.Unlock()

			w.diag.Info().Str("file", w.path).Str("op", event.Op.String()).Msg("script changed, re-running")
			w.onSave()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.diag.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *scriptWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	return err == nil && abs == w.path
}

// Runs reports how many change-triggered runs have happened
func (w *scriptWatcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

func (w *scriptWatcher) Close() error {
	return w.watcher.Close()
}
