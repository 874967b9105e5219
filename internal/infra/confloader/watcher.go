package confloader

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports edits to the configuration file so voltkv-server can
// pick up a changed log level without a restart.
type Watcher struct {
	watcher   *fsnotify.Watcher
	callbacks []func(string)
	mu        sync.RWMutex
	done      chan struct{}
	logger    *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger routes watcher diagnostics to the given logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher prepares a watcher; paths are added with Watch.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{
		watcher:   w,
		callbacks: make([]func(string), 0),
		done:      make(chan struct{}),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(watcher)
	}

	return watcher, nil
}

// Watch registers interest in a file. The watch goes on the parent
// directory so the rename-over-the-top pattern editors use still
// produces events.
func (w *Watcher) Watch(path string) error {
	dir := filepath.Dir(path)
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Error("failed to watch directory",
			"path", dir,
			"error", err,
		)
		return err
	}
	w.logger.Debug("watching directory for changes",
		"path", dir,
		"file", filepath.Base(path),
	)
	return nil
}

// OnChange registers a callback invoked with the path of each changed
// file.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start dispatches change events to the callbacks until Stop is
// called. It blocks; StartAsync runs it in a goroutine.
func (w *Watcher) Start() {
	w.logger.Info("configuration watcher started")

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.logger.Debug("watcher events channel closed")
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.logger.Debug("configuration file changed",
					"file", event.Name,
					"op", event.Op.String(),
				)
				w.notifyCallbacks(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.logger.Debug("watcher errors channel closed")
				return
			}
			w.logger.Error("configuration watcher error",
				"error", err,
			)
		case <-w.done:
			w.logger.Debug("watcher received stop signal")
			return
		}
	}
}

// StartAsync runs Start in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop ends the watch and releases the fsnotify handle.
func (w *Watcher) Stop() error {
	close(w.done)
	if err := w.watcher.Close(); err != nil {
		w.logger.Error("failed to close watcher",
			"error", err,
		)
		return err
	}
	w.logger.Info("configuration watcher stopped")
	return nil
}

// notifyCallbacks fans one change out to every registered callback.
func (w *Watcher) notifyCallbacks(path string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(path)
	}
}
