package specfile

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vyrodovalexey/routetree/internal/observability"
)

// SpecCallback is called when the spec document changes.
type SpecCallback func(*File)

// ErrorCallback is called when a reload attempt fails.
type ErrorCallback func(error)

// Watcher watches a spec file for changes and triggers reloads.
type Watcher struct {
	path          string
	watcher       *fsnotify.Watcher
	callback      SpecCallback
	errorCallback ErrorCallback
	logger        observability.Logger
	debounceDelay time.Duration
	lastFile      *File
	mu            sync.RWMutex
	stopCh        chan struct{}
	stoppedCh     chan struct{}
	running       bool
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay for file changes.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = delay
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithErrorCallback sets the error callback for the watcher.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.errorCallback = callback
	}
}

// NewWatcher creates a new spec file watcher.
func NewWatcher(path string, callback SpecCallback, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		watcher:       fsWatcher,
		callback:      callback,
		debounceDelay: 100 * time.Millisecond,
		logger:        observability.NopLogger(),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start loads the spec file and begins watching it for changes.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Any failure before the watch goroutine exists must roll back
	// running: Stop waits on stoppedCh, which only that goroutine
	// closes, and a retried Start must not be a silent no-op.
	file, err := Load(w.path)
	if err != nil {
		w.abortStart()
		return err
	}

	w.mu.Lock()
	w.lastFile = file
	w.mu.Unlock()

	// Watch the directory, not the file: editors and config maps
	// replace the file by rename, which drops a file-level watch.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		w.abortStart()
		return err
	}

	w.logger.Info("started watching spec file",
		observability.String("path", w.path),
	)

	go w.watch(ctx)

	return nil
}

// abortStart rolls back the running flag after a failed Start.
func (w *Watcher) abortStart() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// Stop stops watching the spec file.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

// GetLastFile returns the last successfully loaded spec document.
func (w *Watcher) GetLastFile() *File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastFile
}

// watch is the main watch loop.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("spec watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			w.logger.Info("spec watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			debounceTimer, debounceCh = w.handleFileEvent(event, debounceTimer, debounceCh)

		case <-debounceCh:
			debounceCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleWatchError(err)
		}
	}
}

// handleFileEvent processes a file system event and returns the updated
// debounce timer.
func (w *Watcher) handleFileEvent(
	event fsnotify.Event,
	debounceTimer *time.Timer,
	debounceCh <-chan time.Time,
) (timer *time.Timer, ch <-chan time.Time) {
	// Only process events for our spec file
	if filepath.Clean(event.Name) != w.path {
		return debounceTimer, debounceCh
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return debounceTimer, debounceCh
	}

	w.logger.Debug("spec file changed",
		observability.String("path", event.Name),
		observability.String("op", event.Op.String()),
	)

	// Reset debounce timer
	if debounceTimer != nil {
		debounceTimer.Stop()
	}
	debounceTimer = time.NewTimer(w.debounceDelay)
	return debounceTimer, debounceTimer.C
}

// handleWatchError handles watcher errors.
func (w *Watcher) handleWatchError(err error) {
	w.logger.Error("spec watcher error",
		observability.Error(err),
	)
	if w.errorCallback != nil {
		w.errorCallback(err)
	}
}

// reload attempts to reload the spec document.
func (w *Watcher) reload() {
	w.logger.Info("reloading spec file",
		observability.String("path", w.path),
	)

	file, err := Load(w.path)
	if err != nil {
		w.logger.Error("failed to load spec file",
			observability.Error(err),
		)
		specMetrics().reloadFailures.Inc()
		if w.errorCallback != nil {
			w.errorCallback(err)
		}
		return
	}

	w.mu.Lock()
	w.lastFile = file
	w.mu.Unlock()

	specMetrics().reloads.Inc()
	w.logger.Info("spec file reloaded successfully")

	if w.callback != nil {
		w.callback(file)
	}
}

// ForceReload forces an immediate reload of the spec document.
func (w *Watcher) ForceReload() error {
	file, err := Load(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.lastFile = file
	w.mu.Unlock()

	if w.callback != nil {
		w.callback(file)
	}

	return nil
}
