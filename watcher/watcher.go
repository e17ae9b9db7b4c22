// Package watcher provides live reload for documents loaded from
// files.
//
// A Watcher tracks the source file of each loaded registry entry and
// re-runs its reload function when the file changes. Rapid write
// bursts are debounced. Deleting a watched file invokes the entry's
// remove function instead.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by watcher operations.
var (
	// ErrWatcherClosed indicates the watcher has been closed.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrNotWatching indicates the path is not being watched.
	ErrNotWatching = errors.New("path is not being watched")
)

// target holds the callbacks registered for one watched file.
type target struct {
	reload func() error
	remove func()
}

// Watcher monitors loaded files and triggers reloads.
type Watcher struct {
	mu sync.Mutex

	fsw *fsnotify.Watcher

	// Watched absolute paths and their callbacks
	targets map[string]target

	// Pending debounce timers per path
	timers map[string]*time.Timer

	// Error handler for watch-loop and reload failures
	onError func(error)

	debounce time.Duration

	// Lifecycle
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		targets:  make(map[string]target),
		timers:   make(map[string]*time.Timer),
		debounce: 100 * time.Millisecond,
		closeCh:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch starts watching path. On write or create events the reload
// function is called after the debounce window; on remove or rename
// events the remove function is called and the path is forgotten.
func (w *Watcher) Watch(path string, reload func() error, remove func()) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	if _, exists := w.targets[absPath]; !exists {
		if err := w.fsw.Add(absPath); err != nil {
			return err
		}
	}

	w.targets[absPath] = target{reload: reload, remove: remove}
	return nil
}

// Unwatch stops watching path.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	if _, exists := w.targets[absPath]; !exists {
		return ErrNotWatching
	}

	delete(w.targets, absPath)
	if t, ok := w.timers[absPath]; ok {
		t.Stop()
		delete(w.timers, absPath)
	}
	return w.fsw.Remove(absPath)
}

// OnError registers a handler for watch-loop and reload failures.
func (w *Watcher) OnError(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// WatchedPaths returns all watched paths.
func (w *Watcher) WatchedPaths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.targets))
	for p := range w.targets {
		paths = append(paths, p)
	}
	return paths
}

// Close stops the watcher. It is safe to call Close multiple times.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

// handleEvent dispatches one fsnotify event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	w.mu.Lock()
	t, ok := w.targets[event.Name]
	w.mu.Unlock()
	if !ok {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		w.mu.Lock()
		delete(w.targets, event.Name)
		if timer, exists := w.timers[event.Name]; exists {
			timer.Stop()
			delete(w.timers, event.Name)
		}
		w.mu.Unlock()

		if t.remove != nil {
			t.remove()
		}

	case event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create):
		w.scheduleReload(event.Name)
	}
}

// scheduleReload arms (or re-arms) the debounce timer for a path. The
// target is re-resolved when the timer fires, so a path re-registered
// during the debounce window reloads through its current callbacks.
func (w *Watcher) scheduleReload(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	if timer, exists := w.timers[path]; exists {
		timer.Stop()
	}

	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		t, still := w.targets[path]
		w.mu.Unlock()
		if !still || t.reload == nil {
			return
		}

		if err := t.reload(); err != nil {
			w.reportError(err)
		}
	})
}

// reportError delivers an error to the registered handler, if any.
func (w *Watcher) reportError(err error) {
	w.mu.Lock()
	fn := w.onError
	w.mu.Unlock()

	if fn != nil {
		fn(err)
	}
}
