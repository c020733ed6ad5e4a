// Package watch reports changes to a single file, coalescing bursts of
// filesystem events into one notification.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before Changed fires.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches one file. The parent directory is watched so editors that
// save by renaming a temp file over the original are still seen.
type Watcher struct {
	path     string
	dir      string
	base     string
	debounce time.Duration

	fsw     *fsnotify.Watcher
	changed chan struct{}
	errors  chan error

	mu      sync.Mutex
	started bool
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the quiet period. Zero or negative keeps the default.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		base:     filepath.Base(abs),
		debounce: DefaultDebounce,
		fsw:      fsw,
		changed:  make(chan struct{}, 1),
		errors:   make(chan error, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. Start is idempotent.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return fmt.Errorf("watcher for %s already stopped", w.path)
	}
	if w.started {
		return nil
	}
	if err := w.fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.started = true
	go w.loop()
	return nil
}

// Stop shuts the watcher down and closes Changed and Errors. Stop is
// idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	started := w.started
	w.mu.Unlock()

	w.cancel()
	w.fsw.Close()
	if started {
		<-w.done
	}
	close(w.changed)
	close(w.errors)
}

// Changed receives one value per debounced burst of changes.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Errors receives watcher errors. Errors are dropped when nobody reads them.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

func (w *Watcher) loop() {
	defer close(w.done)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-w.ctx.Done():
			timer.Stop()
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			select {
			case w.changed <- struct{}{}:
			default:
				// A notification is already queued.
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}
