// Package ui provides the terminal user interface for flattree.
// This file implements the BackgroundWorker that reloads the outline off the
// UI thread when its file changes.
package ui

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/flattree/pkg/analysis"
	"github.com/vanderheijden86/flattree/pkg/loader"
	"github.com/vanderheijden86/flattree/pkg/model"
	"github.com/vanderheijden86/flattree/pkg/snapshot"
	"github.com/vanderheijden86/flattree/pkg/watch"
)

// WorkerState represents the current state of the background worker.
type WorkerState int

const (
	// WorkerIdle means the worker is waiting for file changes.
	WorkerIdle WorkerState = iota
	// WorkerProcessing means the worker is loading a new outline.
	WorkerProcessing
	// WorkerStopped means the worker has been stopped.
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerProcessing:
		return "processing"
	case WorkerStopped:
		return "stopped"
	}
	return fmt.Sprintf("WorkerState(%d)", int(s))
}

// WorkerError wraps errors with phase and retry context.
type WorkerError struct {
	Phase   string    // "load", "hash", "analyze"
	Cause   error     // The underlying error
	Time    time.Time // When the error occurred
	Retries int       // Number of consecutive failures
}

func (e WorkerError) Error() string {
	return fmt.Sprintf("%s failed: %v (retries: %d)", e.Phase, e.Cause, e.Retries)
}

func (e WorkerError) Unwrap() error {
	return e.Cause
}

// OutlineSnapshot is one loaded version of the outline, ready for the UI.
type OutlineSnapshot struct {
	Outline  *model.Outline
	Hash     string
	Stats    analysis.Stats
	LoadedAt time.Time
}

// Sender delivers messages to the running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// LoadFunc produces the outline to display.
type LoadFunc func() (*model.Outline, error)

// BackgroundWorker owns the file watcher, coalesces bursts of changes and
// loads outlines off the UI thread.
type BackgroundWorker struct {
	// Configuration
	path          string
	debounceDelay time.Duration
	load          LoadFunc

	// State
	mu       sync.RWMutex
	state    WorkerState
	dirty    bool // True if a change came in while processing
	snapshot *OutlineSnapshot
	started  bool
	lastHash string // Content hash of the last delivered outline (for dedup)

	// Error tracking
	lastError  *WorkerError
	errorCount int

	// Components
	watcher *watch.Watcher
	program Sender

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// WorkerConfig configures the BackgroundWorker.
type WorkerConfig struct {
	// Path is the outline file. It is watched when Watch is set.
	Path          string
	Watch         bool
	DebounceDelay time.Duration
	// Load replaces loader.LoadOutline(Path), e.g. for directory outlines.
	Load    LoadFunc
	Program Sender
}

// NewBackgroundWorker creates a new background worker.
func NewBackgroundWorker(cfg WorkerConfig) (*BackgroundWorker, error) {
	ctx, cancel := context.WithCancel(context.Background())

	if cfg.DebounceDelay == 0 {
		cfg.DebounceDelay = watch.DefaultDebounce
	}
	load := cfg.Load
	if load == nil && cfg.Path != "" {
		path := cfg.Path
		load = func() (*model.Outline, error) { return loader.LoadOutline(path) }
	}

	w := &BackgroundWorker{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
		load:          load,
		program:       cfg.Program,
		state:         WorkerIdle,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}

	if cfg.Watch && cfg.Path != "" {
		fw, err := watch.New(cfg.Path, watch.WithDebounceDuration(cfg.DebounceDelay))
		if err != nil {
			cancel()
			return nil, err
		}
		w.watcher = fw
	}

	return w, nil
}

// SetProgram sets where snapshots are delivered. Call it before Start.
func (w *BackgroundWorker) SetProgram(p Sender) {
	w.mu.Lock()
	w.program = p
	w.mu.Unlock()
}

// Start begins watching for file changes. Start is idempotent.
func (w *BackgroundWorker) Start() error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if w.watcher != nil {
		if err := w.watcher.Start(); err != nil {
			return err
		}
		go w.processLoop()
	} else {
		// No watcher - close done channel immediately so Stop() doesn't block
		close(w.done)
	}
	return nil
}

// Stop halts the background worker. Stop is idempotent.
func (w *BackgroundWorker) Stop() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	w.state = WorkerStopped
	wasStarted := w.started
	w.mu.Unlock()

	w.cancel()

	if w.watcher != nil {
		w.watcher.Stop()
	}

	if wasStarted {
		select {
		case <-w.done:
		case <-time.After(2 * time.Second):
		}
	}
}

// TriggerRefresh reloads the outline now. A refresh requested while one is
// running is folded into a single rerun.
func (w *BackgroundWorker) TriggerRefresh() {
	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if w.state == WorkerProcessing {
		w.dirty = true
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	go w.process()
}

// GetSnapshot returns the last loaded outline (may be nil).
func (w *BackgroundWorker) GetSnapshot() *OutlineSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshot
}

// State returns the current worker state.
func (w *BackgroundWorker) State() WorkerState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// processLoop waits for file changes and reloads.
func (w *BackgroundWorker) processLoop() {
	defer close(w.done)

	for {
		select {
		case <-w.ctx.Done():
			return

		case _, ok := <-w.watcher.Changed():
			if !ok {
				return
			}
			w.process()

		case err, ok := <-w.watcher.Errors():
			if !ok {
				return
			}
			log.Printf("warning: watching %s: %v", w.path, err)
		}
	}
}

// process loads a new snapshot and hands it to the UI.
func (w *BackgroundWorker) process() {
	w.mu.Lock()
	if w.state != WorkerIdle {
		if w.state == WorkerProcessing {
			w.dirty = true
		}
		w.mu.Unlock()
		return
	}
	w.state = WorkerProcessing
	w.dirty = false
	w.mu.Unlock()

	// nil when the content is unchanged or loading failed
	snap := w.buildSnapshot()

	w.mu.Lock()
	if w.state == WorkerStopped {
		w.mu.Unlock()
		return
	}
	if snap != nil {
		w.snapshot = snap
	}
	wasDirty := w.dirty
	w.state = WorkerIdle
	program := w.program
	w.mu.Unlock()

	if program != nil && snap != nil {
		program.Send(OutlineReadyMsg{Snapshot: snap})
	}

	if wasDirty {
		go w.process()
	}
}

// safeCompute executes fn and recovers from any panics.
func (w *BackgroundWorker) safeCompute(phase string, fn func() error) *WorkerError {
	var result *WorkerError
	func() {
		defer func() {
			if r := recover(); r != nil {
				result = &WorkerError{
					Phase: phase,
					Cause: fmt.Errorf("panic: %v\n%s", r, debug.Stack()),
					Time:  time.Now(),
				}
			}
		}()
		if err := fn(); err != nil {
			result = &WorkerError{
				Phase: phase,
				Cause: err,
				Time:  time.Now(),
			}
		}
	}()
	return result
}

// recordError tracks an error and updates error state.
func (w *BackgroundWorker) recordError(err *WorkerError) {
	w.mu.Lock()
	w.lastError = err
	if err != nil {
		w.errorCount++
		err.Retries = w.errorCount
	} else {
		w.errorCount = 0
	}
	w.mu.Unlock()
}

// LastError returns the most recent error (nil if last operation succeeded).
func (w *BackgroundWorker) LastError() *WorkerError {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastError
}

// fail records err and tells the UI about it.
func (w *BackgroundWorker) fail(err *WorkerError) {
	log.Printf("reload %s: %v", w.path, err)
	w.recordError(err)
	w.mu.RLock()
	program := w.program
	w.mu.RUnlock()
	if program != nil {
		// A broken save is usually fixed by the next one.
		program.Send(OutlineErrorMsg{Err: err, Recoverable: true})
	}
}

// buildSnapshot loads the outline on the worker goroutine. It returns nil
// when there is nothing to load, loading fails or the content is unchanged.
func (w *BackgroundWorker) buildSnapshot() *OutlineSnapshot {
	if w.load == nil {
		return nil
	}
	start := time.Now()

	var o *model.Outline
	if err := w.safeCompute("load", func() error {
		var err error
		o, err = w.load()
		return err
	}); err != nil {
		w.fail(err)
		return nil
	}

	var hash string
	if err := w.safeCompute("hash", func() error {
		var err error
		hash, err = snapshot.Hash(o)
		return err
	}); err != nil {
		w.fail(err)
		return nil
	}

	w.mu.RLock()
	lastHash := w.lastHash
	w.mu.RUnlock()
	if hash == lastHash && lastHash != "" {
		log.Printf("reload %s: content unchanged (hash=%s), skipping rebuild", w.path, hashPrefix(hash))
		w.recordError(nil)
		return nil
	}

	var stats analysis.Stats
	if err := w.safeCompute("analyze", func() error {
		stats = analysis.Summarize(o)
		return nil
	}); err != nil {
		w.fail(err)
		return nil
	}

	w.recordError(nil)
	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()

	log.Printf("reload %s: loaded %d items in %v (hash=%s)", w.path, stats.Nodes, time.Since(start), hashPrefix(hash))
	return &OutlineSnapshot{Outline: o, Hash: hash, Stats: stats, LoadedAt: time.Now()}
}

// OutlineReadyMsg is sent to the UI when a changed outline has been loaded.
type OutlineReadyMsg struct {
	Snapshot *OutlineSnapshot
}

// OutlineErrorMsg is sent to the UI when reloading fails.
type OutlineErrorMsg struct {
	Err         error
	Recoverable bool // True if we expect to recover on the next file change
}

// LastHash returns the content hash of the last delivered outline.
func (w *BackgroundWorker) LastHash() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastHash
}

// SetLastHash records the hash of an outline the UI already shows, so an
// unchanged reload is skipped.
func (w *BackgroundWorker) SetLastHash(hash string) {
	w.mu.Lock()
	w.lastHash = hash
	w.mu.Unlock()
}

// hashPrefix returns up to 16 characters of the hash for logging.
func hashPrefix(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
