// Package watcher reports changes to individual files using fsnotify.
//
// Files are watched through their parent directory so that editors which
// save by writing a temp file and renaming it over the original are still
// seen. Bursts of events are coalesced with a Debouncer.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when operations are called on a closed Watcher.
var ErrClosed = errors.New("watcher: watcher is closed")

// EventType is a bit set of file operations.
type EventType uint32

const (
	Create EventType = 1 << iota
	Write
	Remove
	Rename
	Chmod

	All = Create | Write | Remove | Rename | Chmod
)

// Event is one change to a watched file.
type Event struct {
	Path string
	Type EventType
}

func eventTypeFromFsnotify(op fsnotify.Op) EventType {
	var t EventType
	if op.Has(fsnotify.Create) {
		t |= Create
	}
	if op.Has(fsnotify.Write) {
		t |= Write
	}
	if op.Has(fsnotify.Remove) {
		t |= Remove
	}
	if op.Has(fsnotify.Rename) {
		t |= Rename
	}
	if op.Has(fsnotify.Chmod) {
		t |= Chmod
	}
	return t
}

// Handler receives the events coalesced since the previous call.
type Handler func(events []Event)

// ErrorHandler receives watch errors.
type ErrorHandler func(err error)

// Watcher watches a set of files.
type Watcher struct {
	fs           *fsnotify.Watcher
	debouncer    *Debouncer
	handler      Handler
	errorHandler ErrorHandler
	filter       EventType

	mu      sync.Mutex
	files   map[string]bool // cleaned absolute paths
	dirs    map[string]int  // watched directory -> file count
	pending []Event
	closed  bool
	done    chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the quiet period before events are delivered.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debouncer = NewDebouncer(d)
	}
}

// WithEventFilter limits delivered events to the given types. Chmod is
// excluded by default.
func WithEventFilter(filter EventType) Option {
	return func(w *Watcher) {
		w.filter = filter
	}
}

// WithErrorHandler sets the handler for watch errors.
func WithErrorHandler(h ErrorHandler) Option {
	return func(w *Watcher) {
		w.errorHandler = h
	}
}

// New starts a Watcher that calls handler after changes settle.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w := &Watcher{
		fs:        fs,
		debouncer: NewDebouncer(DefaultDebounceDuration),
		handler:   handler,
		filter:    All &^ Chmod,
		files:     make(map[string]bool),
		dirs:      make(map[string]int),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.run()
	return w, nil
}

// Add starts watching path. The file does not need to exist yet but its
// directory does.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	abs = filepath.Clean(abs)
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.files[abs] {
		return nil
	}
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// Remove stops watching path.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	abs = filepath.Clean(abs)
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if !w.files[abs] {
		return nil
	}
	delete(w.files, abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		return w.fs.Remove(dir)
	}
	return nil
}

// Close stops the Watcher. Pending events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.pending = nil
	w.mu.Unlock()

	w.debouncer.Cancel()
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.errorHandler != nil {
				w.errorHandler(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	t := eventTypeFromFsnotify(ev.Op)
	if t&w.filter == 0 {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	if w.closed || !w.files[path] {
		w.mu.Unlock()
		return
	}
	w.pending = append(w.pending, Event{Path: path, Type: t})
	w.mu.Unlock()

	w.debouncer.Trigger(w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	events := w.pending
	w.pending = nil
	w.mu.Unlock()

	if len(events) > 0 && w.handler != nil {
		w.handler(events)
	}
}
