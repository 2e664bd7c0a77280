package panel

import (
	"sync"
	"time"

	"github.com/theirongolddev/critters/internal/clock"
	"github.com/theirongolddev/critters/internal/tile"
)

// View is a displayable result.
type View struct {
	Result tile.Result
	Cached bool
	Stale  bool
	// Age of a cached result; tilecache.Infinite for legacy entries.
	Age time.Duration
}

// Failure is a foreground error with its retry control.
type Failure struct {
	Message string
	Retry   func()
}

// Renderer owns the body region of each tile. Implementations must ignore
// ids they do not know.
type Renderer interface {
	Loading(id string)
	Show(id string, v View)
	Fail(id string, f Failure)
}

// StatusSink receives the shared status line. An empty message clears it.
type StatusSink func(msg string)

// Status drives a StatusSink with transient messages. A nil sink is valid.
type Status struct {
	mu    sync.Mutex
	sink  StatusSink
	clock clock.Clock
	seq   uint64
	wg    sync.WaitGroup
}

// NewStatus wraps sink.
func NewStatus(sink StatusSink, clk clock.Clock) *Status {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Status{sink: sink, clock: clk}
}

// Set shows msg until the next message.
func (s *Status) Set(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(msg)
}

// Flash shows msg and clears it after d, unless another message was shown
// in the meantime.
func (s *Status) Flash(msg string, d time.Duration) {
	s.mu.Lock()
	seq := s.set(msg)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		<-s.clock.After(d)
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.seq == seq {
			s.set("")
		}
	}()
}

// Wait blocks until pending clears have run.
func (s *Status) Wait() {
	s.wg.Wait()
}

func (s *Status) set(msg string) uint64 {
	s.seq++
	if s.sink != nil {
		s.sink(msg)
	}
	return s.seq
}

// MultiRenderer fans every call out to several renderers.
type MultiRenderer []Renderer

// Loading implements Renderer.
func (m MultiRenderer) Loading(id string) {
	for _, r := range m {
		r.Loading(id)
	}
}

// Show implements Renderer.
func (m MultiRenderer) Show(id string, v View) {
	for _, r := range m {
		r.Show(id, v)
	}
}

// Fail implements Renderer.
func (m MultiRenderer) Fail(id string, f Failure) {
	for _, r := range m {
		r.Fail(id, f)
	}
}
