// Package board is the terminal panel: a grid of tile cards driven by the
// panel controller through tea messages.
package board

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/critters/internal/panel"
)

// TileLoadingMsg reports a tile entering the loading state.
type TileLoadingMsg struct{ ID string }

// TileShownMsg carries a displayable result.
type TileShownMsg struct {
	ID   string
	View panel.View
}

// TileFailedMsg carries a foreground failure.
type TileFailedMsg struct {
	ID      string
	Failure panel.Failure
}

// StatusMsg replaces the status line. Empty clears it.
type StatusMsg struct{ Text string }

// Sender delivers messages to the running program. *tea.Program
// implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge is a panel.Renderer that forwards every call as a tea message.
// Calls made before a Sender is attached are dropped.
type Bridge struct {
	mu     sync.RWMutex
	sender Sender
}

// NewBridge returns an unattached Bridge.
func NewBridge() *Bridge { return &Bridge{} }

// Attach sets the destination of future messages.
func (b *Bridge) Attach(s Sender) {
	b.mu.Lock()
	b.sender = s
	b.mu.Unlock()
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.RLock()
	s := b.sender
	b.mu.RUnlock()
	if s != nil {
		s.Send(msg)
	}
}

// Loading implements panel.Renderer.
func (b *Bridge) Loading(id string) { b.send(TileLoadingMsg{ID: id}) }

// Show implements panel.Renderer.
func (b *Bridge) Show(id string, v panel.View) { b.send(TileShownMsg{ID: id, View: v}) }

// Fail implements panel.Renderer.
func (b *Bridge) Fail(id string, f panel.Failure) { b.send(TileFailedMsg{ID: id, Failure: f}) }

// SetStatus is a panel.StatusSink.
func (b *Bridge) SetStatus(msg string) { b.send(StatusMsg{Text: msg}) }
