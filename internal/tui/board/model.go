package board

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/critters/internal/clipboard"
	"github.com/theirongolddev/critters/internal/imagefallback"
	"github.com/theirongolddev/critters/internal/kvstore"
	"github.com/theirongolddev/critters/internal/panel"
	"github.com/theirongolddev/critters/internal/tile"
	"github.com/theirongolddev/critters/internal/tilecache"
	"github.com/theirongolddev/critters/internal/tui/layout"
	"github.com/theirongolddev/critters/internal/tui/theme"
)

// ImageResolvedMsg carries a fallback decision for the result shown at Gen.
type ImageResolvedMsg struct {
	ID    string
	Gen   int
	Image imagefallback.Image
}

// ConfigReloadedMsg applies new timings and theme while running.
type ConfigReloadedMsg struct {
	Panel panel.Config
	Theme string
}

type startDoneMsg struct{}

type refreshAllDoneMsg struct{ ran bool }

type cardState int

const (
	cardIdle cardState = iota
	cardLoading
	cardShown
	cardFailed
)

type card struct {
	def     tile.Definition
	state   cardState
	view    panel.View
	failure panel.Failure
	// gen increments on every body change so late image lookups for an
	// older body are dropped.
	gen   int
	image *imagefallback.Image
}

// Deps are the collaborators of the board.
type Deps struct {
	Panel    *panel.Panel
	Resolver *imagefallback.Resolver // optional
	Copier   clipboard.Copier
	Prefs    kvstore.KV // optional; persists the theme
	Theme    theme.Theme
	Log      zerolog.Logger
}

// Model is the bubbletea model of the board.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	passes *passGate
	deps   Deps
	keys   KeyMap
	theme  theme.Theme
	styles theme.Styles

	cards []card
	index map[string]int
	focus int

	width  int
	height int
	status string
	busy   bool
}

// New creates a board over the panel's tiles.
func New(ctx context.Context, deps Deps) Model {
	if deps.Copier == nil {
		deps.Copier = clipboard.New()
	}
	if deps.Theme.Name == "" {
		deps.Theme = theme.FromName(theme.NameAuto)
	}
	defs := deps.Panel.Definitions()
	ctx, cancel := context.WithCancel(ctx)
	m := Model{
		ctx:    ctx,
		cancel: cancel,
		passes: &passGate{},
		deps:   deps,
		keys:   DefaultKeyMap(),
		theme:  deps.Theme,
		styles: theme.NewStyles(deps.Theme),
		cards:  make([]card, len(defs)),
		index:  make(map[string]int, len(defs)),
		width:  80,
	}
	for i, d := range defs {
		m.cards[i] = card{def: d}
		m.index[d.ID] = i
	}
	return m
}

// Init starts the initial cache-first pass.
func (m Model) Init() tea.Cmd {
	p := m.deps.Panel
	ctx := m.ctx
	return m.track(func() tea.Msg {
		p.Start(ctx)
		return startDoneMsg{}
	})
}

// Stop cancels the board's context and waits for running panel commands.
// Commands that had not started yet never run. Quitting cancels too, so
// work in flight ends with the UI.
func (m Model) Stop() {
	m.cancel()
	m.passes.close()
}

// track wraps a panel command so Stop can wait for it.
func (m Model) track(fn func() tea.Msg) tea.Cmd {
	gate := m.passes
	return func() tea.Msg {
		if !gate.enter() {
			return nil
		}
		defer gate.leave()
		return fn()
	}
}

// passGate counts running panel commands. Once closed it admits no more,
// so Add never races Wait.
type passGate struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (g *passGate) enter() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.wg.Add(1)
	return true
}

func (g *passGate) leave() { g.wg.Done() }

func (g *passGate) close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.wg.Wait()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TileLoadingMsg:
		if c := m.card(msg.ID); c != nil {
			c.state = cardLoading
			c.gen++
			c.image = nil
		}
		return m, nil

	case TileShownMsg:
		c := m.card(msg.ID)
		if c == nil {
			return m, nil
		}
		c.state = cardShown
		c.view = msg.View
		c.failure = panel.Failure{}
		c.gen++
		c.image = nil
		return m, m.resolveImage(c)

	case TileFailedMsg:
		if c := m.card(msg.ID); c != nil {
			c.state = cardFailed
			c.failure = msg.Failure
			c.gen++
			c.image = nil
		}
		return m, nil

	case ImageResolvedMsg:
		if c := m.card(msg.ID); c != nil && c.gen == msg.Gen && c.state == cardShown {
			img := msg.Image
			c.image = &img
		}
		return m, nil

	case StatusMsg:
		m.status = msg.Text
		return m, nil

	case refreshAllDoneMsg:
		m.busy = false
		return m, nil

	case startDoneMsg:
		return m, nil

	case ConfigReloadedMsg:
		m.deps.Panel.Controller().SetConfig(msg.Panel)
		if msg.Theme != "" && msg.Theme != m.theme.Name {
			m.setTheme(theme.FromName(msg.Theme))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.deps.Panel
	ctx := m.ctx

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Left):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.Up):
		m.moveFocus(-m.columns())
	case key.Matches(msg, m.keys.Down):
		m.moveFocus(m.columns())

	case key.Matches(msg, m.keys.Refresh):
		if c := m.focused(); c != nil {
			id := c.def.ID
			return m, m.track(func() tea.Msg {
				p.Refresh(ctx, id)
				return nil
			})
		}

	case key.Matches(msg, m.keys.RefreshAll):
		if m.busy || p.Busy() {
			return m, nil
		}
		m.busy = true
		return m, m.track(func() tea.Msg {
			return refreshAllDoneMsg{ran: p.RefreshAll(ctx)}
		})

	case key.Matches(msg, m.keys.Retry):
		if c := m.focused(); c != nil && c.state == cardFailed && c.failure.Retry != nil {
			retry := c.failure.Retry
			return m, m.track(func() tea.Msg {
				retry()
				return nil
			})
		}

	case key.Matches(msg, m.keys.Copy):
		if c := m.focused(); c != nil && c.state == cardShown {
			text := c.view.Result.Text
			copier := m.deps.Copier
			return m, m.track(func() tea.Msg {
				p.ReportCopy(copier.Copy(ctx, text))
				return nil
			})
		}

	case key.Matches(msg, m.keys.ClearCache):
		return m, m.track(func() tea.Msg {
			p.ClearCache(ctx)
			return nil
		})

	case key.Matches(msg, m.keys.Theme):
		next := theme.Toggle(m.theme)
		m.setTheme(next)
		if m.deps.Prefs != nil && (next.Name == theme.NameLight || next.Name == theme.NameDark) {
			if err := tilecache.SaveTheme(ctx, m.deps.Prefs, next.Name); err != nil {
				m.deps.Log.Warn().Err(err).Msg("saving theme failed")
			}
		}
	}
	return m, nil
}

func (m *Model) setTheme(t theme.Theme) {
	m.theme = t
	m.styles = theme.NewStyles(t)
}

func (m *Model) card(id string) *card {
	i, ok := m.index[id]
	if !ok {
		return nil
	}
	return &m.cards[i]
}

func (m *Model) focused() *card {
	if m.focus < 0 || m.focus >= len(m.cards) {
		return nil
	}
	return &m.cards[m.focus]
}

func (m *Model) moveFocus(delta int) {
	next := m.focus + delta
	if next < 0 || next >= len(m.cards) {
		return
	}
	m.focus = next
}

func (m Model) columns() int {
	return layout.Columns(m.width, len(m.cards))
}

func (m Model) resolveImage(c *card) tea.Cmd {
	r := m.deps.Resolver
	if r == nil || !c.view.Result.HasImage() {
		return nil
	}
	ctx, id, gen, url := m.ctx, c.def.ID, c.gen, c.view.Result.Image
	return func() tea.Msg {
		return ImageResolvedMsg{ID: id, Gen: gen, Image: r.Resolve(ctx, id, url)}
	}
}

// Focused returns the id of the focused tile.
func (m Model) Focused() string {
	if c := m.focused(); c != nil {
		return c.def.ID
	}
	return ""
}

// Status returns the status line text.
func (m Model) Status() string { return m.status }

// ThemeName returns the active theme name.
func (m Model) ThemeName() string { return m.theme.Name }
