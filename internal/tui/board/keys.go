package board

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the board keybindings.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Refresh    key.Binding
	RefreshAll key.Binding
	Retry      key.Binding
	Copy       key.Binding
	ClearCache key.Binding
	Theme      key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		RefreshAll: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh all")),
		Retry:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "retry")),
		Copy:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy fact")),
		ClearCache: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear cache")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp lists the bindings shown in the help bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.RefreshAll, k.Retry, k.Copy, k.ClearCache, k.Theme, k.Quit}
}
