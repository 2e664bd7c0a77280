// Package components provides the small rendering blocks of a tile card.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/critters/internal/tui/layout"
	"github.com/theirongolddev/critters/internal/tui/theme"
)

type StateKind int

const (
	StateEmpty StateKind = iota
	StateLoading
	StateError
)

type StateOptions struct {
	Kind    StateKind
	Message string
	Hint    string
	Width   int
}

// RenderState renders a one or two line placeholder for a card body.
func RenderState(t theme.Theme, opts StateOptions) string {
	lineStyle := lipgloss.NewStyle().Foreground(t.Overlay).Italic(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.Overlay)

	message := strings.TrimSpace(opts.Message)
	icon := "·"
	switch opts.Kind {
	case StateLoading:
		lineStyle = lipgloss.NewStyle().Foreground(t.Subtext).Italic(true)
		icon = "…"
		if message == "" {
			message = "Loading…"
		}
	case StateError:
		lineStyle = lipgloss.NewStyle().Foreground(t.Error)
		icon = "!"
		if message == "" {
			message = "Something went wrong"
		}
	default:
		if message == "" {
			message = "Nothing to show"
		}
	}

	prefix := icon + " "
	if opts.Width > 0 {
		message = layout.Truncate(message, opts.Width-lipgloss.Width(prefix))
	}
	lines := []string{lineStyle.Render(prefix + message)}

	if hint := strings.TrimSpace(opts.Hint); hint != "" {
		if opts.Width > 0 {
			hint = layout.Truncate(hint, opts.Width)
		}
		lines = append(lines, hintStyle.Render(hint))
	}
	return strings.Join(lines, "\n")
}

func LoadingState(t theme.Theme, width int) string {
	return RenderState(t, StateOptions{Kind: StateLoading, Width: width})
}

// ErrorState renders a failure line and the retry hint.
func ErrorState(t theme.Theme, message, hint string, width int) string {
	return RenderState(t, StateOptions{Kind: StateError, Message: "Error: " + message, Hint: hint, Width: width})
}
