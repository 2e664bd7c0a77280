package board

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/theirongolddev/critters/internal/imagefallback"
	"github.com/theirongolddev/critters/internal/tui/components"
	"github.com/theirongolddev/critters/internal/tui/layout"
)

const (
	appTitle     = "Animal Panel"
	maxTextLines = 6
	retryHint    = "[enter] retry"
)

// View implements tea.Model.
func (m Model) View() string {
	cols := m.columns()
	cardWidth := layout.CardWidth(m.width, cols)

	var rows []string
	for _, row := range layout.Rows(len(m.cards), cols) {
		rendered := make([]string, 0, len(row))
		for _, i := range row {
			rendered = append(rendered, m.renderCard(i, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}

	sections := []string{
		m.styles.Header.Render(appTitle),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	}
	if m.status != "" {
		sections = append(sections, m.styles.Status.Render(m.status))
	}
	sections = append(sections, m.helpView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) helpView() string {
	h := help.New()
	h.Width = m.width
	h.Styles.ShortKey = m.styles.Help.Bold(true)
	h.Styles.ShortDesc = m.styles.Help
	h.Styles.ShortSeparator = m.styles.Help
	return h.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) renderCard(i, width int) string {
	c := m.cards[i]
	style := m.styles.Card
	if i == m.focus {
		style = m.styles.FocusedCard
	}
	inner := width - style.GetHorizontalFrameSize()
	if inner < 8 {
		inner = 8
	}

	lines := []string{m.styles.Title.Render(layout.Truncate(c.def.Title, inner))}

	switch c.state {
	case cardIdle, cardLoading:
		lines = append(lines, components.LoadingState(m.theme, inner))
	case cardFailed:
		lines = append(lines, components.ErrorState(m.theme, sanitize(c.failure.Message), retryHint, inner))
	case cardShown:
		if badges := m.badges(c); badges != "" {
			lines = append(lines, badges)
		}
		if img := m.imageLine(c, inner); img != "" {
			lines = append(lines, img)
		}
		lines = append(lines, m.styles.Text.Render(wrapText(sanitize(c.view.Result.Text), inner, maxTextLines)))
	}

	return style.Width(inner + style.GetHorizontalPadding()).Render(strings.Join(lines, "\n"))
}

func (m Model) badges(c card) string {
	var parts []string
	if c.view.Cached {
		parts = append(parts, components.RenderCachedBadge(m.theme, c.view.Age))
	}
	if c.view.Stale {
		parts = append(parts, components.RenderStaleBadge(m.theme))
	}
	return strings.Join(parts, " ")
}

func (m Model) imageLine(c card, width int) string {
	if !c.view.Result.HasImage() {
		return ""
	}
	if c.image == nil {
		return m.styles.Image.Render(layout.Truncate(sanitize(c.view.Result.Image), width))
	}
	switch c.image.State {
	case imagefallback.StateOriginal:
		return m.styles.Image.Render(layout.Truncate(sanitize(c.image.Src), width))
	case imagefallback.StatePlaceholder:
		return m.styles.Dim.Render(layout.Truncate("placeholder "+c.image.Src, width))
	case imagefallback.StateUnavailable:
		return m.styles.Dim.Render(imagefallback.Unavailable)
	}
	return ""
}

// sanitize removes escape sequences and control characters so remote text
// cannot drive the terminal.
func sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// wrapText wraps s to width and keeps at most maxLines lines.
func wrapText(s string, width, maxLines int) string {
	out := wrap.String(wordwrap.String(s, width), width)
	lines := strings.Split(out, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = layout.Truncate(lines[maxLines-1]+"…", width)
	}
	return strings.Join(lines, "\n")
}
