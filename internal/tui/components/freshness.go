package components

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/critters/internal/tui/theme"
)

// RenderCachedBadge renders the "Cached" marker, with the entry age when
// known.
func RenderCachedBadge(t theme.Theme, age time.Duration) string {
	label := "Cached"
	if age > 0 {
		label += " " + FormatAge(age)
	}
	return lipgloss.NewStyle().
		Background(t.Surface0).
		Foreground(t.Info).
		Padding(0, 1).
		Render(label)
}

// RenderStaleBadge renders the "Stale" warning shown while a foreground
// refresh is running.
func RenderStaleBadge(t theme.Theme) string {
	return lipgloss.NewStyle().
		Background(t.Yellow).
		Foreground(t.Base).
		Bold(true).
		Padding(0, 1).
		Render("Stale")
}

// FormatAge returns a compact age such as "42s" or "3m". An unbounded age
// reads "legacy".
func FormatAge(d time.Duration) string {
	switch {
	case d == time.Duration(math.MaxInt64):
		return "legacy"
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
