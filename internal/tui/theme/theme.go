// Package theme holds the color palettes and prebuilt styles of the board.
package theme

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Names accepted by FromName besides aliases.
const (
	NameDark  = "dark"
	NameLight = "light"
	NameAuto  = "auto"
	NamePlain = "plain"
)

// Theme is a color palette.
type Theme struct {
	Name string

	Base     lipgloss.Color // background
	Surface0 lipgloss.Color
	Surface1 lipgloss.Color

	Text    lipgloss.Color
	Subtext lipgloss.Color
	Overlay lipgloss.Color // dimmed text

	Red    lipgloss.Color
	Peach  lipgloss.Color
	Yellow lipgloss.Color
	Green  lipgloss.Color
	Blue   lipgloss.Color
	Mauve  lipgloss.Color

	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

// Dark is Catppuccin Mocha.
var Dark = Theme{
	Name:     NameDark,
	Base:     lipgloss.Color("#1e1e2e"),
	Surface0: lipgloss.Color("#313244"),
	Surface1: lipgloss.Color("#45475a"),
	Text:     lipgloss.Color("#cdd6f4"),
	Subtext:  lipgloss.Color("#a6adc8"),
	Overlay:  lipgloss.Color("#6c7086"),
	Red:      lipgloss.Color("#f38ba8"),
	Peach:    lipgloss.Color("#fab387"),
	Yellow:   lipgloss.Color("#f9e2af"),
	Green:    lipgloss.Color("#a6e3a1"),
	Blue:     lipgloss.Color("#89b4fa"),
	Mauve:    lipgloss.Color("#cba6f7"),
	Primary:  lipgloss.Color("#89b4fa"),
	Success:  lipgloss.Color("#a6e3a1"),
	Warning:  lipgloss.Color("#f9e2af"),
	Error:    lipgloss.Color("#f38ba8"),
	Info:     lipgloss.Color("#89dceb"),
}

// Light is Catppuccin Latte.
var Light = Theme{
	Name:     NameLight,
	Base:     lipgloss.Color("#eff1f5"),
	Surface0: lipgloss.Color("#ccd0da"),
	Surface1: lipgloss.Color("#bcc0cc"),
	Text:     lipgloss.Color("#4c4f69"),
	Subtext:  lipgloss.Color("#6c6f85"),
	Overlay:  lipgloss.Color("#7c7f93"),
	Red:      lipgloss.Color("#d20f39"),
	Peach:    lipgloss.Color("#fe640b"),
	Yellow:   lipgloss.Color("#df8e1d"),
	Green:    lipgloss.Color("#40a02b"),
	Blue:     lipgloss.Color("#1e66f5"),
	Mauve:    lipgloss.Color("#8839ef"),
	Primary:  lipgloss.Color("#1e66f5"),
	Success:  lipgloss.Color("#40a02b"),
	Warning:  lipgloss.Color("#df8e1d"),
	Error:    lipgloss.Color("#d20f39"),
	Info:     lipgloss.Color("#04a5e5"),
}

// Plain uses terminal defaults everywhere. Empty colors mean no color.
var Plain = Theme{Name: NamePlain}

// NoColorEnabled reports whether colors are disabled. CRITTERS_NO_COLOR
// forces either way; otherwise the presence of NO_COLOR disables them.
func NoColorEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("CRITTERS_NO_COLOR"))) {
	case "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	}
	_, set := os.LookupEnv("NO_COLOR")
	return set
}

// FromName returns a theme by name. Unknown names auto-detect.
func FromName(name string) Theme {
	if NoColorEnabled() {
		return Plain
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NamePlain, "none", "no-color":
		return Plain
	case NameLight, "latte":
		return Light
	case NameDark, "mocha":
		return Dark
	default:
		return autoTheme()
	}
}

// Toggle returns the opposite of t. Plain stays plain.
func Toggle(t Theme) Theme {
	switch t.Name {
	case NameLight:
		return Dark
	case NameDark:
		return Light
	default:
		return t
	}
}

// detectDarkBackground is a variable for tests.
var detectDarkBackground = func() bool {
	return termenv.NewOutput(os.Stdout).HasDarkBackground()
}

var (
	cachedAutoTheme Theme
	autoThemeOnce   sync.Once
)

func resetAutoTheme() {
	autoThemeOnce = sync.Once{}
	cachedAutoTheme = Theme{}
}

func autoTheme() Theme {
	autoThemeOnce.Do(func() {
		cachedAutoTheme = Dark
		defer func() {
			if recover() != nil {
				cachedAutoTheme = Dark
			}
		}()
		if !detectDarkBackground() {
			cachedAutoTheme = Light
		}
	})
	return cachedAutoTheme
}

// Styles are the prebuilt styles of the board.
type Styles struct {
	Card        lipgloss.Style
	FocusedCard lipgloss.Style
	Title       lipgloss.Style
	Text        lipgloss.Style
	Dim         lipgloss.Style
	Image       lipgloss.Style
	Cached      lipgloss.Style
	Stale       lipgloss.Style
	Error       lipgloss.Style
	Status      lipgloss.Style
	Help        lipgloss.Style
	Header      lipgloss.Style
}

// NewStyles builds Styles for t.
func NewStyles(t Theme) Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Surface1).
		Padding(0, 1)

	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	return Styles{
		Card:        card,
		FocusedCard: card.BorderForeground(t.Primary),
		Title:       lipgloss.NewStyle().Foreground(t.Mauve).Bold(true),
		Text:        lipgloss.NewStyle().Foreground(t.Text),
		Dim:         lipgloss.NewStyle().Foreground(t.Overlay),
		Image:       lipgloss.NewStyle().Foreground(t.Blue).Underline(true),
		Cached:      badge.Background(t.Surface0).Foreground(t.Info),
		Stale:       badge.Background(t.Yellow).Foreground(t.Base),
		Error:       lipgloss.NewStyle().Foreground(t.Error),
		Status:      lipgloss.NewStyle().Foreground(t.Green).Italic(true),
		Help:        lipgloss.NewStyle().Foreground(t.Overlay),
		Header:      lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
	}
}
