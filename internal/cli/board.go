package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/critters/internal/clipboard"
	"github.com/theirongolddev/critters/internal/config"
	"github.com/theirongolddev/critters/internal/logging"
	"github.com/theirongolddev/critters/internal/output"
	"github.com/theirongolddev/critters/internal/tilecache"
	"github.com/theirongolddev/critters/internal/tui/board"
	"github.com/theirongolddev/critters/internal/tui/theme"
)

func runBoard(cmd *cobra.Command, g *globals) error {
	if !output.IsTerminal(cmd.OutOrStdout()) || !output.IsTerminalReader(cmd.InOrStdin()) {
		return output.NewCLIError("the panel needs an interactive terminal").
			WithHint("use 'critters snapshot -o panel.html' for a headless render")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, g.cfg, logging.DefaultFile())
	if err != nil {
		return err
	}
	defer a.Close()

	bridge := board.NewBridge()
	p := a.newPanel(bridge, bridge.SetStatus)

	deps := board.Deps{
		Panel:    p,
		Resolver: a.resolver(),
		Copier:   clipboard.New(),
		Prefs:    a.kv,
		Theme:    pickTheme(cmd, g.cfg, a),
		Log:      a.log,
	}

	var updates chan tea.Msg
	if g.watchConfig {
		updates = make(chan tea.Msg, 1)
		stop, err := config.Watch(g.configPath(), func(c *config.Config) {
			timings, err := c.PanelTimings()
			if err != nil {
				return
			}
			select {
			case updates <- board.ConfigReloadedMsg{Panel: timings, Theme: c.UI.Theme}:
			default:
				a.log.Debug().Msg("config reload dropped, previous one pending")
			}
		}, func(err error) {
			a.log.Warn().Err(err).Msg("config watch")
		})
		if err != nil {
			a.log.Warn().Err(err).Msg("config watch unavailable")
		} else {
			defer stop()
		}
	}

	a.log.Info().Int("tiles", len(a.defs)).Str("cache", g.cfg.Cache.Backend).Msg("starting panel")
	err = board.Run(ctx, deps, bridge, updates)
	p.Controller().Wait()
	return err
}

// pickTheme prefers an explicit config theme, then the saved toggle, then
// terminal detection.
func pickTheme(cmd *cobra.Command, cfg *config.Config, a *app) theme.Theme {
	name := strings.ToLower(strings.TrimSpace(cfg.UI.Theme))
	if name == "" || name == theme.NameAuto {
		if saved, ok := tilecache.LoadTheme(cmd.Context(), a.kv); ok {
			name = saved
		}
	}
	return theme.FromName(name)
}
