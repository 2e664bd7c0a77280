// Package cli implements the critters command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/critters/internal/config"
	"github.com/theirongolddev/critters/internal/output"
)

// Build information - set via ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// globals holds the persistent flags and the loaded config for one
// command tree.
type globals struct {
	cfgFile     string
	logLevel    string
	cacheBack   string
	watchConfig bool

	cfg *config.Config
}

func (g *globals) configPath() string {
	if g.cfgFile != "" {
		return g.cfgFile
	}
	return config.DefaultPath()
}

// NewRootCmd builds the critters command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "critters",
		Short: "A panel of animal facts and pictures",
		Long: `critters shows a grid of animal tiles fetched from public APIs.

Tiles are cached locally and shown instantly on the next start, then
refreshed in the background. Stale tiles refresh in the foreground.

Quick Start:
  critters                        # Open the interactive panel
  critters snapshot -o panel.html # Render the panel to a static page
  critters fetch koala            # Fetch one tile now
  critters cache list             # Inspect the tile cache`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsConfig(cmd) {
				return nil
			}
			cfg, err := config.LoadOrDefault(g.configPath())
			if err != nil {
				return output.NewCLIError("loading config").
					WithCause(err.Error()).
					WithHint("check " + g.configPath() + " or run 'critters config init' for a fresh one")
			}
			if g.logLevel != "" {
				cfg.Log.Level = g.logLevel
			}
			if g.cacheBack != "" {
				cfg.Cache.Backend = g.cacheBack
			}
			g.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, g)
		},
	}

	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, off")
	root.PersistentFlags().StringVar(&g.cacheBack, "cache", "", "cache backend override: file, memory or redis")
	root.Flags().BoolVar(&g.watchConfig, "watch-config", false, "reload panel timings and theme when the config file changes")

	root.AddCommand(
		newSnapshotCmd(g),
		newFetchCmd(g),
		newTilesCmd(g),
		newCacheCmd(g),
		newConfigCmd(g),
		newVersionCmd(),
	)
	return root
}

// skipsConfig reports commands that must work with a broken config file.
func skipsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "path", "init":
		return true
	}
	return false
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		output.PrintErrorToStderr(err)
		return err
	}
	return nil
}
