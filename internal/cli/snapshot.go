package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/critters/internal/markup"
	"github.com/theirongolddev/critters/internal/output"
	"github.com/theirongolddev/critters/internal/util"
)

func newSnapshotCmd(g *globals) *cobra.Command {
	var (
		outPath  string
		title    string
		noCache  bool
		noImages bool
		timeout  string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Load every tile and write the panel as a static HTML page",
		Long: `Load every tile the way the interactive panel does (cache first, with
background and foreground refreshes), wait for the refreshes to settle, then
write the panel as a standalone HTML page.

Examples:
  critters snapshot -o panel.html
  critters snapshot --no-cache -o - > panel.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout != "" {
				d, err := util.ParseDuration(timeout)
				if err != nil {
					return fmt.Errorf("invalid --timeout: %w", err)
				}
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}

			a, err := newApp(ctx, g.cfg, "stderr")
			if err != nil {
				return err
			}
			defer a.Close()

			snap := markup.NewSnapshot(a.defs)
			p := a.newPanel(snap, snap.SetStatus)
			if noCache {
				p.Migrate(ctx)
				p.RefreshAll(ctx)
			} else {
				p.Start(ctx)
			}
			p.Controller().Wait()
			if !noImages {
				snap.ApplyImages(ctx, a.resolver())
			}

			w := cmd.OutOrStdout()
			if outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}
			if err := snap.WriteHTML(w, title, time.Now()); err != nil {
				return err
			}
			if outPath != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%s)\n", outPath, output.CountStr(len(a.defs), "tile", "tiles"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "critters.html", "output file, or - for stdout")
	cmd.Flags().StringVar(&title, "title", "Animal Panel", "page title")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "fetch every tile live instead of starting from the cache")
	cmd.Flags().BoolVar(&noImages, "no-images", false, "skip checking that images load")
	cmd.Flags().StringVar(&timeout, "timeout", "", "give up after this long (e.g. 30s)")
	return cmd
}
