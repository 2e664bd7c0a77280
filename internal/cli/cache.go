package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/critters/internal/output"
	"github.com/theirongolddev/critters/internal/panel"
	"github.com/theirongolddev/critters/internal/tile"
	"github.com/theirongolddev/critters/internal/tilecache"
	"github.com/theirongolddev/critters/internal/tui/components"
	"github.com/theirongolddev/critters/internal/tui/layout"
)

// Cache entry states shown by cache list.
const (
	stateMissing = "missing"
	stateFresh   = "fresh"
	stateStale   = "stale"
	stateLegacy  = "legacy"
)

type cacheRow struct {
	ID       string     `json:"id" yaml:"id"`
	State    string     `json:"state" yaml:"state"`
	Age      string     `json:"age,omitempty" yaml:"age,omitempty"`
	StoredAt *time.Time `json:"stored_at,omitempty" yaml:"stored_at,omitempty"`
	Text     string     `json:"text,omitempty" yaml:"text,omitempty"`
	Image    string     `json:"image,omitempty" yaml:"image,omitempty"`
}

func newCacheRow(l tilecache.Listing, now time.Time, ttl time.Duration) cacheRow {
	row := cacheRow{ID: l.ID, State: stateMissing}
	if !l.Present {
		return row
	}
	row.Text = l.Entry.Data.Text
	row.Image = l.Entry.Data.Image
	switch {
	case l.Legacy:
		row.State = stateLegacy
	case panel.Decide(l.Entry, now, ttl) == panel.ShowCachedThenForegroundRefresh:
		row.State = stateStale
	default:
		row.State = stateFresh
	}
	if !l.Legacy {
		ts := l.Entry.Timestamp.UTC()
		row.StoredAt = &ts
		row.Age = components.FormatAge(l.Age)
	}
	return row
}

func newCacheCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the tile cache",
	}
	cmd.AddCommand(newCacheListCmd(g), newCacheShowCmd(g), newCacheClearCmd(g))
	return cmd
}

func newCacheListCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the cache state of every tile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, g.cfg, "stderr")
			if err != nil {
				return err
			}
			defer a.Close()

			timings, _ := a.cfg.PanelTimings()
			now := a.store.Now()
			listings := a.store.List(ctx, tile.IDs(a.defs))
			rows := make([]cacheRow, 0, len(listings))
			for _, l := range listings {
				rows = append(rows, newCacheRow(l, now, timings.TTL))
			}

			formatter := output.New(output.WithFormat(f), output.WithWriter(cmd.OutOrStdout()))
			if formatter.IsStructured() {
				return formatter.Data(rows)
			}

			tbl := output.NewTable(cmd.OutOrStdout(), "ID", "STATE", "AGE", "TEXT")
			for _, r := range rows {
				age := r.Age
				if age == "" {
					age = "-"
				}
				tbl.AddRow(r.ID, r.State, age, layout.Truncate(r.Text, 48))
			}
			tbl.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or yaml")
	return cmd
}

func newCacheShowCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <tile-id>",
		Short: "Print one cache entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, g.cfg, "stderr")
			if err != nil {
				return err
			}
			defer a.Close()

			id := args[0]
			e, ok := a.store.Read(ctx, id)
			if !ok {
				return output.NewCLIError("no cache entry for " + id).
					WithHint("run 'critters fetch " + id + "' to populate it")
			}
			timings, _ := a.cfg.PanelTimings()
			row := newCacheRow(tilecache.Listing{
				ID:      id,
				Present: true,
				Legacy:  e.Legacy,
				Age:     e.Age(a.store.Now()),
				Entry:   &e,
			}, a.store.Now(), timings.TTL)

			formatter := output.New(output.WithFormat(f), output.WithWriter(cmd.OutOrStdout()))
			if formatter.IsStructured() {
				return formatter.Data(row)
			}
			formatter.Printf("%s (%s", row.ID, row.State)
			if row.StoredAt != nil {
				formatter.Printf(", stored %s, %s old", row.StoredAt.Format(time.RFC3339), row.Age)
			}
			formatter.Println(")")
			formatter.Println(row.Text)
			if row.Image != "" {
				formatter.Println(row.Image)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or yaml")
	return cmd
}

func newCacheClearCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [tile-id...]",
		Short: "Remove cache entries (all tiles when no id is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, g.cfg, "stderr")
			if err != nil {
				return err
			}
			defer a.Close()

			ids := args
			if len(ids) == 0 {
				ids = tile.IDs(a.defs)
			}
			a.store.EvictAll(ctx, ids)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", panel.MsgCacheCleared, output.CountStr(len(ids), "tile", "tiles"))
			return nil
		},
	}
}
