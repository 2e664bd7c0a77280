package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/critters/internal/output"
	"github.com/theirongolddev/critters/internal/tui/theme"
)

type fetchResult struct {
	ID    string             `json:"id" yaml:"id"`
	Title string             `json:"title" yaml:"title"`
	Image string             `json:"image,omitempty" yaml:"image,omitempty"`
	Text  string             `json:"text" yaml:"text"`
	Diff  *output.DiffResult `json:"diff,omitempty" yaml:"diff,omitempty"`
}

func newFetchCmd(g *globals) *cobra.Command {
	var (
		showDiff bool
		format   string
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <tile-id>",
		Short: "Fetch one tile now and update its cache entry",
		Long: `Fetch one tile live, bypassing the cache, and store the result.

Examples:
  critters fetch koala
  critters fetch catfact --diff      # Compare with the cached fact
  critters fetch fox --format json`,
		Args: cobra.ExactArgs(1),
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

			def, err := a.lookup(args[0])
			if err != nil {
				return err
			}

			var previous string
			var hadPrevious bool
			if showDiff {
				if e, ok := a.store.Read(ctx, def.ID); ok {
					previous, hadPrevious = e.Data.Text, true
				}
			}

			res := def.Fetch(ctx)
			if res.Failed() {
				return output.NewCLIError("fetching " + def.ID).WithCause(res.Err)
			}
			a.store.Write(ctx, def.ID, res)

			out := fetchResult{ID: def.ID, Title: def.Title, Image: res.Image, Text: res.Text}
			if hadPrevious {
				out.Diff = output.ComputeDiff(previous, res.Text)
			}

			w := cmd.OutOrStdout()
			formatter := output.New(output.WithFormat(f), output.WithWriter(w))
			if formatter.IsStructured() {
				return formatter.Data(out)
			}

			if output.IsTerminal(w) && !plain {
				fmt.Fprint(w, output.RenderMarkdown(output.FactMarkdown(def.Title, res.Text, res.Image), output.Width(w)))
			} else {
				formatter.Println(def.Title)
				formatter.Println(res.Text)
				if res.Image != "" {
					formatter.Println(res.Image)
				}
			}

			if showDiff {
				switch {
				case !hadPrevious:
					formatter.Println("No cached text to compare.")
				case !out.Diff.Changed:
					formatter.Println("Unchanged since the cached copy.")
				default:
					useColor := output.IsTerminal(w) && !theme.NoColorEnabled()
					formatter.Printf("Changed (%.0f%% similar):\n%s\n", out.Diff.Similarity*100, out.Diff.Inline(useColor))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "compare the new text with the cached one")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or yaml")
	cmd.Flags().BoolVar(&plain, "plain", false, "print plain text even on a terminal")
	return cmd
}
