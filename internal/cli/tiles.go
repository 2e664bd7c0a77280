package cli

import (
	"github.com/spf13/cobra"

	"github.com/theirongolddev/critters/internal/output"
)

type tileInfo struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

func newTilesCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tiles",
		Short: "List the tiles in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), g.cfg, "stderr")
			if err != nil {
				return err
			}
			defer a.Close()

			formatter := output.New(output.WithFormat(f), output.WithWriter(cmd.OutOrStdout()))
			if formatter.IsStructured() {
				infos := make([]tileInfo, 0, len(a.defs))
				for _, d := range a.defs {
					infos = append(infos, tileInfo{ID: d.ID, Title: d.Title})
				}
				return formatter.Data(infos)
			}

			tbl := output.NewTable(cmd.OutOrStdout(), "ID", "TITLE")
			for _, d := range a.defs {
				tbl.AddRow(d.ID, d.Title)
			}
			tbl.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or yaml")
	return cmd
}
