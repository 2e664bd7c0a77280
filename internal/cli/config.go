package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/critters/internal/config"
)

func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write a default config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.CreateDefault(g.configPath())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, key := range g.cfg.Unknown {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: unknown config key %s\n", key)
				}
				return config.Print(g.cfg, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path := g.configPath()
				fmt.Fprintln(cmd.OutOrStdout(), path)
				if _, err := os.Stat(path); os.IsNotExist(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), "(not created yet; run 'critters config init')")
				}
				return nil
			},
		},
	)
	return cmd
}
