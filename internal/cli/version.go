package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/critters/internal/output"
)

type versionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Go      string `json:"go" yaml:"go"`
	OS      string `json:"os" yaml:"os"`
	Arch    string `json:"arch" yaml:"arch"`
}

func newVersionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			info := versionInfo{
				Version: Version,
				Commit:  Commit,
				Date:    Date,
				Go:      runtime.Version(),
				OS:      runtime.GOOS,
				Arch:    runtime.GOARCH,
			}
			formatter := output.New(output.WithFormat(f), output.WithWriter(cmd.OutOrStdout()))
			if formatter.IsStructured() {
				return formatter.Data(info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "critters %s (commit %s, built %s, %s %s/%s)\n",
				info.Version, info.Commit, info.Date, info.Go, info.OS, info.Arch)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or yaml")
	return cmd
}
