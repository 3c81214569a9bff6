package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo identifies a build. Commit and Date are stamped with -ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display sql2extension version and build information.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			if short {
				_, _ = fmt.Fprintln(out, info.Version)
				return
			}
			_, _ = fmt.Fprintf(out, "sql2extension v%s\n", info.Version)
			_, _ = fmt.Fprintf(out, "  commit: %s\n", info.Commit)
			_, _ = fmt.Fprintf(out, "  built:  %s\n", info.Date)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print the version number only")

	return cmd
}
