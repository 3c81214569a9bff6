package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:     "generate [inputs...]",
		Aliases: []string{"gen"},
		Short:   "Generate ALTER EXTENSION statements from SQL scripts",
		Long: `Read SQL scripts and emit one ALTER EXTENSION ... ADD statement for every
CREATE AGGREGATE, CAST, FUNCTION, OPERATOR, OPERATOR CLASS, OPERATOR FAMILY
and TYPE found, in source order.

Inputs may be files, directories (searched for files matching --include) or
"-" for standard input. Without inputs, the configured inputs are used, and
failing that standard input. Any other CREATE statement aborts the run and
no output is written.`,
		Example: `  # Upgrade an unpackaged install
  sql2extension generate -e pgmp sql/pgmp.sql > pgmp--unpackaged--1.0.sql

  # All scripts in a directory, written atomically
  sql2extension gen -e pgmp -o pgmp--unpackaged--1.0.sql sql/

  # From a pipe
  cat sql/*.sql | sql2extension generate --extname pgmp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			res, err := cc.Generate(args)
			if err != nil {
				return err
			}
			if !quiet && cc.Cfg.Output != "-" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s to %s\n", summary(res), cc.Cfg.Output)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Don't print a summary when writing to a file")

	return cmd
}
