package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pgmp/sql2extension/pkg/ddl"
)

// kindEntry is one row of the kinds listing.
type kindEntry struct {
	Statement string `yaml:"statement"`
	EmittedAs string `yaml:"emitted_as"`
}

func kindEntries() []kindEntry {
	kinds := ddl.Kinds()
	entries := make([]kindEntry, len(kinds))
	for i, k := range kinds {
		entries[i] = kindEntry{
			Statement: "CREATE " + k.String(),
			EmittedAs: k.String() + " " + k.IdentityForm(),
		}
	}
	return entries
}

// NewKindsCommand creates the kinds command.
func NewKindsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the CREATE statement kinds that can be converted",
		Long: `List every CREATE statement kind the generator understands, with the
object identity written after ALTER EXTENSION ... ADD. Any other kind found
in the input aborts generation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := kindEntries()

			switch format {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(entries); err != nil {
					return fmt.Errorf("failed to encode kinds: %w", err)
				}
				return enc.Close()
			case "table":
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"Kind", "Emitted as"})
				for _, e := range entries {
					t.AppendRow(table.Row{e.Statement, e.EmittedAs})
				}
				t.Render()
				return nil
			default:
				return fmt.Errorf("unknown format %q (want table or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table|yaml)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
