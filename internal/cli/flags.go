package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wadcompat/internal/engine"
	"github.com/roach88/wadcompat/internal/ir"
)

// FlagInfo describes one entry of the flag table.
type FlagInfo struct {
	Index   int           `json:"index"`
	Flag    string        `json:"flag"`
	Name    ir.FlagName   `json:"name"`
	Aliases []ir.FlagName `json:"aliases"`
}

// NewFlagsCommand creates the flags command.
func NewFlagsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "flags",
		Short: "List the known compatibility flags",
		Long: `List every compatibility flag a section may name, in table order, with
the legacy names that also resolve to it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlags(rootOpts.formatter(cmd))
		},
	}
}

// flagTable joins the known flags with the alias table.
func flagTable() []FlagInfo {
	names := engine.KnownFlags()
	out := make([]FlagInfo, len(names))
	for i, suffix := range names {
		out[i] = FlagInfo{
			Index:   i,
			Flag:    suffix,
			Name:    ir.FlagPrefix + suffix,
			Aliases: []ir.FlagName{},
		}
	}
	for _, a := range engine.Aliases() {
		out[a.Flag].Aliases = append(out[a.Flag].Aliases, a.Name)
	}
	return out
}

func runFlags(formatter *OutputFormatter) error {
	table := flagTable()
	if formatter.Format == "json" {
		return formatter.Success(table)
	}

	for _, f := range table {
		if len(f.Aliases) == 0 {
			fmt.Fprintf(formatter.Writer, "%2d  %s\n", f.Index, f.Name)
			continue
		}
		fmt.Fprintf(formatter.Writer, "%2d  %-18s (also %s)\n", f.Index, f.Name, strings.Join(f.Aliases, ", "))
	}
	return nil
}
