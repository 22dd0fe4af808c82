package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newGrammarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grammars",
		Short: "List supported vendor grammars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFRAMING\tTOOL CALLS")
			for _, name := range grammarNames() {
				g := grammars[name]()
				fmt.Fprintf(w, "%s\t%s\t%s\n", g.Name, g.Framing, g.ToolCalls)
			}
			return w.Flush()
		},
	}
}
