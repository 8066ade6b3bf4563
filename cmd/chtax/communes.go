package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCommunesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "communes [filter]",
		Short: "List communes and their tax multipliers",
		Long: `List the communes of the loaded reference tables with the cantonal,
municipal and church multipliers in percent of the cantonal base tax.
An optional filter keeps communes whose name contains it (case-insensitive).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = strings.ToLower(args[0])
			}

			w := a.out
			fmt.Fprintf(w, "Communes of canton %s, tax year %d\n\n", a.reference.Canton(), a.reference.TaxYear())
			fmt.Fprintf(w, "%-24s %8s %8s %8s %8s %8s\n", "Commune", "Canton", "Commune", "Prot.", "R.Cath.", "C.Cath.")
			fmt.Fprintln(w, strings.Repeat("-", 68))

			shown := 0
			for _, row := range a.reference.Multipliers().Rows() {
				if filter != "" && !strings.Contains(strings.ToLower(row.Commune), filter) {
					continue
				}
				fmt.Fprintf(w, "%-24s %8s %8s %8s %8s %8s\n", row.Commune,
					row.CantonMultiplierPercent.String(), row.CommuneMultiplierPercent.String(),
					row.ChurchProtestantPercent.String(), row.ChurchRomanCatholicPercent.String(),
					row.ChurchChristianCatholicPercent.String())
				shown++
			}
			if shown == 0 && filter != "" {
				return fmt.Errorf("no commune matches %q", args[0])
			}
			return nil
		},
	}
}
