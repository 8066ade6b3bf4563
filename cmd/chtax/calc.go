package main

import (
	"github.com/rpgo/swiss-tax-calculator/internal/config"
	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/spf13/cobra"
)

func newCalcCmd(a *app) *cobra.Command {
	var withSavings bool

	cmd := &cobra.Command{
		Use:   "calc <profiles.yaml>",
		Short: "Calculate income tax for the profiles in a file",
		Long: `Calculate federal, cantonal, municipal and church tax for every profile
in a YAML profile file.

Example profile file:

  tax_year: 2025
  profiles:
    - name: anna
      gross_income: 100000
      age: 40
      employed: true
      marital_status: single
      commune: St. Gallen
      church_affiliation: protestant
      expenses:
        pillar_3a_contribution: 7258

A profile that fails is reported with its error; the command then exits
non-zero after the report is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			report, err := a.calculateReport(cmd.Context(), []*domain.ProfileSet{set}, withSavings)
			if err != nil {
				return err
			}
			if err := a.render(report); err != nil {
				return err
			}
			return failedProfiles(report)
		},
	}
	cmd.Flags().BoolVar(&withSavings, "savings", false, "Add deduction savings recommendations to the report")
	return cmd
}
