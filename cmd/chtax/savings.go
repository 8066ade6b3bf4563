package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rpgo/swiss-tax-calculator/internal/config"
	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/rpgo/swiss-tax-calculator/internal/output"
	"github.com/spf13/cobra"
)

func newSavingsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "savings <profiles.yaml>",
		Short: "Show which deductions are worth raising",
		Long: `Estimate, per profile, how much total income tax each deduction lever
would save if its claim were raised to the deductible maximum: Pillar 3a
contributions, third-party childcare and insurance premiums. Savings below
CHF 100 are not shown. Levels: high (above 2000), medium (above 500), low.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			report, err := a.calculateReport(cmd.Context(), []*domain.ProfileSet{set}, true)
			if err != nil {
				return err
			}
			printSavings(a.out, report, a.color)
			return failedProfiles(report)
		},
	}
}

func printSavings(w io.Writer, report *domain.Report, colored bool) {
	paint := func(attr color.Attribute, s string) string {
		if !colored {
			return s
		}
		c := color.New(attr)
		c.EnableColor()
		return c.Sprint(s)
	}
	levelColor := map[domain.SavingsLevel]color.Attribute{
		domain.SavingsHigh:   color.FgGreen,
		domain.SavingsMedium: color.FgYellow,
		domain.SavingsLow:    color.FgWhite,
	}

	for i, e := range report.Entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if e.Error != "" {
			fmt.Fprintf(w, "%s: %s\n", e.Name, paint(color.FgRed, "error: "+e.Error))
			continue
		}
		fmt.Fprintf(w, "%s (total income tax %s)\n", paint(color.Bold, e.Name),
			output.FormatCurrency(e.Result.Breakdown.TotalIncomeTax))
		if len(e.Recommendations) == 0 {
			fmt.Fprintln(w, "  No deduction left worth raising.")
			continue
		}
		for _, r := range e.Recommendations {
			fmt.Fprintf(w, "  %-40s %14s  %s\n", r.Label, output.FormatCurrency(r.EstimatedSaving),
				paint(levelColor[r.Level], strings.ToUpper(string(r.Level))))
		}
	}
}
