package main

import (
	"fmt"

	"github.com/rpgo/swiss-tax-calculator/internal/config"
	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/spf13/cobra"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		workers     int
		withSavings bool
	)

	cmd := &cobra.Command{
		Use:   "batch <profiles.yaml>...",
		Short: "Calculate several profile files into one report",
		Long: `Calculate every profile of every given file concurrently and write a
single combined report. Profiles keep file order, then in-file order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("workers") {
				if workers < 0 {
					return fmt.Errorf("--workers cannot be negative")
				}
				a.settings.Batch.Workers = workers
			}

			parser := config.NewInputParser()
			sets := make([]*domain.ProfileSet, 0, len(args))
			for _, path := range args {
				set, err := parser.LoadFromFile(path)
				if err != nil {
					return err
				}
				sets = append(sets, set)
			}

			report, err := a.calculateReport(cmd.Context(), sets, withSavings)
			if err != nil {
				return err
			}
			if err := a.render(report); err != nil {
				return err
			}
			return failedProfiles(report)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Maximum concurrent calculations (default from settings)")
	cmd.Flags().BoolVar(&withSavings, "savings", false, "Add deduction savings recommendations to the report")
	return cmd
}
