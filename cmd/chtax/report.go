package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rpgo/swiss-tax-calculator/internal/calculation"
	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/rpgo/swiss-tax-calculator/internal/output"
	"go.uber.org/zap"
)

// calculateReport runs every profile of every set through the calculator and
// collects results, per-profile errors and, if asked, savings recommendations.
func (a *app) calculateReport(ctx context.Context, sets []*domain.ProfileSet, withSavings bool) (*domain.Report, error) {
	var profiles []domain.TaxpayerProfile
	for _, set := range sets {
		if set.TaxYear != 0 && set.TaxYear != a.reference.TaxYear() {
			a.logger.Warn("profile tax year differs from the reference tables",
				zap.Int("profile_tax_year", set.TaxYear),
				zap.Int("reference_tax_year", a.reference.TaxYear()))
		}
		profiles = append(profiles, set.Profiles...)
	}

	start := time.Now()
	entries, err := a.calculator.CalculateBatch(ctx, profiles, a.settings.Batch.Workers)
	if err != nil {
		return nil, err
	}

	var advisor *calculation.Advisor
	if withSavings {
		advisor = calculation.NewAdvisor(a.calculator)
		advisor.Logger = a.logger.Sugar()
	}

	report := domain.NewReport(a.reference.TaxYear(), a.reference.Canton(), time.Now())
	for _, e := range entries {
		entry := domain.ReportEntry{Name: e.Profile.Name, Result: e.Result}
		switch {
		case e.Err != nil:
			entry.Error = e.Err.Error()
			a.logger.Error("profile calculation failed", zap.String("profile", e.Profile.Name), zap.Error(e.Err))
		case advisor != nil:
			recs, err := advisor.Recommend(ctx, calculation.FeaturesFromProfile(&e.Profile))
			if err != nil {
				return nil, fmt.Errorf("savings for profile %q: %w", e.Profile.Name, err)
			}
			entry.Recommendations = recs
		}
		report.Entries = append(report.Entries, entry)
	}

	a.logger.Info("report calculated",
		zap.String("report_id", report.ID.String()),
		zap.Int("profiles", len(entries)),
		zap.Bool("savings", withSavings),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}

// render writes the report to stdout, or to files when an output directory is set.
func (a *app) render(report *domain.Report) error {
	format := a.settings.Output.Format
	if dir := a.settings.Output.Dir; dir != "" {
		paths, err := output.GenerateReport(report, format, dir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(a.out, "Report written to %s\n", p)
		}
		return nil
	}

	if output.NormalizeFormatName(format) == "console" {
		data, err := output.ConsoleVerboseFormatter{Color: a.color}.Format(report)
		if err != nil {
			return err
		}
		_, err = a.out.Write(data)
		return err
	}
	return output.WriteReport(a.out, report, format)
}

// failedProfiles turns per-profile errors into a non-zero exit after the
// report has been written.
func failedProfiles(report *domain.Report) error {
	failed := 0
	for _, e := range report.Entries {
		if e.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d profiles failed", failed, len(report.Entries))
	}
	return nil
}
