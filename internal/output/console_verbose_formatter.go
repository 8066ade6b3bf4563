package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders the full per-profile breakdown. Color enables
// ANSI highlighting and is meant for terminals only.
type ConsoleVerboseFormatter struct {
	Color bool
}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) paint(s string, attrs ...color.Attribute) string {
	if !c.Color {
		return s
	}
	p := color.New(attrs...)
	p.EnableColor()
	return p.Sprint(s)
}

func (c ConsoleVerboseFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer

	rule := strings.Repeat("=", 81)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, c.paint(fmt.Sprintf("SWISS INCOME TAX REPORT: CANTON %s, TAX YEAR %d", report.Canton, report.TaxYear), color.Bold))
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "Report ID: %s\n", report.ID)
	fmt.Fprintf(&buf, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(report) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, entry := range report.Entries {
		title := fmt.Sprintf("PROFILE %d: %s", i+1, entry.Name)
		fmt.Fprintln(&buf, c.paint(title, color.FgCyan, color.Bold))
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		if entry.Result == nil {
			fmt.Fprintf(&buf, "%s %s\n\n", c.paint("ERROR:", color.FgRed, color.Bold), entry.Error)
			continue
		}
		c.writeResult(&buf, entry.Result)
		c.writeRecommendations(&buf, entry.Recommendations)
		fmt.Fprintln(&buf)
	}

	s := Summarize(report)
	if s.Profiles > 1 {
		fmt.Fprintln(&buf, c.paint("SUMMARY", color.Bold))
		fmt.Fprintln(&buf, "=======")
		fmt.Fprintf(&buf, "Profiles calculated:    %d of %d\n", s.Profiles-s.Failed, s.Profiles)
		fmt.Fprintf(&buf, "Total income tax:       %s\n", FormatCurrency(s.TotalTax))
		if s.HighestTaxName != "" {
			fmt.Fprintf(&buf, "Highest tax:            %s (%s)\n", s.HighestTaxName, FormatCurrency(s.HighestTax))
			fmt.Fprintf(&buf, "Average effective rate: %s\n", FormatPercentage(s.AverageRate))
		}
	}
	return buf.Bytes(), nil
}

func (c ConsoleVerboseFormatter) writeResult(buf *bytes.Buffer, r *domain.TaxResult) {
	p := r.Profile
	church := p.ChurchAffiliation.Normalize()
	fmt.Fprintf(buf, "Commune: %s | Church: %s | Status: %s | Children: %d (%d under 7)\n",
		p.Commune, church, p.MaritalStatus, p.NumberOfChildren, p.ChildrenUnder7)
	fmt.Fprintf(buf, "Gross income:           %s\n", FormatCurrency(p.GrossIncome))
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "MANDATORY DEDUCTIONS:")
	fmt.Fprintf(buf, "  AHV/IV/EO/ALV:        %s\n", FormatCurrency(r.Mandatory.SocialInsurance))
	fmt.Fprintf(buf, "  Occupational pension: %s\n", FormatCurrency(r.Mandatory.PensionContribution))
	fmt.Fprintf(buf, "  TOTAL:                %s\n", FormatCurrency(r.Mandatory.Total()))
	fmt.Fprintln(buf)

	fd, cd := r.FederalDeductions, r.CantonalDeductions
	fmt.Fprintf(buf, "%-35s %20s %20s\n", "OPTIONAL DEDUCTIONS", "FEDERAL", "CANTONAL")
	fmt.Fprintln(buf, strings.Repeat("-", 77))
	cmpLine(buf, "  Travel (main income)", fd.Travel, cd.Travel)
	cmpLine(buf, "  Insurance premiums", fd.InsuranceAdults, cd.InsuranceAdults)
	cmpLine(buf, "  Insurance (children)", fd.InsuranceChildren, cd.InsuranceChildren)
	cmpLine(buf, "  Pillar 3a", fd.Pillar3a, cd.Pillar3a)
	cmpLine(buf, "  Childcare (third-party)", fd.ChildcareDeduction, cd.ChildcareDeduction)
	cmpLine(buf, "  Children", fd.ChildDeduction, cd.ChildDeductionByAge)
	cmpLine(buf, "  Married persons", fd.MarriedDeduction, decimal.Zero)
	cmpLine(buf, "  Two-income couple", decimal.Zero, cd.TwoIncomeCouple)
	cmpLine(buf, "  Asset management", decimal.Zero, cd.AssetManagement)
	cmpLine(buf, "  Child education", decimal.Zero, cd.ChildEducation)
	fmt.Fprintln(buf, strings.Repeat("-", 77))
	cmpLine(buf, "TOTAL OPTIONAL DEDUCTIONS", fd.Total(), cd.Total())
	cmpLine(buf, "NET INCOME", r.FederalNetIncome, r.CantonalNetIncome)
	fmt.Fprintln(buf)

	b := r.Breakdown
	fmt.Fprintln(buf, "TAXES:")
	taxLine(buf, "Federal tax ("+string(r.FederalTaxClass)+"):", FormatCurrency(b.FederalTax))
	taxLine(buf, "Cantonal base tax:", FormatCurrency(b.CantonalBaseTax))
	taxLine(buf, "Cantonal tax:", FormatCurrency(b.CantonalTax))
	taxLine(buf, "Municipal tax:", FormatCurrency(b.MunicipalTax))
	taxLine(buf, "Church tax:", FormatCurrency(b.ChurchTax))
	taxLine(buf, "Cantonal+municipal+church:", FormatCurrency(b.TotalCantonalMunicipalChurchTax))
	taxLine(buf, "TOTAL INCOME TAX:", c.paint(FormatCurrency(b.TotalIncomeTax), color.FgGreen, color.Bold))
	taxLine(buf, "Effective rate:", FormatPercentage(EffectiveRate(r)))
	if r.UntaxedCantonalExcess.IsPositive() {
		fmt.Fprintf(buf, "  %s %s of cantonal net income lies beyond the band table and is untaxed\n",
			c.paint("WARNING:", color.FgYellow, color.Bold), FormatCurrency(r.UntaxedCantonalExcess))
	}
}

func (c ConsoleVerboseFormatter) writeRecommendations(buf *bytes.Buffer, recs []domain.SavingsRecommendation) {
	if len(recs) == 0 {
		return
	}
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "SAVINGS RECOMMENDATIONS:")
	for _, rec := range recs {
		level := strings.ToUpper(string(rec.Level))
		switch rec.Level {
		case domain.SavingsHigh:
			level = c.paint(level, color.FgGreen, color.Bold)
		case domain.SavingsMedium:
			level = c.paint(level, color.FgYellow)
		}
		fmt.Fprintf(buf, "• %-40s %s [%s]\n", rec.Label, FormatCurrency(rec.EstimatedSaving), level)
	}
}

func taxLine(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "  %-42s %s\n", label, value)
}

func cmpLine(buf *bytes.Buffer, label string, federal, cantonal decimal.Decimal) {
	fmt.Fprintf(buf, "%-35s %20s %20s\n", label, FormatCurrency(federal), FormatCurrency(cantonal))
}
