package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "INCOME TAX SUMMARY %s %d\n", report.Canton, report.TaxYear)
	fmt.Fprintln(&buf, "================================")
	for _, e := range report.Entries {
		if e.Result == nil {
			fmt.Fprintf(&buf, "%s: error: %s\n", e.Name, e.Error)
			continue
		}
		b := e.Result.Breakdown
		fmt.Fprintf(&buf, "%s: Federal=%s Cantonal/Municipal/Church=%s Total=%s Rate=%s\n",
			e.Name,
			FormatCurrency(b.FederalTax),
			FormatCurrency(b.TotalCantonalMunicipalChurchTax),
			FormatCurrency(b.TotalIncomeTax),
			FormatPercentage(EffectiveRate(e.Result)),
		)
		if len(e.Recommendations) > 0 {
			top := e.Recommendations[0]
			fmt.Fprintf(&buf, "  Top saving: %s %s (%s)\n", top.Label, FormatCurrency(top.EstimatedSaving), top.Level)
		}
	}
	s := Summarize(report)
	if s.HighestTaxName != "" && s.Profiles > 1 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Highest tax: %s (%s), average rate %s\n", s.HighestTaxName, FormatCurrency(s.HighestTax), FormatPercentage(s.AverageRate))
	}
	return buf.Bytes(), nil
}
