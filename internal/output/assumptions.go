package output

import (
	"fmt"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Social insurance: AHV/IV/EO 5.3% employed (10.0% self-employed), ALV 1.1% up to CHF 148'200",
	"Occupational pension: age-banded rate on the coordinated salary, ages 25 to 65",
	"Claimed deductions are capped at the statutory limits; claims are not verified",
	"Amounts are rounded to 0.01 CHF only in the final breakdown",
	"Savings estimates recompute the tax with one deduction fully used",
}

// GenerateAssumptions prefixes the defaults with the tables a report was computed from.
func GenerateAssumptions(report *domain.Report) []string {
	out := make([]string, 0, len(DefaultAssumptions)+1)
	out = append(out, fmt.Sprintf("Reference tables: canton %s, tax year %d", report.Canton, report.TaxYear))
	return append(out, DefaultAssumptions...)
}

var decimalHundred = decimal.NewFromInt(100)
