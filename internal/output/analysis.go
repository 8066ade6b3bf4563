package output

import (
	"sort"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	money "github.com/rpgo/swiss-tax-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Summary aggregates a report across its profiles.
type Summary struct {
	Profiles        int
	Failed          int
	TotalTax        decimal.Decimal
	HighestTaxName  string
	HighestTax      decimal.Decimal
	AverageRate     decimal.Decimal
	TopLever        domain.SavingsLever
	TopLeverSavings decimal.Decimal
}

// EffectiveRate is total income tax as a percentage of gross income, rounded
// to two places. Zero income gives a zero rate.
func EffectiveRate(r *domain.TaxResult) decimal.Decimal {
	if r == nil || !r.Profile.GrossIncome.IsPositive() {
		return decimal.Zero
	}
	return money.Round2(r.Breakdown.TotalIncomeTax.Div(r.Profile.GrossIncome).Mul(decimalHundred))
}

// Summarize computes report-wide totals. Failed entries are counted but do not
// contribute to the amounts.
func Summarize(report *domain.Report) Summary {
	s := Summary{TotalTax: decimal.Zero, HighestTax: decimal.Zero, AverageRate: decimal.Zero, TopLeverSavings: decimal.Zero}

	type ranked struct {
		name string
		tax  decimal.Decimal
	}
	var ranks []ranked
	rateSum := decimal.Zero
	leverTotals := map[domain.SavingsLever]decimal.Decimal{}

	for _, e := range report.Entries {
		s.Profiles++
		if e.Result == nil {
			s.Failed++
			continue
		}
		tax := e.Result.Breakdown.TotalIncomeTax
		s.TotalTax = s.TotalTax.Add(tax)
		rateSum = rateSum.Add(EffectiveRate(e.Result))
		ranks = append(ranks, ranked{e.Name, tax})
		for _, rec := range e.Recommendations {
			leverTotals[rec.Lever] = leverTotals[rec.Lever].Add(rec.EstimatedSaving)
		}
	}
	if len(ranks) == 0 {
		return s
	}

	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].tax.GreaterThan(ranks[j].tax) })
	s.HighestTaxName, s.HighestTax = ranks[0].name, ranks[0].tax
	s.AverageRate = money.Round2(rateSum.Div(decimal.NewFromInt(int64(len(ranks)))))

	for _, lever := range []domain.SavingsLever{domain.LeverPillar3a, domain.LeverChildcare, domain.LeverInsurance} {
		if total, ok := leverTotals[lever]; ok && total.GreaterThan(s.TopLeverSavings) {
			s.TopLever, s.TopLeverSavings = lever, total
		}
	}
	return s
}
