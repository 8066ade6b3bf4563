package calculation

import (
	"sort"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	money "github.com/rpgo/swiss-tax-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FederalTaxClass maps marital status and children to the federal tariff.
// Married persons and single parents share the reduced tariff.
func FederalTaxClass(status domain.MaritalStatus, numberOfChildren int) domain.TaxClass {
	if status == domain.Married || numberOfChildren > 0 {
		return domain.TaxClassMarriedOrWithChildren
	}
	return domain.TaxClassSingle
}

// federalRows returns the federal income tax rows for class, sorted by threshold.
func federalRows(rows []domain.FederalBracketRow, class domain.TaxClass) []domain.FederalBracketRow {
	var out []domain.FederalBracketRow
	for _, r := range rows {
		if r.TaxType == domain.TaxTypeIncome && r.Authority == domain.AuthorityFederal && r.MaritalClass == class {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Threshold.LessThan(out[j].Threshold)
	})
	return out
}

// FederalTax applies the federal tariff to net income.
//
// Income at or below the lowest threshold is charged that row's base amount.
// Above it, the highest row whose threshold does not exceed the income is used:
// base + (income - threshold) * rate / 100.
func FederalTax(rows []domain.FederalBracketRow, status domain.MaritalStatus, numberOfChildren int, netIncome decimal.Decimal) (decimal.Decimal, error) {
	class := FederalTaxClass(status, numberOfChildren)
	brackets := federalRows(rows, class)
	if len(brackets) == 0 {
		return decimal.Zero, &domain.EmptyBracketTableError{Class: class}
	}

	if netIncome.LessThanOrEqual(brackets[0].Threshold) {
		return brackets[0].BaseAmount, nil
	}

	// first row whose threshold is above income; the row before it applies
	i := sort.Search(len(brackets), func(i int) bool {
		return brackets[i].Threshold.GreaterThan(netIncome)
	})
	b := brackets[i-1]
	excess := netIncome.Sub(b.Threshold)
	return b.BaseAmount.Add(money.PercentOf(excess, b.MarginalRatePercent)), nil
}
