package calculation

import (
	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	money "github.com/rpgo/swiss-tax-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// JurisdictionTaxAmounts splits the cantonal base tax into its three payees.
type JurisdictionTaxAmounts struct {
	Canton  decimal.Decimal
	Commune decimal.Decimal
	Church  decimal.Decimal
	Total   decimal.Decimal
}

// JurisdictionTax applies the commune's multipliers to the cantonal base tax.
// An unknown commune is an error, never a zero multiplier.
func JurisdictionTax(table *domain.MultiplierTable, baseTax decimal.Decimal, commune string, church domain.ChurchAffiliation) (JurisdictionTaxAmounts, error) {
	if !church.Valid() {
		return JurisdictionTaxAmounts{}, &domain.ProfileError{Field: "church_affiliation", Reason: "unknown affiliation " + string(church)}
	}
	row, err := table.Lookup(commune)
	if err != nil {
		return JurisdictionTaxAmounts{}, err
	}

	a := JurisdictionTaxAmounts{
		Canton:  money.PercentOf(baseTax, row.CantonMultiplierPercent),
		Commune: money.PercentOf(baseTax, row.CommuneMultiplierPercent),
		Church:  money.PercentOf(baseTax, row.ChurchPercent(church)),
	}
	a.Total = decimal.Sum(a.Canton, a.Commune, a.Church)
	return a, nil
}
