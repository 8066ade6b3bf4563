package calculation

import (
	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	money "github.com/rpgo/swiss-tax-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// CantonalBaseTax walks the bands in table order, taxing each slice of income
// at its band's marginal rate. Income left over after the last band is not
// taxed; it is returned as untaxedExcess so callers can report it.
func CantonalBaseTax(bands []domain.CantonalBandRow, netIncome decimal.Decimal) (tax, untaxedExcess decimal.Decimal) {
	tax = decimal.Zero
	remaining := netIncome
	for _, band := range bands {
		if !remaining.IsPositive() {
			break
		}
		taxable := decimal.Min(remaining, band.BandWidth)
		tax = tax.Add(money.PercentOf(taxable, band.MarginalRatePercent))
		remaining = remaining.Sub(taxable)
	}
	return tax, money.NonNegative(remaining)
}
