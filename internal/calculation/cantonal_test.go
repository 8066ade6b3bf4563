package calculation

import (
	"testing"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCantonalBaseTax_SmallTable(t *testing.T) {
	bands := []domain.CantonalBandRow{
		{BandWidth: dec("10000"), MarginalRatePercent: dec("0")},
		{BandWidth: dec("10000"), MarginalRatePercent: dec("10")},
		{BandWidth: dec("20000"), MarginalRatePercent: dec("20")},
	}

	tests := []struct {
		net     string
		tax     string
		untaxed string
	}{
		{"-1000", "0", "0"},
		{"0", "0", "0"},
		{"10000", "0", "0"},
		{"15000", "500", "0"},
		{"20000", "1000", "0"},
		{"30000", "3000", "0"},
		{"40000", "5000", "0"},
		{"50000", "5000", "10000"},
	}
	for _, tt := range tests {
		t.Run(tt.net, func(t *testing.T) {
			tax, untaxed := CantonalBaseTax(bands, dec(tt.net))
			assert.True(t, tax.Equal(dec(tt.tax)), "tax: Expected %s, got %s", tt.tax, tax)
			assert.True(t, untaxed.Equal(dec(tt.untaxed)), "untaxed: Expected %s, got %s", tt.untaxed, untaxed)
		})
	}
}

func TestCantonalBaseTax_Embedded(t *testing.T) {
	ref := embeddedReference(t)

	tests := []struct {
		net      string
		expected string
	}{
		{"11600", "0"},
		{"47290", "2749"},
		{"84528", "6950"},
	}
	for _, tt := range tests {
		t.Run(tt.net, func(t *testing.T) {
			tax, untaxed := CantonalBaseTax(ref.CantonalBands(), dec(tt.net))
			assert.True(t, tax.Equal(dec(tt.expected)), "Expected %s, got %s", tt.expected, tax)
			assert.True(t, untaxed.IsZero())
		})
	}
}

func TestCantonalBaseTax_NonDecreasing(t *testing.T) {
	ref := embeddedReference(t)
	prev := decimal.Zero
	for income := int64(0); income <= 500000; income += 1000 {
		tax, _ := CantonalBaseTax(ref.CantonalBands(), decimal.NewFromInt(income))
		assert.True(t, tax.GreaterThanOrEqual(prev), "at %d: %s < %s", income, tax, prev)
		prev = tax
	}
}
