package calculation

import (
	"errors"
	"fmt"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	money "github.com/rpgo/swiss-tax-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Calculator runs the full tax pipeline for one profile at a time. It holds no
// per-call state and is safe for concurrent use once built.
type Calculator struct {
	Reference *domain.ReferenceData
	Rates     SocialInsuranceRates
	Logger    Logger
}

// NewCalculator creates a calculator over ref with the 2025 social insurance rates.
func NewCalculator(ref *domain.ReferenceData) *Calculator {
	return NewCalculatorWithRates(ref, DefaultSocialInsuranceRates2025())
}

// NewCalculatorWithRates creates a calculator with custom social insurance rates.
func NewCalculatorWithRates(ref *domain.ReferenceData, rates SocialInsuranceRates) *Calculator {
	return &Calculator{
		Reference: ref,
		Rates:     rates,
		Logger:    NopLogger{},
	}
}

// SetLogger sets the logger for the calculator. If nil is provided, a no-op logger is used.
func (c *Calculator) SetLogger(l Logger) {
	if l == nil {
		c.Logger = NopLogger{}
		return
	}
	c.Logger = l
}

// Calculate computes federal, cantonal, municipal and church tax for p.
//
// Invalid profiles fail with domain.ErrInvalidProfile before anything is
// computed. Unknown communes and reference data defects surface as their own
// errors; no step falls back to a zero amount.
func (c *Calculator) Calculate(p *domain.TaxpayerProfile) (*domain.TaxResult, error) {
	if c.Reference == nil {
		return nil, errors.New("calculator has no reference data")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	ref := c.Reference

	mandatory := c.Rates.MandatoryDeductions(p)

	federalDeductions, err := FederalOptionalDeductions(ref.FederalDeductions(), p)
	if err != nil {
		return nil, err
	}
	cantonalDeductions, err := CantonalOptionalDeductions(ref.CantonalDeductions(), p)
	if err != nil {
		return nil, err
	}

	// negative net income is passed through; the tariffs handle it
	federalNet := p.GrossIncome.Sub(mandatory.Total().Add(federalDeductions.Total()))
	cantonalNet := p.GrossIncome.Sub(mandatory.Total().Add(cantonalDeductions.Total()))

	federalTax, err := FederalTax(ref.FederalBrackets(), p.MaritalStatus, p.NumberOfChildren, federalNet)
	if err != nil {
		return nil, fmt.Errorf("federal tax: %w", err)
	}

	baseTax, excess := CantonalBaseTax(ref.CantonalBands(), cantonalNet)
	if excess.IsPositive() {
		c.Logger.Warnf("cantonal net income %s exceeds the band table by %s; the excess is untaxed",
			cantonalNet.StringFixed(2), excess.StringFixed(2))
	}

	jurisdiction, err := JurisdictionTax(ref.Multipliers(), baseTax, p.Commune, p.ChurchAffiliation)
	if err != nil {
		return nil, err
	}

	c.Logger.Debugf("profile %q: mandatory=%s federal_net=%s cantonal_net=%s federal_tax=%s cantonal_base=%s",
		p.Name, mandatory.Total().StringFixed(2), federalNet.StringFixed(2), cantonalNet.StringFixed(2),
		federalTax.StringFixed(2), baseTax.StringFixed(2))

	return &domain.TaxResult{
		Profile:               *p,
		Mandatory:             mandatory,
		FederalDeductions:     federalDeductions,
		CantonalDeductions:    cantonalDeductions,
		FederalNetIncome:      federalNet,
		CantonalNetIncome:     cantonalNet,
		FederalTaxClass:       FederalTaxClass(p.MaritalStatus, p.NumberOfChildren),
		UntaxedCantonalExcess: excess,
		Breakdown:             assembleBreakdown(federalTax, baseTax, jurisdiction),
	}, nil
}

// assembleBreakdown is the only place amounts are rounded.
func assembleBreakdown(federalTax, baseTax decimal.Decimal, j JurisdictionTaxAmounts) domain.TaxBreakdown {
	return domain.TaxBreakdown{
		FederalTax:                      money.Round2(federalTax),
		CantonalBaseTax:                 money.Round2(baseTax),
		CantonalTax:                     money.Round2(j.Canton),
		MunicipalTax:                    money.Round2(j.Commune),
		ChurchTax:                       money.Round2(j.Church),
		TotalCantonalMunicipalChurchTax: money.Round2(j.Total),
		TotalIncomeTax:                  money.Round2(federalTax.Add(j.Total)),
	}
}
