package calculation

import (
	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	money "github.com/rpgo/swiss-tax-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// PensionAgeBand is one row of the BVG minimum contribution scale.
// MinAge and MaxAge are inclusive.
type PensionAgeBand struct {
	MinAge      int
	MaxAge      int
	RatePercent decimal.Decimal
}

// SocialInsuranceRates holds the statutory pillar 1 and pillar 2 parameters.
// All rates are percentages.
type SocialInsuranceRates struct {
	Year int

	// Employed persons
	AHVEmployed decimal.Decimal
	IVEmployed  decimal.Decimal
	EOEmployed  decimal.Decimal
	ALV         decimal.Decimal
	ALVCeiling  decimal.Decimal

	// Self-employed persons; no unemployment insurance
	AHVSelfEmployed decimal.Decimal
	IVSelfEmployed  decimal.Decimal
	EOSelfEmployed  decimal.Decimal

	// BVG
	CoordinationSalaryMin decimal.Decimal
	CoordinationSalaryMax decimal.Decimal
	PensionAgeBands       []PensionAgeBand
}

// DefaultSocialInsuranceRates2025 returns the 2025 statutory rates.
func DefaultSocialInsuranceRates2025() SocialInsuranceRates {
	return SocialInsuranceRates{
		Year:            2025,
		AHVEmployed:     decimal.NewFromFloat(4.35),
		IVEmployed:      decimal.NewFromFloat(0.7),
		EOEmployed:      decimal.NewFromFloat(0.25),
		ALV:             decimal.NewFromFloat(1.1),
		ALVCeiling:      decimal.NewFromInt(148200),
		AHVSelfEmployed: decimal.NewFromFloat(8.1),
		IVSelfEmployed:  decimal.NewFromFloat(1.4),
		EOSelfEmployed:  decimal.NewFromFloat(0.5),

		CoordinationSalaryMin: decimal.NewFromInt(26460),
		CoordinationSalaryMax: decimal.NewFromInt(90720),
		PensionAgeBands: []PensionAgeBand{
			{MinAge: 25, MaxAge: 34, RatePercent: decimal.NewFromInt(7)},
			{MinAge: 35, MaxAge: 44, RatePercent: decimal.NewFromInt(10)},
			{MinAge: 45, MaxAge: 54, RatePercent: decimal.NewFromInt(15)},
			{MinAge: 55, MaxAge: 65, RatePercent: decimal.NewFromInt(18)},
		},
	}
}

// TotalSocialDeductions returns the pillar 1 contributions (AHV, IV, EO, ALV).
// Employed persons pay ALV on income up to the ceiling; self-employed persons
// pay the higher combined rate and no ALV.
func (r SocialInsuranceRates) TotalSocialDeductions(grossIncome decimal.Decimal, employed bool) decimal.Decimal {
	if !employed {
		rate := decimal.Sum(r.AHVSelfEmployed, r.IVSelfEmployed, r.EOSelfEmployed)
		return money.PercentOf(grossIncome, rate)
	}

	rate := decimal.Sum(r.AHVEmployed, r.IVEmployed, r.EOEmployed)
	base := money.PercentOf(grossIncome, rate)
	alv := money.PercentOf(decimal.Min(grossIncome, r.ALVCeiling), r.ALV)
	return base.Add(alv)
}

// PensionRate returns the BVG rate for age, zero outside every band.
func (r SocialInsuranceRates) PensionRate(age int) decimal.Decimal {
	for _, b := range r.PensionAgeBands {
		if age >= b.MinAge && age <= b.MaxAge {
			return b.RatePercent
		}
	}
	return decimal.Zero
}

// MandatoryPensionContribution returns the minimum pillar 2 contribution.
// Nothing is due below the coordination minimum or outside the age bands,
// so 65 still contributes and 66 does not.
func (r SocialInsuranceRates) MandatoryPensionContribution(grossIncome decimal.Decimal, age int) decimal.Decimal {
	if grossIncome.LessThan(r.CoordinationSalaryMin) {
		return decimal.Zero
	}
	rate := r.PensionRate(age)
	if rate.IsZero() {
		return decimal.Zero
	}
	insured := decimal.Min(grossIncome, r.CoordinationSalaryMax)
	return money.PercentOf(insured, rate)
}

// MandatoryDeductions computes pillar 1 and pillar 2 for a profile.
func (r SocialInsuranceRates) MandatoryDeductions(p *domain.TaxpayerProfile) domain.MandatoryDeductions {
	return domain.MandatoryDeductions{
		SocialInsurance:     r.TotalSocialDeductions(p.GrossIncome, p.Employed),
		PensionContribution: r.MandatoryPensionContribution(p.GrossIncome, p.Age),
	}
}

// TotalMandatoryDeductions is social insurance plus the pension contribution.
func (r SocialInsuranceRates) TotalMandatoryDeductions(grossIncome decimal.Decimal, age int, employed bool) decimal.Decimal {
	return r.TotalSocialDeductions(grossIncome, employed).Add(r.MandatoryPensionContribution(grossIncome, age))
}
