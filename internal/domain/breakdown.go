package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxBreakdown is the final tax liability. Every field is rounded to two
// decimal places when the breakdown is assembled and never earlier.
type TaxBreakdown struct {
	FederalTax                      decimal.Decimal `json:"federal_tax"`
	CantonalBaseTax                 decimal.Decimal `json:"cantonal_base_tax"`
	CantonalTax                     decimal.Decimal `json:"cantonal_tax"`
	MunicipalTax                    decimal.Decimal `json:"municipal_tax"`
	ChurchTax                       decimal.Decimal `json:"church_tax"`
	TotalCantonalMunicipalChurchTax decimal.Decimal `json:"total_cantonal_municipal_church_tax"`
	TotalIncomeTax                  decimal.Decimal `json:"total_income_tax"`
}

// FederalDeductions itemises the seven federal optional deductions.
type FederalDeductions struct {
	Travel             decimal.Decimal `json:"travel"`
	InsuranceAdults    decimal.Decimal `json:"insurance_adults"`
	InsuranceChildren  decimal.Decimal `json:"insurance_children"`
	Pillar3a           decimal.Decimal `json:"pillar_3a"`
	ChildDeduction     decimal.Decimal `json:"child_deduction"`
	MarriedDeduction   decimal.Decimal `json:"married_deduction"`
	ChildcareDeduction decimal.Decimal `json:"childcare"`
}

// Total sums all federal items.
func (d FederalDeductions) Total() decimal.Decimal {
	return decimal.Sum(d.Travel,
		d.InsuranceAdults,
		d.InsuranceChildren,
		d.Pillar3a,
		d.ChildDeduction,
		d.MarriedDeduction,
		d.ChildcareDeduction,
	)
}

// CantonalDeductions itemises the nine cantonal optional deductions.
type CantonalDeductions struct {
	Travel              decimal.Decimal `json:"travel"`
	InsuranceAdults     decimal.Decimal `json:"insurance_adults"`
	InsuranceChildren   decimal.Decimal `json:"insurance_children"`
	Pillar3a            decimal.Decimal `json:"pillar_3a"`
	TwoIncomeCouple     decimal.Decimal `json:"two_income_couple"`
	AssetManagement     decimal.Decimal `json:"asset_management"`
	ChildcareDeduction  decimal.Decimal `json:"childcare"`
	ChildEducation      decimal.Decimal `json:"child_education"`
	ChildDeductionByAge decimal.Decimal `json:"child_deduction_by_age"`
}

// Total sums all cantonal items.
func (d CantonalDeductions) Total() decimal.Decimal {
	return decimal.Sum(d.Travel,
		d.InsuranceAdults,
		d.InsuranceChildren,
		d.Pillar3a,
		d.TwoIncomeCouple,
		d.AssetManagement,
		d.ChildcareDeduction,
		d.ChildEducation,
		d.ChildDeductionByAge,
	)
}

// MandatoryDeductions holds the pillar 1 and pillar 2 amounts.
type MandatoryDeductions struct {
	SocialInsurance     decimal.Decimal `json:"social_insurance"`
	PensionContribution decimal.Decimal `json:"pension_contribution"`
}

// Total returns social insurance plus pension contribution.
func (m MandatoryDeductions) Total() decimal.Decimal {
	return m.SocialInsurance.Add(m.PensionContribution)
}

// TaxResult is the full outcome of one calculation: the rounded breakdown plus
// the unrounded intermediate figures that produced it.
type TaxResult struct {
	Profile            TaxpayerProfile     `json:"profile"`
	Mandatory          MandatoryDeductions `json:"mandatory"`
	FederalDeductions  FederalDeductions   `json:"federal_deductions"`
	CantonalDeductions CantonalDeductions  `json:"cantonal_deductions"`
	FederalNetIncome   decimal.Decimal     `json:"federal_net_income"`
	CantonalNetIncome  decimal.Decimal     `json:"cantonal_net_income"`
	FederalTaxClass    TaxClass            `json:"federal_tax_class"`

	// UntaxedCantonalExcess is cantonal net income beyond the last band.
	UntaxedCantonalExcess decimal.Decimal `json:"untaxed_cantonal_excess"`

	Breakdown TaxBreakdown `json:"breakdown"`
}

// SavingsLever names a deduction whose claim can be raised to lower the tax.
type SavingsLever string

const (
	LeverPillar3a  SavingsLever = "pillar_3a"
	LeverChildcare SavingsLever = "childcare"
	LeverInsurance SavingsLever = "insurance"
)

// Label returns the user-facing name of the lever.
func (l SavingsLever) Label() string {
	switch l {
	case LeverPillar3a:
		return "Pillar 3a contributions"
	case LeverChildcare:
		return "Childcare expenses (third-party)"
	case LeverInsurance:
		return "Insurance premiums & savings interest"
	default:
		return string(l)
	}
}

// SavingsLevel grades an estimated saving.
type SavingsLevel string

const (
	SavingsHigh   SavingsLevel = "high"
	SavingsMedium SavingsLevel = "medium"
	SavingsLow    SavingsLevel = "low"
)

// SavingsRecommendation is one lever worth acting on.
type SavingsRecommendation struct {
	Lever           SavingsLever    `json:"lever"`
	Label           string          `json:"label"`
	EstimatedSaving decimal.Decimal `json:"estimated_saving"`
	Level           SavingsLevel    `json:"level"`
}

// Report groups results for output. Entries keep input order.
type Report struct {
	ID          uuid.UUID     `json:"id"`
	GeneratedAt time.Time     `json:"generated_at"`
	TaxYear     int           `json:"tax_year"`
	Canton      string        `json:"canton"`
	Entries     []ReportEntry `json:"entries"`
}

// ReportEntry is either a result or the error that prevented one.
type ReportEntry struct {
	Name            string                  `json:"name"`
	Result          *TaxResult              `json:"result,omitempty"`
	Recommendations []SavingsRecommendation `json:"recommendations,omitempty"`
	Error           string                  `json:"error,omitempty"`
}

// NewReport creates an empty report with a fresh ID.
func NewReport(taxYear int, canton string, now time.Time) *Report {
	return &Report{
		ID:          uuid.New(),
		GeneratedAt: now,
		TaxYear:     taxYear,
		Canton:      canton,
	}
}
