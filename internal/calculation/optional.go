package calculation

import (
	"fmt"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	money "github.com/rpgo/swiss-tax-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// limitReader looks up rows and keeps the first lookup error, so a rule set
// can read all its rows and check once.
type limitReader struct {
	table *domain.DeductionTable
	err   error
}

func (l *limitReader) row(key domain.DeductionKey) domain.DeductionLimitRow {
	if l.err != nil {
		return domain.DeductionLimitRow{}
	}
	r, err := l.table.Lookup(key)
	if err != nil {
		l.err = err
	}
	return r
}

// commonDeductions are the rules both jurisdictions share.
type commonDeductions struct {
	travel            decimal.Decimal
	insuranceAdults   decimal.Decimal
	insuranceChildren decimal.Decimal
	pillar3a          decimal.Decimal
	childcare         decimal.Decimal
}

// hasPensionSolution is true for employed persons and for anyone paying into pillar 3a.
func hasPensionSolution(p *domain.TaxpayerProfile) bool {
	return p.Employed || p.Expenses.Pillar3aContribution.IsPositive()
}

func insuranceKey(p *domain.TaxpayerProfile) domain.DeductionKey {
	withPension := hasPensionSolution(p)
	switch {
	case p.MaritalStatus == domain.Married && withPension:
		return domain.KeyInsuranceMarriedWithPension
	case p.MaritalStatus == domain.Married:
		return domain.KeyInsuranceMarriedWithoutPension
	case withPension:
		return domain.KeyInsuranceSingleWithPension
	default:
		return domain.KeyInsuranceSingleWithoutPension
	}
}

func evaluateCommon(l *limitReader, p *domain.TaxpayerProfile) commonDeductions {
	var c commonDeductions
	children := decimal.NewFromInt(int64(p.NumberOfChildren))

	c.travel = money.CapAt(p.Expenses.TravelExpenses, l.row(domain.KeyTravelExpenses).Maximum)
	c.insuranceAdults = money.CapAt(p.Expenses.InsuranceExpenses, l.row(insuranceKey(p)).Maximum)
	c.insuranceChildren = children.Mul(l.row(domain.KeyInsurancePerChild).Maximum)

	key := domain.KeyPillar3aWithoutPension
	if p.Employed {
		key = domain.KeyPillar3aWithPension
	}
	c.pillar3a = money.CapAt(p.Expenses.Pillar3aContribution, l.row(key).Maximum)

	c.childcare = money.CapAt(p.Expenses.ChildcareExpenses, l.row(domain.KeyChildcareThirdParty).Maximum)
	return c
}

func checkJurisdiction(table *domain.DeductionTable, want domain.Jurisdiction) error {
	if table == nil {
		return fmt.Errorf("no %s deduction table", want)
	}
	if table.Jurisdiction() != want {
		return fmt.Errorf("expected %s deduction table, got %s", want, table.Jurisdiction())
	}
	return nil
}

// FederalOptionalDeductions applies the federal rule set: the shared rules plus
// the per-child and married-persons flat deductions.
func FederalOptionalDeductions(table *domain.DeductionTable, p *domain.TaxpayerProfile) (domain.FederalDeductions, error) {
	if err := checkJurisdiction(table, domain.JurisdictionFederal); err != nil {
		return domain.FederalDeductions{}, err
	}
	l := &limitReader{table: table}
	common := evaluateCommon(l, p)

	childDeduction := decimal.NewFromInt(int64(p.NumberOfChildren)).Mul(l.row(domain.KeyChildDeduction).Amount)
	married := decimal.Zero
	if p.MaritalStatus == domain.Married {
		married = l.row(domain.KeyMarriedPersons).Amount
	}
	if l.err != nil {
		return domain.FederalDeductions{}, fmt.Errorf("federal optional deductions: %w", l.err)
	}

	return domain.FederalDeductions{
		Travel:             common.travel,
		InsuranceAdults:    common.insuranceAdults,
		InsuranceChildren:  common.insuranceChildren,
		Pillar3a:           common.pillar3a,
		ChildDeduction:     childDeduction,
		MarriedDeduction:   married,
		ChildcareDeduction: common.childcare,
	}, nil
}

// CantonalOptionalDeductions applies the cantonal rule set: the shared rules
// plus two-income couple, asset management, child education and the
// age-banded child deduction.
func CantonalOptionalDeductions(table *domain.DeductionTable, p *domain.TaxpayerProfile) (domain.CantonalDeductions, error) {
	if err := checkJurisdiction(table, domain.JurisdictionCantonal); err != nil {
		return domain.CantonalDeductions{}, err
	}
	l := &limitReader{table: table}
	common := evaluateCommon(l, p)

	// declared flag only; both incomes are never inferred
	twoIncome := decimal.Zero
	if p.MaritalStatus == domain.Married && p.Expenses.TwoIncomeCouple {
		twoIncome = l.row(domain.KeyTwoIncomeCouple).Maximum
	}

	assetRow := l.row(domain.KeyAssetManagement)
	asset := money.Clamp(money.PercentOf(p.Expenses.TaxableAssets, assetRow.Percent), assetRow.Minimum, assetRow.Maximum)

	own := l.row(domain.KeyChildEducationOwnContribution).Amount
	netEducation := money.NonNegative(p.Expenses.EducationExpenses.Sub(own))
	education := money.CapAt(netEducation, l.row(domain.KeyChildEducation).Maximum)

	under7 := decimal.NewFromInt(int64(p.ChildrenUnder7)).Mul(l.row(domain.KeyChildDeductionUnder7).Amount)
	over7 := decimal.NewFromInt(int64(p.Children7AndOver)).Mul(l.row(domain.KeyChildDeduction7AndOver).Amount)

	if l.err != nil {
		return domain.CantonalDeductions{}, fmt.Errorf("cantonal optional deductions: %w", l.err)
	}

	return domain.CantonalDeductions{
		Travel:              common.travel,
		InsuranceAdults:     common.insuranceAdults,
		InsuranceChildren:   common.insuranceChildren,
		Pillar3a:            common.pillar3a,
		TwoIncomeCouple:     twoIncome,
		AssetManagement:     asset,
		ChildcareDeduction:  common.childcare,
		ChildEducation:      education,
		ChildDeductionByAge: under7.Add(over7),
	}, nil
}
