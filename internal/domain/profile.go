package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaritalStatus is the taxpayer's civil status for tax purposes.
type MaritalStatus string

const (
	Single  MaritalStatus = "single"
	Married MaritalStatus = "married"
)

// Valid reports whether m is one of the known statuses.
func (m MaritalStatus) Valid() bool {
	return m == Single || m == Married
}

// ChurchAffiliation selects the church multiplier applied to the cantonal base tax.
type ChurchAffiliation string

const (
	ChurchNone              ChurchAffiliation = "none"
	ChurchProtestant        ChurchAffiliation = "protestant"
	ChurchRomanCatholic     ChurchAffiliation = "roman_catholic"
	ChurchChristianCatholic ChurchAffiliation = "christian_catholic"
)

// Normalize maps the empty value to ChurchNone.
func (c ChurchAffiliation) Normalize() ChurchAffiliation {
	if c == "" {
		return ChurchNone
	}
	return c
}

// Valid reports whether c is one of the known affiliations. The empty value counts as none.
func (c ChurchAffiliation) Valid() bool {
	switch c.Normalize() {
	case ChurchNone, ChurchProtestant, ChurchRomanCatholic, ChurchChristianCatholic:
		return true
	}
	return false
}

// ClaimedExpenses holds the amounts a taxpayer claims against optional deductions.
type ClaimedExpenses struct {
	Pillar3aContribution decimal.Decimal `yaml:"pillar_3a_contribution" json:"pillar_3a_contribution"`
	InsuranceExpenses    decimal.Decimal `yaml:"insurance_expenses" json:"insurance_expenses"`
	TravelExpenses       decimal.Decimal `yaml:"travel_expenses" json:"travel_expenses"`
	ChildcareExpenses    decimal.Decimal `yaml:"childcare_expenses" json:"childcare_expenses"`
	TaxableAssets        decimal.Decimal `yaml:"taxable_assets" json:"taxable_assets"`
	EducationExpenses    decimal.Decimal `yaml:"education_expenses" json:"education_expenses"`

	// TwoIncomeCouple is taken as declared; it is never inferred from income.
	TwoIncomeCouple bool `yaml:"two_income_couple" json:"two_income_couple"`
}

// TaxpayerProfile is the per-calculation input. It is built fresh for every
// request and never mutated by the calculator.
type TaxpayerProfile struct {
	Name              string            `yaml:"name" json:"name"`
	GrossIncome       decimal.Decimal   `yaml:"gross_income" json:"gross_income"`
	Age               int               `yaml:"age" json:"age"`
	Employed          bool              `yaml:"employed" json:"employed"`
	MaritalStatus     MaritalStatus     `yaml:"marital_status" json:"marital_status"`
	NumberOfChildren  int               `yaml:"number_of_children" json:"number_of_children"`
	ChildrenUnder7    int               `yaml:"children_under_7" json:"children_under_7"`
	Children7AndOver  int               `yaml:"children_7_and_over" json:"children_7_and_over"`
	Commune           string            `yaml:"commune" json:"commune"`
	ChurchAffiliation ChurchAffiliation `yaml:"church_affiliation,omitempty" json:"church_affiliation,omitempty"`
	Expenses          ClaimedExpenses   `yaml:"expenses" json:"expenses"`

	// ChildBirthDates may replace the two partition counts in input files.
	ChildBirthDates []time.Time `yaml:"child_birth_dates,omitempty" json:"child_birth_dates,omitempty"`
}

// HasChildren reports whether the taxpayer supports at least one child.
func (p *TaxpayerProfile) HasChildren() bool {
	return p.NumberOfChildren > 0
}

// Validate checks the profile against the closed enums and non-negativity rules.
// The first violation is returned as a *ProfileError.
func (p *TaxpayerProfile) Validate() error {
	if p.GrossIncome.IsNegative() {
		return &ProfileError{Field: "gross_income", Reason: "cannot be negative"}
	}
	if p.Age < 0 {
		return &ProfileError{Field: "age", Reason: "cannot be negative"}
	}
	if !p.MaritalStatus.Valid() {
		return &ProfileError{Field: "marital_status", Reason: fmt.Sprintf("must be single or married, got %q", p.MaritalStatus)}
	}
	if !p.ChurchAffiliation.Valid() {
		return &ProfileError{Field: "church_affiliation", Reason: fmt.Sprintf("unknown affiliation %q", p.ChurchAffiliation)}
	}
	if p.NumberOfChildren < 0 || p.ChildrenUnder7 < 0 || p.Children7AndOver < 0 {
		return &ProfileError{Field: "number_of_children", Reason: "child counts cannot be negative"}
	}
	if p.ChildrenUnder7+p.Children7AndOver != p.NumberOfChildren {
		return &ProfileError{Field: "number_of_children", Reason: "children_under_7 and children_7_and_over must add up to number_of_children"}
	}
	if p.Commune == "" {
		return &ProfileError{Field: "commune", Reason: "is required"}
	}

	claims := []struct {
		field  string
		amount decimal.Decimal
	}{
		{"pillar_3a_contribution", p.Expenses.Pillar3aContribution},
		{"insurance_expenses", p.Expenses.InsuranceExpenses},
		{"travel_expenses", p.Expenses.TravelExpenses},
		{"childcare_expenses", p.Expenses.ChildcareExpenses},
		{"taxable_assets", p.Expenses.TaxableAssets},
		{"education_expenses", p.Expenses.EducationExpenses},
	}
	for _, c := range claims {
		if c.amount.IsNegative() {
			return &ProfileError{Field: "expenses." + c.field, Reason: "cannot be negative"}
		}
	}
	return nil
}

// ProfileSet is the document read from a profile input file.
type ProfileSet struct {
	TaxYear  int               `yaml:"tax_year" json:"tax_year"`
	Profiles []TaxpayerProfile `yaml:"profiles" json:"profiles"`
}
