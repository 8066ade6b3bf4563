package domain

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// TaxClass is the federal tariff a taxpayer is assessed under.
type TaxClass string

const (
	TaxClassSingle                TaxClass = "single"
	TaxClassMarriedOrWithChildren TaxClass = "married_or_single_with_children"
)

// Row selectors for the federal bracket table.
const (
	TaxTypeIncome    = "income"
	AuthorityFederal = "federal"
)

// FederalBracketRow is one entry of the federal tariff. Tax for income at or
// above Threshold is BaseAmount plus MarginalRatePercent of the excess.
type FederalBracketRow struct {
	TaxType             string          `yaml:"tax_type" json:"tax_type"`
	Authority           string          `yaml:"authority" json:"authority"`
	MaritalClass        TaxClass        `yaml:"marital_class" json:"marital_class"`
	Threshold           decimal.Decimal `yaml:"threshold" json:"threshold"`
	BaseAmount          decimal.Decimal `yaml:"base_amount" json:"base_amount"`
	MarginalRatePercent decimal.Decimal `yaml:"marginal_rate_percent" json:"marginal_rate_percent"`
}

// CantonalBandRow is one band of the cantonal base tariff, consumed in table order.
type CantonalBandRow struct {
	BandWidth           decimal.Decimal `yaml:"band_width" json:"band_width"`
	MarginalRatePercent decimal.Decimal `yaml:"marginal_rate_percent" json:"marginal_rate_percent"`
}

// MultiplierRow holds the percentages applied to the cantonal base tax for one commune.
type MultiplierRow struct {
	Commune                        string          `yaml:"commune" json:"commune"`
	CantonMultiplierPercent        decimal.Decimal `yaml:"canton_multiplier_percent" json:"canton_multiplier_percent"`
	CommuneMultiplierPercent       decimal.Decimal `yaml:"commune_multiplier_percent" json:"commune_multiplier_percent"`
	ChurchProtestantPercent        decimal.Decimal `yaml:"church_protestant_percent" json:"church_protestant_percent"`
	ChurchRomanCatholicPercent     decimal.Decimal `yaml:"church_roman_catholic_percent" json:"church_roman_catholic_percent"`
	ChurchChristianCatholicPercent decimal.Decimal `yaml:"church_christian_catholic_percent" json:"church_christian_catholic_percent"`
}

// ChurchPercent returns the church multiplier for an affiliation, zero for none.
func (r MultiplierRow) ChurchPercent(c ChurchAffiliation) decimal.Decimal {
	switch c.Normalize() {
	case ChurchProtestant:
		return r.ChurchProtestantPercent
	case ChurchRomanCatholic:
		return r.ChurchRomanCatholicPercent
	case ChurchChristianCatholic:
		return r.ChurchChristianCatholicPercent
	default:
		return decimal.Zero
	}
}

// MultiplierTable indexes multiplier rows by exact commune name.
type MultiplierTable struct {
	rows  []MultiplierRow
	index map[string]int
}

// NewMultiplierTable builds the table, rejecting empty or duplicate commune names.
func NewMultiplierTable(rows []MultiplierRow) (*MultiplierTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("multiplier table has no rows")
	}
	t := &MultiplierTable{rows: slices.Clone(rows), index: make(map[string]int, len(rows))}
	for i, r := range t.rows {
		if r.Commune == "" {
			return nil, fmt.Errorf("multiplier row %d has no commune name", i)
		}
		if _, dup := t.index[r.Commune]; dup {
			return nil, fmt.Errorf("duplicate multiplier row for commune %q", r.Commune)
		}
		for _, p := range []decimal.Decimal{
			r.CantonMultiplierPercent, r.CommuneMultiplierPercent,
			r.ChurchProtestantPercent, r.ChurchRomanCatholicPercent, r.ChurchChristianCatholicPercent,
		} {
			if p.IsNegative() {
				return nil, fmt.Errorf("commune %q has a negative multiplier", r.Commune)
			}
		}
		t.index[r.Commune] = i
	}
	return t, nil
}

// Lookup returns the row for commune. Matching is exact and case-sensitive.
func (t *MultiplierTable) Lookup(commune string) (MultiplierRow, error) {
	i, ok := t.index[commune]
	if !ok {
		return MultiplierRow{}, &UnknownCommuneError{Commune: commune}
	}
	return t.rows[i], nil
}

// Rows returns a copy of the rows in table order.
func (t *MultiplierTable) Rows() []MultiplierRow {
	return slices.Clone(t.rows)
}

// Jurisdiction distinguishes the two deduction tables.
type Jurisdiction string

const (
	JurisdictionFederal  Jurisdiction = "federal"
	JurisdictionCantonal Jurisdiction = "cantonal"
)

// DeductionKey identifies one row of a deduction-limit table.
type DeductionKey string

const (
	KeyTravelExpenses                 DeductionKey = "travel_expenses_main_income"
	KeyInsuranceMarriedWithPension    DeductionKey = "insurance_married_with_pension"
	KeyInsuranceMarriedWithoutPension DeductionKey = "insurance_married_without_pension"
	KeyInsuranceSingleWithPension     DeductionKey = "insurance_single_with_pension"
	KeyInsuranceSingleWithoutPension  DeductionKey = "insurance_single_without_pension"
	KeyInsurancePerChild              DeductionKey = "insurance_per_child"
	KeyPillar3aWithPension            DeductionKey = "pillar_3a_with_pension"
	KeyPillar3aWithoutPension         DeductionKey = "pillar_3a_without_pension"
	KeyChildcareThirdParty            DeductionKey = "childcare_third_party"

	// federal only
	KeyChildDeduction DeductionKey = "child_deduction"
	KeyMarriedPersons DeductionKey = "married_persons"

	// cantonal only
	KeyTwoIncomeCouple               DeductionKey = "two_income_couple"
	KeyAssetManagement               DeductionKey = "asset_management"
	KeyChildEducationOwnContribution DeductionKey = "child_education_own_contribution"
	KeyChildEducation                DeductionKey = "child_education"
	KeyChildDeductionUnder7          DeductionKey = "child_deduction_under_7"
	KeyChildDeduction7AndOver        DeductionKey = "child_deduction_7_and_over"
)

var commonDeductionKeys = []DeductionKey{
	KeyTravelExpenses,
	KeyInsuranceMarriedWithPension,
	KeyInsuranceMarriedWithoutPension,
	KeyInsuranceSingleWithPension,
	KeyInsuranceSingleWithoutPension,
	KeyInsurancePerChild,
	KeyPillar3aWithPension,
	KeyPillar3aWithoutPension,
	KeyChildcareThirdParty,
}

// RequiredDeductionKeys lists the keys a table for j must define.
func RequiredDeductionKeys(j Jurisdiction) []DeductionKey {
	keys := slices.Clone(commonDeductionKeys)
	switch j {
	case JurisdictionFederal:
		keys = append(keys, KeyChildDeduction, KeyMarriedPersons)
	case JurisdictionCantonal:
		keys = append(keys,
			KeyTwoIncomeCouple,
			KeyAssetManagement,
			KeyChildEducationOwnContribution,
			KeyChildEducation,
			KeyChildDeductionUnder7,
			KeyChildDeduction7AndOver,
		)
	}
	return keys
}

// DeductionLimitRow holds the parameters of one deduction. A zero Minimum or
// Maximum means no bound in that direction.
type DeductionLimitRow struct {
	Key     DeductionKey    `yaml:"key" json:"key"`
	Amount  decimal.Decimal `yaml:"amount" json:"amount"`
	Percent decimal.Decimal `yaml:"percent" json:"percent"`
	Minimum decimal.Decimal `yaml:"minimum" json:"minimum"`
	Maximum decimal.Decimal `yaml:"maximum" json:"maximum"`
}

// DeductionTable maps each deduction key of one jurisdiction to exactly one row.
type DeductionTable struct {
	jurisdiction Jurisdiction
	rows         map[DeductionKey]DeductionLimitRow
	order        []DeductionKey
}

// NewDeductionTable builds a table for j. Keys outside the jurisdiction's
// closed set, duplicates, negative values, a percent on any key but asset
// management and missing required keys are errors.
func NewDeductionTable(j Jurisdiction, rows []DeductionLimitRow) (*DeductionTable, error) {
	if j != JurisdictionFederal && j != JurisdictionCantonal {
		return nil, fmt.Errorf("unknown jurisdiction %q", j)
	}
	required := RequiredDeductionKeys(j)
	t := &DeductionTable{jurisdiction: j, rows: make(map[DeductionKey]DeductionLimitRow, len(rows))}
	for _, r := range rows {
		if !slices.Contains(required, r.Key) {
			return nil, fmt.Errorf("%s deduction table: unexpected key %q", j, r.Key)
		}
		if _, dup := t.rows[r.Key]; dup {
			return nil, fmt.Errorf("%s deduction table: duplicate key %q", j, r.Key)
		}
		if r.Amount.IsNegative() || r.Percent.IsNegative() || r.Minimum.IsNegative() || r.Maximum.IsNegative() {
			return nil, fmt.Errorf("%s deduction table: key %q has a negative value", j, r.Key)
		}
		if !r.Percent.IsZero() && r.Key != KeyAssetManagement {
			return nil, fmt.Errorf("%s deduction table: key %q does not take a percent", j, r.Key)
		}
		if r.Minimum.IsPositive() && r.Maximum.IsPositive() && r.Minimum.GreaterThan(r.Maximum) {
			return nil, fmt.Errorf("%s deduction table: key %q has minimum above maximum", j, r.Key)
		}
		t.rows[r.Key] = r
		t.order = append(t.order, r.Key)
	}
	for _, k := range required {
		if _, ok := t.rows[k]; !ok {
			return nil, fmt.Errorf("%s deduction table: %w", j, &UnknownDeductionKeyError{Jurisdiction: j, Key: k})
		}
	}
	return t, nil
}

// Jurisdiction returns the jurisdiction the table belongs to.
func (t *DeductionTable) Jurisdiction() Jurisdiction {
	return t.jurisdiction
}

// Lookup returns the row for key, or *UnknownDeductionKeyError.
func (t *DeductionTable) Lookup(key DeductionKey) (DeductionLimitRow, error) {
	r, ok := t.rows[key]
	if !ok {
		return DeductionLimitRow{}, &UnknownDeductionKeyError{Jurisdiction: t.jurisdiction, Key: key}
	}
	return r, nil
}

// Rows returns the rows in the order they were defined.
func (t *DeductionTable) Rows() []DeductionLimitRow {
	out := make([]DeductionLimitRow, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.rows[k])
	}
	return out
}

// ReferenceTables is the raw, already numeric form of the five reference tables
// as read from a data file.
type ReferenceTables struct {
	TaxYear            int                 `yaml:"tax_year" json:"tax_year"`
	Canton             string              `yaml:"canton" json:"canton"`
	FederalBrackets    []FederalBracketRow `yaml:"federal_brackets" json:"federal_brackets"`
	CantonalBands      []CantonalBandRow   `yaml:"cantonal_bands" json:"cantonal_bands"`
	Multipliers        []MultiplierRow     `yaml:"multipliers" json:"multipliers"`
	FederalDeductions  []DeductionLimitRow `yaml:"federal_deductions" json:"federal_deductions"`
	CantonalDeductions []DeductionLimitRow `yaml:"cantonal_deductions" json:"cantonal_deductions"`
}

// ReferenceData is the validated, read-only set of tables shared by all
// calculations. Build it once with NewReferenceData and pass it by pointer.
type ReferenceData struct {
	taxYear            int
	canton             string
	federalBrackets    []FederalBracketRow
	cantonalBands      []CantonalBandRow
	multipliers        *MultiplierTable
	federalDeductions  *DeductionTable
	cantonalDeductions *DeductionTable
}

// NewReferenceData validates raw tables and freezes them.
func NewReferenceData(t ReferenceTables) (*ReferenceData, error) {
	if err := validateFederalBrackets(t.FederalBrackets); err != nil {
		return nil, fmt.Errorf("federal brackets: %w", err)
	}
	if err := validateCantonalBands(t.CantonalBands); err != nil {
		return nil, fmt.Errorf("cantonal bands: %w", err)
	}
	multipliers, err := NewMultiplierTable(t.Multipliers)
	if err != nil {
		return nil, fmt.Errorf("multipliers: %w", err)
	}
	federal, err := NewDeductionTable(JurisdictionFederal, t.FederalDeductions)
	if err != nil {
		return nil, err
	}
	cantonal, err := NewDeductionTable(JurisdictionCantonal, t.CantonalDeductions)
	if err != nil {
		return nil, err
	}
	return &ReferenceData{
		taxYear:            t.TaxYear,
		canton:             t.Canton,
		federalBrackets:    slices.Clone(t.FederalBrackets),
		cantonalBands:      slices.Clone(t.CantonalBands),
		multipliers:        multipliers,
		federalDeductions:  federal,
		cantonalDeductions: cantonal,
	}, nil
}

func (r *ReferenceData) TaxYear() int   { return r.taxYear }
func (r *ReferenceData) Canton() string { return r.canton }

// FederalBrackets returns a copy of the federal bracket rows.
func (r *ReferenceData) FederalBrackets() []FederalBracketRow {
	return slices.Clone(r.federalBrackets)
}

// CantonalBands returns a copy of the cantonal band rows.
func (r *ReferenceData) CantonalBands() []CantonalBandRow {
	return slices.Clone(r.cantonalBands)
}

func (r *ReferenceData) Multipliers() *MultiplierTable       { return r.multipliers }
func (r *ReferenceData) FederalDeductions() *DeductionTable  { return r.federalDeductions }
func (r *ReferenceData) CantonalDeductions() *DeductionTable { return r.cantonalDeductions }

func validateFederalBrackets(rows []FederalBracketRow) error {
	last := make(map[TaxClass]decimal.Decimal)
	for i, r := range rows {
		if r.TaxType != TaxTypeIncome || r.Authority != AuthorityFederal {
			continue
		}
		if r.MaritalClass != TaxClassSingle && r.MaritalClass != TaxClassMarriedOrWithChildren {
			return fmt.Errorf("row %d: unknown marital class %q", i, r.MaritalClass)
		}
		if r.BaseAmount.IsNegative() || r.MarginalRatePercent.IsNegative() {
			return fmt.Errorf("row %d: negative base amount or rate", i)
		}
		if prev, seen := last[r.MaritalClass]; seen && !r.Threshold.GreaterThan(prev) {
			return fmt.Errorf("row %d: threshold %s not above %s for class %q", i, r.Threshold, prev, r.MaritalClass)
		}
		last[r.MaritalClass] = r.Threshold
	}
	for _, c := range []TaxClass{TaxClassSingle, TaxClassMarriedOrWithChildren} {
		if _, ok := last[c]; !ok {
			return &EmptyBracketTableError{Class: c}
		}
	}
	return nil
}

func validateCantonalBands(bands []CantonalBandRow) error {
	if len(bands) == 0 {
		return fmt.Errorf("no bands")
	}
	for i, b := range bands {
		if !b.BandWidth.IsPositive() {
			return fmt.Errorf("band %d: width must be positive, got %s", i, b.BandWidth)
		}
		if b.MarginalRatePercent.IsNegative() {
			return fmt.Errorf("band %d: negative rate", i)
		}
	}
	return nil
}
