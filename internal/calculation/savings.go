package calculation

import (
	"context"
	"fmt"
	"sort"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	money "github.com/rpgo/swiss-tax-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=savings.go -destination=mocks/mock_predictor.go -package=mocks

// FeatureVector is the flat input a savings predictor consumes.
type FeatureVector struct {
	GrossIncome       decimal.Decimal          `json:"income_gross"`
	Age               int                      `json:"age"`
	Employed          bool                     `json:"employed"`
	MaritalStatus     domain.MaritalStatus     `json:"marital_status"`
	TwoIncomeCouple   bool                     `json:"is_two_income_couple"`
	ChildrenUnder7    int                      `json:"number_of_children_under_7"`
	Children7AndOver  int                      `json:"number_of_children_7_and_over"`
	NumberOfChildren  int                      `json:"number_of_children"`
	Commune           string                   `json:"commune"`
	ChurchAffiliation domain.ChurchAffiliation `json:"church_affiliation"`

	Pillar3aContribution decimal.Decimal `json:"contribution_pillar_3a"`
	InsuranceExpenses    decimal.Decimal `json:"total_insurance_expenses"`
	TravelExpenses       decimal.Decimal `json:"travel_expenses_main_income"`
	ChildcareExpenses    decimal.Decimal `json:"child_care_expenses_third_party"`
	TaxableAssets        decimal.Decimal `json:"taxable_assets"`
	EducationExpenses    decimal.Decimal `json:"child_education_expenses"`
}

// FeaturesFromProfile flattens a profile. A missing church affiliation becomes none.
func FeaturesFromProfile(p *domain.TaxpayerProfile) FeatureVector {
	return FeatureVector{
		GrossIncome:          p.GrossIncome,
		Age:                  p.Age,
		Employed:             p.Employed,
		MaritalStatus:        p.MaritalStatus,
		TwoIncomeCouple:      p.Expenses.TwoIncomeCouple,
		ChildrenUnder7:       p.ChildrenUnder7,
		Children7AndOver:     p.Children7AndOver,
		NumberOfChildren:     p.NumberOfChildren,
		Commune:              p.Commune,
		ChurchAffiliation:    p.ChurchAffiliation.Normalize(),
		Pillar3aContribution: p.Expenses.Pillar3aContribution,
		InsuranceExpenses:    p.Expenses.InsuranceExpenses,
		TravelExpenses:       p.Expenses.TravelExpenses,
		ChildcareExpenses:    p.Expenses.ChildcareExpenses,
		TaxableAssets:        p.Expenses.TaxableAssets,
		EducationExpenses:    p.Expenses.EducationExpenses,
	}
}

// Profile rebuilds the taxpayer profile the vector describes.
func (f FeatureVector) Profile() domain.TaxpayerProfile {
	return domain.TaxpayerProfile{
		GrossIncome:       f.GrossIncome,
		Age:               f.Age,
		Employed:          f.Employed,
		MaritalStatus:     f.MaritalStatus,
		NumberOfChildren:  f.NumberOfChildren,
		ChildrenUnder7:    f.ChildrenUnder7,
		Children7AndOver:  f.Children7AndOver,
		Commune:           f.Commune,
		ChurchAffiliation: f.ChurchAffiliation,
		Expenses: domain.ClaimedExpenses{
			Pillar3aContribution: f.Pillar3aContribution,
			InsuranceExpenses:    f.InsuranceExpenses,
			TravelExpenses:       f.TravelExpenses,
			ChildcareExpenses:    f.ChildcareExpenses,
			TaxableAssets:        f.TaxableAssets,
			EducationExpenses:    f.EducationExpenses,
			TwoIncomeCouple:      f.TwoIncomeCouple,
		},
	}
}

// Predictor estimates the tax saving in CHF from fully using one deduction.
type Predictor interface {
	Predict(ctx context.Context, f FeatureVector) (decimal.Decimal, error)
}

// LeverCeiling is the claim used to max out a lever. It is above every cap in
// the deduction tables.
var LeverCeiling = decimal.NewFromInt(50000)

// ScenarioPredictor estimates a lever's saving by recomputing the tax with the
// lever's claim raised to Ceiling and comparing against the actual claim.
type ScenarioPredictor struct {
	Calculator *Calculator
	Lever      domain.SavingsLever
	Ceiling    decimal.Decimal
}

// NewScenarioPredictor creates a predictor for lever using LeverCeiling.
func NewScenarioPredictor(calc *Calculator, lever domain.SavingsLever) *ScenarioPredictor {
	return &ScenarioPredictor{Calculator: calc, Lever: lever, Ceiling: LeverCeiling}
}

// Predict returns max(0, baseline tax - optimised tax).
func (sp *ScenarioPredictor) Predict(ctx context.Context, f FeatureVector) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	baselineProfile := f.Profile()
	baseline, err := sp.Calculator.Calculate(&baselineProfile)
	if err != nil {
		return decimal.Zero, fmt.Errorf("baseline: %w", err)
	}

	optimisedProfile := f.Profile()
	switch sp.Lever {
	case domain.LeverPillar3a:
		optimisedProfile.Expenses.Pillar3aContribution = sp.Ceiling
	case domain.LeverChildcare:
		optimisedProfile.Expenses.ChildcareExpenses = sp.Ceiling
	case domain.LeverInsurance:
		optimisedProfile.Expenses.InsuranceExpenses = sp.Ceiling
	default:
		return decimal.Zero, fmt.Errorf("unknown savings lever %q", sp.Lever)
	}
	optimised, err := sp.Calculator.Calculate(&optimisedProfile)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s scenario: %w", sp.Lever, err)
	}

	saving := baseline.Breakdown.TotalIncomeTax.Sub(optimised.Breakdown.TotalIncomeTax)
	return money.NonNegative(saving), nil
}

// Recommendation thresholds in CHF.
var (
	MinimumSaving   = decimal.NewFromInt(100)
	MediumThreshold = decimal.NewFromInt(500)
	HighThreshold   = decimal.NewFromInt(2000)
)

// ClassifySaving grades an amount: high above 2,000, medium above 500, else low.
func ClassifySaving(amount decimal.Decimal) domain.SavingsLevel {
	switch {
	case amount.GreaterThan(HighThreshold):
		return domain.SavingsHigh
	case amount.GreaterThan(MediumThreshold):
		return domain.SavingsMedium
	default:
		return domain.SavingsLow
	}
}

// Advisor turns per-lever predictions into ranked recommendations.
type Advisor struct {
	Levers     []domain.SavingsLever
	Predictors map[domain.SavingsLever]Predictor
	Logger     Logger
}

// DefaultLevers is the order levers are evaluated in.
var DefaultLevers = []domain.SavingsLever{domain.LeverPillar3a, domain.LeverChildcare, domain.LeverInsurance}

// NewAdvisor creates an advisor with a ScenarioPredictor per lever.
func NewAdvisor(calc *Calculator) *Advisor {
	predictors := make(map[domain.SavingsLever]Predictor, len(DefaultLevers))
	for _, lever := range DefaultLevers {
		predictors[lever] = NewScenarioPredictor(calc, lever)
	}
	return NewAdvisorWithPredictors(predictors)
}

// NewAdvisorWithPredictors creates an advisor over externally supplied predictors.
func NewAdvisorWithPredictors(predictors map[domain.SavingsLever]Predictor) *Advisor {
	return &Advisor{
		Levers:     DefaultLevers,
		Predictors: predictors,
		Logger:     NopLogger{},
	}
}

// Recommend runs every lever's predictor and keeps savings of at least
// MinimumSaving, sorted by saving descending. A predictor error aborts the
// recommendation; it is never read as a zero saving.
func (a *Advisor) Recommend(ctx context.Context, f FeatureVector) ([]domain.SavingsRecommendation, error) {
	var recs []domain.SavingsRecommendation
	for _, lever := range a.Levers {
		predictor, ok := a.Predictors[lever]
		if !ok {
			return nil, fmt.Errorf("no predictor for savings lever %q", lever)
		}
		saving, err := predictor.Predict(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("predict %s: %w", lever, err)
		}
		a.Logger.Debugf("lever %s: estimated saving %s", lever, saving.StringFixed(2))
		if saving.LessThan(MinimumSaving) {
			continue
		}
		recs = append(recs, domain.SavingsRecommendation{
			Lever:           lever,
			Label:           lever.Label(),
			EstimatedSaving: money.Round2(saving),
			Level:           ClassifySaving(saving),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].EstimatedSaving.GreaterThan(recs[j].EstimatedSaving)
	})
	return recs, nil
}
