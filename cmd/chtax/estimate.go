package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/rpgo/swiss-tax-calculator/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// estimateOptions mirrors TaxpayerProfile as flags. Amounts are strings so
// they parse exactly as decimals.
type estimateOptions struct {
	name           string
	income         string
	age            int
	selfEmployed   bool
	married        bool
	childrenUnder7 int
	children7Plus  int
	commune        string
	church         string
	pillar3a       string
	insurance      string
	travel         string
	childcare      string
	assets         string
	education      string
	twoIncome      bool
	withSavings    bool
	save           string
}

func newEstimateCmd(a *app) *cobra.Command {
	o := &estimateOptions{}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Calculate income tax for one profile given as flags",
		Example: `  chtax estimate --income 100000 --age 40 --commune "St. Gallen" --church protestant
  chtax estimate --income 145000 --married --children-under-7 1 --children-7-plus 1 --commune Wil --savings`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := o.profile()
			if err != nil {
				return err
			}
			set := &domain.ProfileSet{TaxYear: a.reference.TaxYear(), Profiles: []domain.TaxpayerProfile{profile}}
			if o.save != "" {
				if err := output.SaveProfiles(set, o.save); err != nil {
					return fmt.Errorf("saving profile: %w", err)
				}
				a.logger.Info("profile saved", zap.String("path", o.save))
			}
			report, err := a.calculateReport(cmd.Context(), []*domain.ProfileSet{set}, o.withSavings)
			if err != nil {
				return err
			}
			if err := a.render(report); err != nil {
				return err
			}
			return failedProfiles(report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.name, "name", "estimate", "Profile name shown in the report")
	f.StringVar(&o.income, "income", "", "Gross annual income in CHF (required)")
	f.IntVar(&o.age, "age", 40, "Age in years")
	f.BoolVar(&o.selfEmployed, "self-employed", false, "Taxpayer is self-employed")
	f.BoolVar(&o.married, "married", false, "Taxpayer is married")
	f.IntVar(&o.childrenUnder7, "children-under-7", 0, "Children under 7")
	f.IntVar(&o.children7Plus, "children-7-plus", 0, "Children aged 7 and over")
	f.StringVar(&o.commune, "commune", "St. Gallen", "Commune of residence")
	f.StringVar(&o.church, "church", "", "Church affiliation: protestant, roman_catholic, christian_catholic or none")
	f.StringVar(&o.pillar3a, "pillar3a", "0", "Pillar 3a contribution in CHF")
	f.StringVar(&o.insurance, "insurance", "0", "Insurance premiums and savings interest in CHF")
	f.StringVar(&o.travel, "travel", "0", "Commuting costs in CHF")
	f.StringVar(&o.childcare, "childcare", "0", "Third-party childcare costs in CHF")
	f.StringVar(&o.assets, "assets", "0", "Taxable assets in CHF")
	f.StringVar(&o.education, "education", "0", "Education costs in CHF")
	f.BoolVar(&o.twoIncome, "two-income", false, "Both spouses earn an income")
	f.BoolVar(&o.withSavings, "savings", false, "Add deduction savings recommendations to the report")
	f.StringVar(&o.save, "save", "", "Also write the profile to this YAML file for use with calc")
	_ = cmd.MarkFlagRequired("income")
	return cmd
}

func (o *estimateOptions) profile() (domain.TaxpayerProfile, error) {
	var errs []error
	amount := func(flag, raw string) decimal.Decimal {
		v, err := parseAmount(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("--%s: %w", flag, err))
		}
		return v
	}

	status := domain.Single
	if o.married {
		status = domain.Married
	}
	p := domain.TaxpayerProfile{
		Name:              o.name,
		GrossIncome:       amount("income", o.income),
		Age:               o.age,
		Employed:          !o.selfEmployed,
		MaritalStatus:     status,
		NumberOfChildren:  o.childrenUnder7 + o.children7Plus,
		ChildrenUnder7:    o.childrenUnder7,
		Children7AndOver:  o.children7Plus,
		Commune:           o.commune,
		ChurchAffiliation: domain.ChurchAffiliation(o.church),
		Expenses: domain.ClaimedExpenses{
			Pillar3aContribution: amount("pillar3a", o.pillar3a),
			InsuranceExpenses:    amount("insurance", o.insurance),
			TravelExpenses:       amount("travel", o.travel),
			ChildcareExpenses:    amount("childcare", o.childcare),
			TaxableAssets:        amount("assets", o.assets),
			EducationExpenses:    amount("education", o.education),
			TwoIncomeCouple:      o.twoIncome,
		},
	}
	if len(errs) > 0 {
		return domain.TaxpayerProfile{}, errors.Join(errs...)
	}
	return p, nil
}

// parseAmount accepts plain decimals and Swiss thousands separators (100'000).
func parseAmount(raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), "'", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not an amount", raw)
	}
	return v, nil
}
