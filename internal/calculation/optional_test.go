package calculation

import (
	"testing"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFederalOptionalDeductions_SingleEmployed(t *testing.T) {
	ref := embeddedReference(t)
	p := singleEmployed(100000)
	p.Expenses = domain.ClaimedExpenses{
		TravelExpenses:       decimal.NewFromInt(5000),
		InsuranceExpenses:    decimal.NewFromInt(2000),
		Pillar3aContribution: decimal.NewFromInt(7258),
	}

	got, err := FederalOptionalDeductions(ref.FederalDeductions(), &p)
	require.NoError(t, err)

	assert.True(t, got.Travel.Equal(dec("3300")), "travel capped, got %s", got.Travel)
	assert.True(t, got.InsuranceAdults.Equal(dec("1800")), "insurance capped, got %s", got.InsuranceAdults)
	assert.True(t, got.Pillar3a.Equal(dec("7258")), "3a, got %s", got.Pillar3a)
	assert.True(t, got.MarriedDeduction.IsZero())
	assert.True(t, got.ChildDeduction.IsZero())
	assert.True(t, got.Total().Equal(dec("12358")), "total, got %s", got.Total())
}

func TestCantonalOptionalDeductions_SingleEmployed(t *testing.T) {
	ref := embeddedReference(t)
	p := singleEmployed(100000)
	p.Expenses = domain.ClaimedExpenses{
		TravelExpenses:       decimal.NewFromInt(5000),
		InsuranceExpenses:    decimal.NewFromInt(2000),
		Pillar3aContribution: decimal.NewFromInt(7258),
	}

	got, err := CantonalOptionalDeductions(ref.CantonalDeductions(), &p)
	require.NoError(t, err)

	assert.True(t, got.Travel.Equal(dec("4000")), "travel capped, got %s", got.Travel)
	assert.True(t, got.InsuranceAdults.Equal(dec("2000")), "claim below cap, got %s", got.InsuranceAdults)
	assert.True(t, got.TwoIncomeCouple.IsZero(), "single never gets the two-income deduction")
	assert.True(t, got.Total().Equal(dec("13258")), "total, got %s", got.Total())
}

func TestOptionalDeductions_MarriedFamily(t *testing.T) {
	ref := embeddedReference(t)
	p := marriedFamily()

	fed, err := FederalOptionalDeductions(ref.FederalDeductions(), &p)
	require.NoError(t, err)
	fedExpected := map[string][2]decimal.Decimal{
		"insurance adults":   {fed.InsuranceAdults, dec("3700")},
		"insurance children": {fed.InsuranceChildren, dec("1400")},
		"pillar 3a":          {fed.Pillar3a, dec("7258")},
		"children":           {fed.ChildDeduction, dec("13600")},
		"married":            {fed.MarriedDeduction, dec("2800")},
		"childcare":          {fed.ChildcareDeduction, dec("25800")},
		"total":              {fed.Total(), dec("54558")},
	}
	for name, pair := range fedExpected {
		assert.True(t, pair[0].Equal(pair[1]), "federal %s: Expected %s, got %s", name, pair[1], pair[0])
	}

	cant, err := CantonalOptionalDeductions(ref.CantonalDeductions(), &p)
	require.NoError(t, err)
	cantExpected := map[string][2]decimal.Decimal{
		"insurance adults":   {cant.InsuranceAdults, dec("4800")},
		"insurance children": {cant.InsuranceChildren, dec("2000")},
		"pillar 3a":          {cant.Pillar3a, dec("7258")},
		"two income":         {cant.TwoIncomeCouple, dec("500")},
		"asset management":   {cant.AssetManagement, dec("6000")},
		"childcare":          {cant.ChildcareDeduction, dec("26700")},
		"education":          {cant.ChildEducation, dec("13700")},
		"children by age":    {cant.ChildDeductionByAge, dec("18400")},
		"total":              {cant.Total(), dec("79358")},
	}
	for name, pair := range cantExpected {
		assert.True(t, pair[0].Equal(pair[1]), "cantonal %s: Expected %s, got %s", name, pair[1], pair[0])
	}
}

func TestPillar3a_SelfEmployedCap(t *testing.T) {
	ref := embeddedReference(t)

	tests := []struct {
		name     string
		gross    int64
		claim    int64
		expected string
	}{
		{"claim above a fifth of income is kept", 50000, 20000, "20000"},
		{"claim below cap", 50000, 5000, "5000"},
		{"maximum binds", 250000, 40000, "36288"},
		{"cap does not depend on income", 0, 1000, "1000"},
		{"zero claim", 80000, 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := singleEmployed(tt.gross)
			p.Employed = false
			p.Expenses.Pillar3aContribution = decimal.NewFromInt(tt.claim)

			fed, err := FederalOptionalDeductions(ref.FederalDeductions(), &p)
			require.NoError(t, err)
			assert.True(t, fed.Pillar3a.Equal(dec(tt.expected)), "federal: Expected %s, got %s", tt.expected, fed.Pillar3a)

			cant, err := CantonalOptionalDeductions(ref.CantonalDeductions(), &p)
			require.NoError(t, err)
			assert.True(t, cant.Pillar3a.Equal(dec(tt.expected)), "cantonal: Expected %s, got %s", tt.expected, cant.Pillar3a)
		})
	}
}

func TestOptionalDeductions_ZeroWithoutClaimOrFlag(t *testing.T) {
	ref := embeddedReference(t)

	tests := []struct {
		name     string
		mutate   func(p *domain.TaxpayerProfile)
		federal  func(d domain.FederalDeductions) decimal.Decimal
		cantonal func(d domain.CantonalDeductions) decimal.Decimal
	}{
		{
			name:     "married couple not declared two-income",
			mutate:   func(p *domain.TaxpayerProfile) { p.Expenses.TwoIncomeCouple = false },
			cantonal: func(d domain.CantonalDeductions) decimal.Decimal { return d.TwoIncomeCouple },
		},
		{
			name:     "children without childcare costs",
			mutate:   func(p *domain.TaxpayerProfile) { p.Expenses.ChildcareExpenses = decimal.Zero },
			federal:  func(d domain.FederalDeductions) decimal.Decimal { return d.ChildcareDeduction },
			cantonal: func(d domain.CantonalDeductions) decimal.Decimal { return d.ChildcareDeduction },
		},
		{
			name:     "zero travel claim",
			mutate:   func(p *domain.TaxpayerProfile) { p.Expenses.TravelExpenses = decimal.Zero },
			federal:  func(d domain.FederalDeductions) decimal.Decimal { return d.Travel },
			cantonal: func(d domain.CantonalDeductions) decimal.Decimal { return d.Travel },
		},
		{
			name:     "zero insurance claim",
			mutate:   func(p *domain.TaxpayerProfile) { p.Expenses.InsuranceExpenses = decimal.Zero },
			federal:  func(d domain.FederalDeductions) decimal.Decimal { return d.InsuranceAdults },
			cantonal: func(d domain.CantonalDeductions) decimal.Decimal { return d.InsuranceAdults },
		},
		{
			name:     "zero pillar 3a claim",
			mutate:   func(p *domain.TaxpayerProfile) { p.Expenses.Pillar3aContribution = decimal.Zero },
			federal:  func(d domain.FederalDeductions) decimal.Decimal { return d.Pillar3a },
			cantonal: func(d domain.CantonalDeductions) decimal.Decimal { return d.Pillar3a },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := marriedFamily()
			p.Expenses.TravelExpenses = decimal.NewFromInt(2000)
			require.True(t, p.HasChildren())

			baseFed, err := FederalOptionalDeductions(ref.FederalDeductions(), &p)
			require.NoError(t, err)
			baseCant, err := CantonalOptionalDeductions(ref.CantonalDeductions(), &p)
			require.NoError(t, err)

			tt.mutate(&p)
			fed, err := FederalOptionalDeductions(ref.FederalDeductions(), &p)
			require.NoError(t, err)
			cant, err := CantonalOptionalDeductions(ref.CantonalDeductions(), &p)
			require.NoError(t, err)

			if tt.federal != nil {
				assert.True(t, tt.federal(baseFed).IsPositive(), "federal baseline should be positive")
				assert.True(t, tt.federal(fed).IsZero(), "federal: Expected 0, got %s", tt.federal(fed))
			}
			if tt.cantonal != nil {
				assert.True(t, tt.cantonal(baseCant).IsPositive(), "cantonal baseline should be positive")
				assert.True(t, tt.cantonal(cant).IsZero(), "cantonal: Expected 0, got %s", tt.cantonal(cant))
			}
		})
	}
}

func TestInsuranceKey(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.MaritalStatus
		employed bool
		pillar3a int64
		expected domain.DeductionKey
	}{
		{"single employed", domain.Single, true, 0, domain.KeyInsuranceSingleWithPension},
		{"single self-employed paying 3a", domain.Single, false, 1000, domain.KeyInsuranceSingleWithPension},
		{"single self-employed without 3a", domain.Single, false, 0, domain.KeyInsuranceSingleWithoutPension},
		{"married employed", domain.Married, true, 0, domain.KeyInsuranceMarriedWithPension},
		{"married without pension", domain.Married, false, 0, domain.KeyInsuranceMarriedWithoutPension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.TaxpayerProfile{
				MaritalStatus: tt.status,
				Employed:      tt.employed,
				Expenses:      domain.ClaimedExpenses{Pillar3aContribution: decimal.NewFromInt(tt.pillar3a)},
			}
			assert.Equal(t, tt.expected, insuranceKey(&p))
		})
	}
}

func TestCantonalOptionalDeductions_Education(t *testing.T) {
	ref := embeddedReference(t)

	tests := []struct {
		name     string
		claim    int64
		expected string
	}{
		{"below own contribution", 2000, "0"},
		{"own contribution subtracted", 10000, "6800"},
		{"capped", 50000, "13700"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := marriedFamily()
			p.Expenses.EducationExpenses = decimal.NewFromInt(tt.claim)
			got, err := CantonalOptionalDeductions(ref.CantonalDeductions(), &p)
			require.NoError(t, err)
			assert.True(t, got.ChildEducation.Equal(dec(tt.expected)), "Expected %s, got %s", tt.expected, got.ChildEducation)
		})
	}
}

func TestCantonalOptionalDeductions_AssetManagementSmallPortfolio(t *testing.T) {
	ref := embeddedReference(t)
	p := singleEmployed(80000)
	p.Expenses.TaxableAssets = decimal.NewFromInt(200000)

	got, err := CantonalOptionalDeductions(ref.CantonalDeductions(), &p)
	require.NoError(t, err)
	assert.True(t, got.AssetManagement.Equal(dec("400")), "0.2%% of 200,000, got %s", got.AssetManagement)
}

func TestCantonalOptionalDeductions_TwoIncomeNeedsMarriage(t *testing.T) {
	ref := embeddedReference(t)
	p := singleEmployed(80000)
	p.Expenses.TwoIncomeCouple = true

	got, err := CantonalOptionalDeductions(ref.CantonalDeductions(), &p)
	require.NoError(t, err)
	assert.True(t, got.TwoIncomeCouple.IsZero())
}

func TestOptionalDeductions_WrongTable(t *testing.T) {
	ref := embeddedReference(t)
	p := singleEmployed(100000)

	_, err := FederalOptionalDeductions(ref.CantonalDeductions(), &p)
	assert.Error(t, err, "cantonal table passed to the federal rules")

	_, err = CantonalOptionalDeductions(ref.FederalDeductions(), &p)
	assert.Error(t, err, "federal table passed to the cantonal rules")

	_, err = FederalOptionalDeductions(nil, &p)
	assert.Error(t, err)
}
