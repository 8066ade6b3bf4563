package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/swiss-tax-calculator/internal/calculation"
	"github.com/rpgo/swiss-tax-calculator/internal/config"
	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/rpgo/swiss-tax-calculator/internal/refdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profilesFile = "../testdata/profiles.yaml"

func loadProfiles(t *testing.T) *domain.ProfileSet {
	t.Helper()
	set, err := config.NewInputParser().LoadFromFile(profilesFile)
	require.NoError(t, err)
	return set
}

func calculateAll(t *testing.T, ref *domain.ReferenceData, set *domain.ProfileSet) map[string]calculation.BatchEntry {
	t.Helper()
	entries, err := calculation.NewCalculator(ref).CalculateBatch(context.Background(), set.Profiles, 3)
	require.NoError(t, err)

	byName := make(map[string]calculation.BatchEntry, len(entries))
	for _, e := range entries {
		byName[e.Profile.Name] = e
	}
	return byName
}

func TestEndToEndCalculation(t *testing.T) {
	set := loadProfiles(t)
	require.Len(t, set.Profiles, 5)

	ref, err := refdata.Default()
	require.NoError(t, err)
	results := calculateAll(t, ref, set)

	anna := results["anna"]
	require.NoError(t, anna.Err)
	assert.Equal(t, "18555.42", anna.Result.Breakdown.TotalIncomeTax.StringFixed(2))

	family := results["family"]
	require.NoError(t, family.Err)
	b := family.Result.Breakdown
	assert.Equal(t, "718.70", b.FederalTax.StringFixed(2))
	assert.Equal(t, "6982.46", b.TotalCantonalMunicipalChurchTax.StringFixed(2))
	assert.Equal(t, "7701.16", b.TotalIncomeTax.StringFixed(2))
	assert.Equal(t, domain.TaxClassMarriedOrWithChildren, family.Result.FederalTaxClass)

	byDates := results["family_by_dates"]
	require.NoError(t, byDates.Err)
	assert.Equal(t, 1, byDates.Profile.ChildrenUnder7)
	assert.Equal(t, 1, byDates.Profile.Children7AndOver)
	assert.True(t, b.TotalIncomeTax.Equal(byDates.Result.Breakdown.TotalIncomeTax),
		"birth dates resolve to the same split as explicit counts")

	student := results["student"]
	require.NoError(t, student.Err)
	assert.True(t, student.Result.Breakdown.TotalIncomeTax.IsZero())

	lost := results["lost"]
	require.Error(t, lost.Err)
	var unknown *domain.UnknownCommuneError
	assert.ErrorAs(t, lost.Err, &unknown)
	assert.Nil(t, lost.Result)
}

func TestCustomReferenceData(t *testing.T) {
	embedded, err := os.ReadFile("../../internal/refdata/data/sg_2025.yaml")
	require.NoError(t, err)

	testdorf := `multipliers:
  - commune: Testdorf
    canton_multiplier_percent: 100
    commune_multiplier_percent: 100
    church_protestant_percent: 0
    church_roman_catholic_percent: 0
    church_christian_catholic_percent: 0
`
	custom := strings.Replace(string(embedded), "multipliers:\n", testdorf, 1)
	custom = strings.Replace(custom, "tax_year: 2025", "tax_year: 2026", 1)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	ref, err := refdata.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2026, ref.TaxYear())

	set := loadProfiles(t)
	set.Profiles[0].Commune = "Testdorf"
	results := calculateAll(t, ref, set)

	anna := results["anna"]
	require.NoError(t, anna.Err)
	b := anna.Result.Breakdown
	assert.Equal(t, "6950.00", b.CantonalTax.StringFixed(2))
	assert.Equal(t, "6950.00", b.MunicipalTax.StringFixed(2))
	assert.Equal(t, "15566.92", b.TotalIncomeTax.StringFixed(2))
}

func TestConfigurationValidation(t *testing.T) {
	parser := config.NewInputParser()

	_, err := parser.LoadFromFile("../testdata/invalid_profiles.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "divorced")

	_, err = parser.LoadFromFile("../testdata/does_not_exist.yaml")
	assert.Error(t, err)

	_, err = refdata.LoadFromFile(profilesFile)
	assert.Error(t, err, "a profile file is not a reference table file")
}
