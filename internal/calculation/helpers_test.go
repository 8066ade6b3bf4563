package calculation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/rpgo/swiss-tax-calculator/internal/refdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func embeddedReference(t *testing.T) *domain.ReferenceData {
	t.Helper()
	ref, err := refdata.Default()
	require.NoError(t, err)
	return ref
}

// referenceWith returns the embedded tables with edits applied.
func referenceWith(t *testing.T, edit func(tb *domain.ReferenceTables)) *domain.ReferenceData {
	t.Helper()
	tables, err := refdata.EmbeddedTables()
	require.NoError(t, err)
	edit(&tables)
	ref, err := domain.NewReferenceData(tables)
	require.NoError(t, err)
	return ref
}

// withNeutralCommune adds a commune whose canton and commune multipliers are both 100%.
func withNeutralCommune(tb *domain.ReferenceTables) {
	tb.Multipliers = append(tb.Multipliers, domain.MultiplierRow{
		Commune:                  "Neutral",
		CantonMultiplierPercent:  decimal.NewFromInt(100),
		CommuneMultiplierPercent: decimal.NewFromInt(100),
		ChurchProtestantPercent:  decimal.NewFromInt(20),
	})
}

func singleEmployed(gross int64) domain.TaxpayerProfile {
	return domain.TaxpayerProfile{
		Name:          "single",
		GrossIncome:   decimal.NewFromInt(gross),
		Age:           40,
		Employed:      true,
		MaritalStatus: domain.Single,
		Commune:       "St. Gallen",
	}
}

func marriedFamily() domain.TaxpayerProfile {
	return domain.TaxpayerProfile{
		Name:              "family",
		GrossIncome:       decimal.NewFromInt(145000),
		Age:               38,
		Employed:          true,
		MaritalStatus:     domain.Married,
		NumberOfChildren:  2,
		ChildrenUnder7:    1,
		Children7AndOver:  1,
		Commune:           "Wil",
		ChurchAffiliation: domain.ChurchRomanCatholic,
		Expenses: domain.ClaimedExpenses{
			Pillar3aContribution: decimal.NewFromInt(10000),
			InsuranceExpenses:    decimal.NewFromInt(10000),
			ChildcareExpenses:    decimal.NewFromInt(30000),
			TaxableAssets:        decimal.NewFromInt(5000000),
			EducationExpenses:    decimal.NewFromInt(20000),
			TwoIncomeCouple:      true,
		},
	}
}

// recordingLogger keeps formatted messages per level.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	infos []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {}
func (l *recordingLogger) Infof(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Errorf(format string, args ...any) {}
