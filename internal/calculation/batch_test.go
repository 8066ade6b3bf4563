package calculation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBatch_KeepsOrderAndIsolatesFailures(t *testing.T) {
	calc := NewCalculator(embeddedReference(t))
	logger := &recordingLogger{}
	calc.SetLogger(logger)

	bad := singleEmployed(90000)
	bad.Commune = "Atlantis"
	profiles := []domain.TaxpayerProfile{singleEmployed(100000), bad, marriedFamily()}

	entries, err := calc.CalculateBatch(context.Background(), profiles, 2)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for i, e := range entries {
		assert.Equal(t, i, e.Index)
		assert.Equal(t, profiles[i].Name, e.Profile.Name)
	}
	require.NoError(t, entries[0].Err)
	assertAmount(t, "first total", "18555.42", entries[0].Result.Breakdown.TotalIncomeTax)
	assert.True(t, errors.Is(entries[1].Err, domain.ErrUnknownCommune))
	assert.Nil(t, entries[1].Result)
	require.NoError(t, entries[2].Err)
	assertAmount(t, "family total", "7701.16", entries[2].Result.Breakdown.TotalIncomeTax)

	assert.Len(t, logger.infos, 1)
}

func TestCalculateBatch_MatchesSequential(t *testing.T) {
	calc := NewCalculator(embeddedReference(t))

	var profiles []domain.TaxpayerProfile
	for i := 0; i < 40; i++ {
		p := singleEmployed(int64(30000 + i*7500))
		p.Name = fmt.Sprintf("p%02d", i)
		profiles = append(profiles, p)
	}

	entries, err := calc.CalculateBatch(context.Background(), profiles, 0)
	require.NoError(t, err)

	for i := range profiles {
		want, err := calc.Calculate(&profiles[i])
		require.NoError(t, err)
		require.NoError(t, entries[i].Err)
		assert.Equal(t, want.Breakdown, entries[i].Result.Breakdown, "profile %s", profiles[i].Name)
	}
}

func TestCalculateBatch_CancelledContext(t *testing.T) {
	calc := NewCalculator(embeddedReference(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	profiles := []domain.TaxpayerProfile{singleEmployed(100000), marriedFamily()}
	entries, err := calc.CalculateBatch(ctx, profiles, 1)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.ErrorIs(t, e.Err, context.Canceled)
		assert.Nil(t, e.Result)
	}
}
