package calculation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpgo/swiss-tax-calculator/internal/calculation"
	"github.com/rpgo/swiss-tax-calculator/internal/calculation/mocks"
	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var _ calculation.Predictor = (*mocks.MockPredictor)(nil)

func newMockAdvisor(ctrl *gomock.Controller, savings map[domain.SavingsLever]string) *calculation.Advisor {
	predictors := make(map[domain.SavingsLever]calculation.Predictor, len(savings))
	for lever, amount := range savings {
		m := mocks.NewMockPredictor(ctrl)
		m.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(decimal.RequireFromString(amount), nil)
		predictors[lever] = m
	}
	return calculation.NewAdvisorWithPredictors(predictors)
}

func TestAdvisor_RanksAndFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	advisor := newMockAdvisor(ctrl, map[domain.SavingsLever]string{
		domain.LeverPillar3a:  "2500",
		domain.LeverChildcare: "50",
		domain.LeverInsurance: "800",
	})

	recs, err := advisor.Recommend(context.Background(), calculation.FeatureVector{})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, domain.LeverPillar3a, recs[0].Lever)
	assert.Equal(t, domain.SavingsHigh, recs[0].Level)
	assert.Equal(t, "Pillar 3a contributions", recs[0].Label)
	assert.True(t, recs[0].EstimatedSaving.Equal(decimal.NewFromInt(2500)))

	assert.Equal(t, domain.LeverInsurance, recs[1].Lever)
	assert.Equal(t, domain.SavingsMedium, recs[1].Level)
}

func TestAdvisor_Boundaries(t *testing.T) {
	ctrl := gomock.NewController(t)
	advisor := newMockAdvisor(ctrl, map[domain.SavingsLever]string{
		domain.LeverPillar3a:  "2000",
		domain.LeverChildcare: "100",
		domain.LeverInsurance: "500",
	})

	recs, err := advisor.Recommend(context.Background(), calculation.FeatureVector{})
	require.NoError(t, err)
	require.Len(t, recs, 3, "a saving of exactly 100 is still reported")

	levels := map[domain.SavingsLever]domain.SavingsLevel{}
	for _, r := range recs {
		levels[r.Lever] = r.Level
	}
	assert.Equal(t, domain.SavingsMedium, levels[domain.LeverPillar3a])
	assert.Equal(t, domain.SavingsLow, levels[domain.LeverInsurance])
	assert.Equal(t, domain.SavingsLow, levels[domain.LeverChildcare])
	assert.Equal(t, domain.LeverChildcare, recs[2].Lever)
}

func TestAdvisor_PredictorError(t *testing.T) {
	ctrl := gomock.NewController(t)
	boom := errors.New("model unavailable")

	pillar := mocks.NewMockPredictor(ctrl)
	pillar.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(decimal.NewFromInt(3000), nil)
	childcare := mocks.NewMockPredictor(ctrl)
	childcare.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(decimal.Zero, boom)

	advisor := calculation.NewAdvisorWithPredictors(map[domain.SavingsLever]calculation.Predictor{
		domain.LeverPillar3a:  pillar,
		domain.LeverChildcare: childcare,
		domain.LeverInsurance: mocks.NewMockPredictor(ctrl),
	})

	recs, err := advisor.Recommend(context.Background(), calculation.FeatureVector{})
	assert.Nil(t, recs)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "childcare")
}

func TestAdvisor_MissingPredictor(t *testing.T) {
	advisor := calculation.NewAdvisorWithPredictors(map[domain.SavingsLever]calculation.Predictor{})
	_, err := advisor.Recommend(context.Background(), calculation.FeatureVector{})
	assert.Error(t, err)
}

func TestAdvisor_PassesFeaturesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := calculation.FeatureVector{GrossIncome: decimal.NewFromInt(90000), Commune: "Wil"}

	predictors := map[domain.SavingsLever]calculation.Predictor{}
	for _, lever := range calculation.DefaultLevers {
		m := mocks.NewMockPredictor(ctrl)
		m.EXPECT().Predict(gomock.Any(), f).Return(decimal.Zero, nil).Times(1)
		predictors[lever] = m
	}

	recs, err := calculation.NewAdvisorWithPredictors(predictors).Recommend(context.Background(), f)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
