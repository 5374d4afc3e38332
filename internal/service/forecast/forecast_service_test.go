package forecast

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopelouisville/dashboard/internal/domain"
	"github.com/hopelouisville/dashboard/internal/pkg/constants"
)

func series(start int, totals ...int) []domain.HistoricalPoint {
	out := make([]domain.HistoricalPoint, 0, len(totals))
	for i, total := range totals {
		out = append(out, domain.HistoricalPoint{Year: start + i, Total: total})
	}
	return out
}

func TestProject_LinearSeries(t *testing.T) {
	svc := NewForecastService(3)

	got, err := svc.Project(series(2020, 1000, 1100, 1200, 1300, 1400), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 2025, got[0].Year)
	assert.Equal(t, 1500, got[0].Estimate)
	assert.Equal(t, 1500, got[0].Lower)
	assert.Equal(t, 1500, got[0].Upper)
	assert.Equal(t, 2026, got[1].Year)
	assert.Equal(t, 1600, got[1].Estimate)
	assert.True(t, got[0].Trend.Equal(decimal.NewFromInt(100)), got[0].Trend.String())
}

func TestProject_UnsortedInputAndGaps(t *testing.T) {
	svc := NewForecastService(0)
	input := []domain.HistoricalPoint{
		{Year: 2022, Total: 1200},
		{Year: 2020, Total: 1000},
		{Year: 2021, Total: 0},
	}

	got, err := svc.Project(input, 1)
	require.NoError(t, err)

	assert.Equal(t, 2023, got[0].Year)
	assert.Equal(t, 1300, got[0].Estimate)
}

func TestProject_NoisySeriesHasBand(t *testing.T) {
	svc := NewForecastService(3)

	got, err := svc.Project(series(2017, 1180, 1250, 1100, 1300, 1150, 1210), 3)
	require.NoError(t, err)

	for _, p := range got {
		assert.Less(t, p.Lower, p.Estimate)
		assert.Greater(t, p.Upper, p.Estimate)
		assert.GreaterOrEqual(t, p.Lower, 0)
	}
}

func TestProject_ClampsAtZero(t *testing.T) {
	svc := NewForecastService(3)

	got, err := svc.Project(series(2022, 300, 150, 10), 5)
	require.NoError(t, err)

	last := got[len(got)-1]
	assert.Equal(t, 0, last.Estimate)
	assert.Equal(t, 0, last.Lower)
	assert.GreaterOrEqual(t, last.Upper, 0)
}

func TestProject_Errors(t *testing.T) {
	svc := NewForecastService(3)

	_, err := svc.Project(series(2024, 1157), 1)
	assert.ErrorIs(t, err, constants.ErrNotEnoughData)

	_, err = svc.Project(nil, 1)
	assert.ErrorIs(t, err, constants.ErrNotEnoughData)

	_, err = svc.Project(series(2023, 1100, 1157), 0)
	assert.ErrorIs(t, err, constants.ErrBadRequest)

	_, err = svc.Project(series(2023, 1100, 1157), MaxHorizon+1)
	assert.ErrorIs(t, err, constants.ErrBadRequest)
}
