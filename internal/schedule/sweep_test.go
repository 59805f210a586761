package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayahead-procurement/internal/model"
)

func sawtoothSeries(n int) model.Series {
	pattern := []float64{100, 90, 80, 95, 70, 85, 110, 60, 75, 105}
	prices := make([]float64, 0, n)
	for len(prices) < n {
		prices = append(prices, pattern[len(prices)%len(pattern)])
	}
	return hourlySeries(prices...)
}

func TestSweepPreservesRequestOrder(t *testing.T) {
	s := sawtoothSeries(48)
	partsList := []int{24, 1, 6, 4}

	res, err := Sweep(context.Background(), s, partsList, 1000, 10, FallbackForfeit)
	require.NoError(t, err)
	require.Len(t, res.Entries, len(partsList))

	for i, n := range partsList {
		assert.Equal(t, n, res.Entries[i].Parts)
		assert.Empty(t, res.Entries[i].Err)
	}
}

func TestSweepMatchesSingleBuild(t *testing.T) {
	s := sawtoothSeries(30)

	res, err := Sweep(context.Background(), s, []int{1, 2, 3, 5}, 900, 10, FallbackForfeit)
	require.NoError(t, err)

	for _, entry := range res.Entries {
		plan, err := Build(s, entry.Parts, 900, 10, FallbackForfeit)
		require.NoError(t, err)
		assert.Equal(t, plan.TotalCost, entry.TotalCost, "parts=%d", entry.Parts)
		assert.Equal(t, len(plan.Executions), entry.Executions, "parts=%d", entry.Parts)
	}
}

func TestSweepDeterministic(t *testing.T) {
	s := sawtoothSeries(100)
	partsList := []int{1, 2, 3, 4, 6, 12, 24}

	first, err := Sweep(context.Background(), s, partsList, 1000, 10, FallbackForfeit)
	require.NoError(t, err)
	second, err := Sweep(context.Background(), s, partsList, 1000, 10, FallbackForfeit)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSweepSingleWindowReduction(t *testing.T) {
	// The reference scenario again, through the full sweep path: for one
	// partition the sweep is a single global scan.
	s := hourlySeries(100, 90, 80, 95, 70, 85, 110)

	res, err := Sweep(context.Background(), s, []int{1}, 1000, 10, FallbackForfeit)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.InDelta(t, 95000.0, res.Entries[0].TotalCost, 1e-9)
	assert.Equal(t, 1, res.Entries[0].Executions)
}

func TestSweepDegenerateCountSucceeds(t *testing.T) {
	s := hourlySeries(10, 30, 20)

	res, err := Sweep(context.Background(), s, []int{10}, 100, 5, FallbackForfeit)
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Empty(t, res.Entries[0].Err)
	assert.Zero(t, res.Entries[0].TotalCost)
}

func TestSweepEmptySeries(t *testing.T) {
	_, err := Sweep(context.Background(), model.Series{Zone: "DK_2"}, []int{1, 2}, 100, 10, FallbackForfeit)
	require.Error(t, err)
	var inErr *InputError
	assert.ErrorAs(t, err, &inErr)
}

func TestSweepRejectsNonFinitePrices(t *testing.T) {
	s := hourlySeries(10, 20, 30)
	s.Points[1].Price = nan()

	_, err := Sweep(context.Background(), s, []int{1}, 100, 10, FallbackForfeit)
	require.Error(t, err)
	var inErr *InputError
	assert.ErrorAs(t, err, &inErr)
}

func TestSweepInvalidConfig(t *testing.T) {
	s := hourlySeries(1, 2, 3)

	_, err := Sweep(context.Background(), s, nil, 100, 10, FallbackForfeit)
	require.Error(t, err)

	_, err = Sweep(context.Background(), s, []int{1, 0}, 100, 10, FallbackForfeit)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = Sweep(context.Background(), s, []int{1}, 0, 10, FallbackForfeit)
	require.Error(t, err)
}

func TestSweepCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, sawtoothSeries(1000), []int{1, 2, 3}, 100, 10, FallbackForfeit)
	require.ErrorIs(t, err, context.Canceled)
}

func nan() float64 {
	var zero float64
	return zero / zero
}
