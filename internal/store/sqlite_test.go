package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayahead-procurement/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func points(start time.Time, prices ...float64) []model.PricePoint {
	out := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = model.PricePoint{Time: start.Add(time.Duration(i) * time.Hour), Price: p}
	}
	return out
}

func TestUpsertAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertPrices(ctx, "DK_2", points(start, 50, 45, 60)))

	series, err := s.LoadSeries(ctx, "DK_2", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())
	assert.Equal(t, "DK_2", series.Zone)
	assert.Equal(t, 45.0, series.Points[1].Price)
	assert.Equal(t, start.Add(time.Hour), series.Points[1].Time)
	require.NoError(t, series.Validate())
}

func TestUpsertIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertPrices(ctx, "DK_2", points(start, 50, 45)))
	// Overlapping re-download with a corrected value.
	require.NoError(t, s.UpsertPrices(ctx, "DK_2", points(start, 50, 46)))

	series, err := s.LoadSeries(ctx, "DK_2", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, 46.0, series.Points[1].Price)
}

func TestLoadSeriesRange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpsertPrices(ctx, "DK_2", points(start, 1, 2, 3, 4)))

	series, err := s.LoadSeries(ctx, "DK_2", start.Add(time.Hour), start.Add(3*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, 2.0, series.Points[0].Price)
	assert.Equal(t, 3.0, series.Points[1].Price)
}

func TestLatestTimestamp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, ok, err := s.LatestTimestamp(ctx, "DK_2")
	require.NoError(t, err)
	assert.False(t, ok, "empty zone has no latest timestamp")

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpsertPrices(ctx, "DK_2", points(start, 1, 2, 3)))

	latest, ok, err := s.LatestTimestamp(ctx, "DK_2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, start.Add(2*time.Hour), latest)
}

func TestZones(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertPrices(ctx, "NL", points(start, 1)))
	require.NoError(t, s.UpsertPrices(ctx, "DK_2", points(start, 1)))

	zones, err := s.Zones(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"DK_2", "NL"}, zones)
}
