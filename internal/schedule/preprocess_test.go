package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayahead-procurement/internal/model"
)

func hourlySeries(prices ...float64) model.Series {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := model.Series{Zone: "DK_2"}
	for i, p := range prices {
		s.Points = append(s.Points, model.PricePoint{
			Time:  start.Add(time.Duration(i) * time.Hour),
			Price: p,
		})
	}
	return s
}

func TestBlockAverage(t *testing.T) {
	s := hourlySeries(10, 20, 30, 40, 50, 60, 70)

	out, err := BlockAverage(s, 3)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len(), "trailing remainder must be dropped")

	assert.Equal(t, 20.0, out.Points[0].Price)
	assert.Equal(t, 50.0, out.Points[1].Price)

	// Output timestamps are the first timestamp of each block.
	assert.Equal(t, s.Points[0].Time, out.Points[0].Time)
	assert.Equal(t, s.Points[3].Time, out.Points[1].Time)
	assert.Equal(t, s.Zone, out.Zone)
}

func TestBlockAverageWindowOne(t *testing.T) {
	s := hourlySeries(5, 7, 9)
	out, err := BlockAverage(s, 1)
	require.NoError(t, err)
	assert.Equal(t, s.Prices(), out.Prices())
}

func TestBlockAverageInvalidWindow(t *testing.T) {
	s := hourlySeries(1, 2, 3)
	for _, w := range []int{0, -1, 4} {
		_, err := BlockAverage(s, w)
		require.Error(t, err, "window=%d", w)
		var cfgErr *ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	}
}
