package analysis

import (
	"fmt"

	talib "github.com/markcheno/go-talib"

	"dayahead-procurement/internal/model"
)

// SlidingAverage computes a trailing simple moving average over the raw
// series for chart overlays. Unlike schedule.BlockAverage this keeps the
// original cadence: one smoothed value per input sample, with the first
// window-1 positions NaN-free by echoing the raw price.
//
// This feeds plotting only. The procurement core never consumes it.
func SlidingAverage(s model.Series, window int) (model.Series, error) {
	if window <= 0 {
		return model.Series{}, fmt.Errorf("sliding average window must be > 0, got %d", window)
	}
	if s.Len() == 0 {
		return model.Series{}, fmt.Errorf("series %q is empty", s.Zone)
	}
	if window > s.Len() {
		return model.Series{}, fmt.Errorf("sliding average window %d exceeds series length %d", window, s.Len())
	}

	smoothed := talib.Sma(s.Prices(), window)

	out := model.Series{
		Zone:   s.Zone,
		Points: make([]model.PricePoint, s.Len()),
	}
	for i, p := range s.Points {
		v := smoothed[i]
		if i < window-1 {
			// talib leaves the warm-up region zeroed; the chart reads better
			// with the raw price than with a cliff at the left edge.
			v = p.Price
		}
		out.Points[i] = model.PricePoint{Time: p.Time, Price: v}
	}
	return out, nil
}
