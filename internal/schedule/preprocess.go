package schedule

import (
	"dayahead-procurement/internal/model"
)

// BlockAverage downsamples a raw series by non-overlapping block averaging:
// output point k is the arithmetic mean of raw samples [k*window, (k+1)*window),
// stamped with the first timestamp of the block. This is downsampling, not a
// sliding mean: every raw sample contributes to exactly one output point.
//
// The reduced length is floor(L/window); a trailing remainder shorter than
// window is dropped.
func BlockAverage(s model.Series, window int) (model.Series, error) {
	if window <= 0 {
		return model.Series{}, configErrorf("block window must be > 0, got %d", window)
	}
	if window > s.Len() {
		return model.Series{}, configErrorf("block window %d exceeds series length %d", window, s.Len())
	}

	blocks := s.Len() / window
	out := model.Series{
		Zone:   s.Zone,
		Points: make([]model.PricePoint, 0, blocks),
	}
	for b := 0; b < blocks; b++ {
		start := b * window
		sum := 0.0
		for i := start; i < start+window; i++ {
			sum += s.Points[i].Price
		}
		out.Points = append(out.Points, model.PricePoint{
			Time:  s.Points[start].Time,
			Price: sum / float64(window),
		})
	}
	return out, nil
}
