package analysis

import (
	"math"
	"sort"
	"time"

	"dayahead-procurement/internal/model"
)

// PriceStats is a zone-level summary of a day-ahead price series, used for
// the dashboard's overview table and for eyeballing which zones are worth a
// staged-procurement sweep at all.
type PriceStats struct {
	Zone string `json:"zone"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Count int `json:"count"`

	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	P05  float64 `json:"p05"`
	P95  float64 `json:"p95"`

	// SpreadP95P05 is a robust volatility proxy: wide spreads are where a
	// reactive buying rule has room to matter.
	SpreadP95P05 float64 `json:"spread_p95_p05"`
}

func ComputeStats(s model.Series) PriceStats {
	st := PriceStats{Zone: s.Zone}
	if s.Len() == 0 {
		return st
	}
	st.Count = s.Len()
	st.Start = s.Points[0].Time
	st.End = s.Points[s.Len()-1].Time

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, s.Len())
	for _, p := range s.Points {
		vals = append(vals, p.Price)
		sum += p.Price
		if p.Price < minv {
			minv = p.Price
		}
		if p.Price > maxv {
			maxv = p.Price
		}
	}
	sort.Float64s(vals)
	st.Min = minv
	st.Max = maxv
	st.Mean = sum / float64(len(vals))
	st.P05 = percentileSorted(vals, 0.05)
	st.P95 = percentileSorted(vals, 0.95)
	st.SpreadP95P05 = st.P95 - st.P05
	return st
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
