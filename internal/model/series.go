package model

import (
	"fmt"
	"math"
	"time"
)

// PricePoint is one (timestamp, price) sample of a day-ahead price series.
// Prices are in the market's native currency per MWh; no conversion happens
// anywhere in this codebase.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// Series is an ordered day-ahead price series. Timestamps must be strictly
// increasing and the series is treated as uniformly sampled: segmentation and
// block averaging both index by position, not by wall clock.
type Series struct {
	Zone   string       `json:"zone,omitempty"`
	Points []PricePoint `json:"points"`
}

func (s Series) Len() int { return len(s.Points) }

// Prices returns the price values in order. The slice is freshly allocated so
// callers can hand it to numeric code without aliasing the series.
func (s Series) Prices() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Price
	}
	return out
}

// Times returns the timestamps in order.
func (s Series) Times() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

// Validate checks the structural invariants consumers rely on: non-empty,
// strictly increasing timestamps, all prices finite. NaN and infinite prices
// are rejected here so the scan logic never has to compare against them.
func (s Series) Validate() error {
	if len(s.Points) == 0 {
		return fmt.Errorf("series %q is empty", s.Zone)
	}
	for i, p := range s.Points {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return fmt.Errorf("series %q: non-finite price %v at index %d", s.Zone, p.Price, i)
		}
		if i > 0 && !p.Time.After(s.Points[i-1].Time) {
			return fmt.Errorf("series %q: timestamps not strictly increasing at index %d (%s -> %s)",
				s.Zone, i, s.Points[i-1].Time.Format(time.RFC3339), p.Time.Format(time.RFC3339))
		}
	}
	return nil
}
