package schedule

import (
	"fmt"

	"dayahead-procurement/internal/model"
)

// FallbackPolicy controls what happens to a segment's tranche when its scan
// finds no trigger. The original behavior is to simply never buy that share;
// that is kept as the default, but the intent is ambiguous enough that the
// alternatives are selectable rather than hard-wired.
type FallbackPolicy string

const (
	// FallbackForfeit leaves the tranche unpurchased. Default.
	FallbackForfeit FallbackPolicy = "forfeit"
	// FallbackClose buys the tranche at the segment's final price.
	FallbackClose FallbackPolicy = "close"
	// FallbackCarry rolls the tranche forward to the next executing segment.
	FallbackCarry FallbackPolicy = "carry"
)

// ParseFallbackPolicy maps a config string to a policy. Empty means forfeit.
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch FallbackPolicy(s) {
	case "", FallbackForfeit:
		return FallbackForfeit, nil
	case FallbackClose:
		return FallbackClose, nil
	case FallbackCarry:
		return FallbackCarry, nil
	default:
		return "", configErrorf("unknown fallback policy %q (want forfeit, close or carry)", s)
	}
}

// Execution is one resolved purchase, kept for traceability and plotting.
type Execution struct {
	Segment   int     `json:"segment"`
	Index     int     `json:"index"`
	Price     float64 `json:"price"`
	VolumeMWh float64 `json:"volume_mwh"`
}

// Plan is the result of one full scheduling pass for a specific partition
// count: the scanned segments, the resolved executions, and the aggregated
// cost. Plans are built fresh per partition count and share nothing.
type Plan struct {
	Parts      int         `json:"parts"`
	Segments   []Segment   `json:"segments"`
	Executions []Execution `json:"executions"`

	TotalCost      float64 `json:"total_cost"`
	PurchasedMWh   float64 `json:"purchased_mwh"`
	UnpurchasedMWh float64 `json:"unpurchased_mwh"`
}

// Build runs the full partition -> scan -> aggregate pipeline for one
// partition count. The series is read-only; all mutable state lives in the
// returned plan.
//
// Cost aggregation: each segment is assigned an equal tranche volumeMWh/parts.
// Executed segments contribute executedPrice * tranche; what happens to the
// tranche of a non-executing segment is decided by the fallback policy.
func Build(series model.Series, parts int, volumeMWh, limit float64, policy FallbackPolicy) (*Plan, error) {
	if volumeMWh <= 0 {
		return nil, configErrorf("total volume must be > 0, got %g", volumeMWh)
	}
	if series.Len() == 0 {
		return nil, inputErrorf("series %q is empty", series.Zone)
	}
	if policy == "" {
		policy = FallbackForfeit
	}

	segs, err := Partition(series.Len(), parts)
	if err != nil {
		return nil, err
	}

	prices := series.Prices()
	for i := range segs {
		scanSegment(prices, &segs[i], limit)
	}

	if policy == FallbackClose {
		for i := range segs {
			if !segs[i].Executed && segs[i].Len() > 0 {
				segs[i].Executed = true
				segs[i].ExecutedIndex = segs[i].End - 1
				segs[i].ExecutedPrice = prices[segs[i].End-1]
				segs[i].Fallback = true
			}
		}
	}

	plan := &Plan{
		Parts:    parts,
		Segments: segs,
	}

	tranche := volumeMWh / float64(parts)
	pending := 0.0
	for i, seg := range segs {
		if !seg.Executed {
			if policy == FallbackCarry && seg.Len() > 0 {
				pending += tranche
			} else {
				plan.UnpurchasedMWh += tranche
			}
			continue
		}
		vol := tranche + pending
		pending = 0
		plan.Executions = append(plan.Executions, Execution{
			Segment:   i,
			Index:     seg.ExecutedIndex,
			Price:     seg.ExecutedPrice,
			VolumeMWh: vol,
		})
		plan.TotalCost += seg.ExecutedPrice * vol
		plan.PurchasedMWh += vol
	}
	// A carried tranche with no later execution is forfeited after all.
	plan.UnpurchasedMWh += pending

	return plan, nil
}

func (p *Plan) String() string {
	return fmt.Sprintf("plan{parts=%d executions=%d cost=%.2f purchased=%.1fMWh}",
		p.Parts, len(p.Executions), p.TotalCost, p.PurchasedMWh)
}
