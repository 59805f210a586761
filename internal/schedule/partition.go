package schedule

// Segment is one purchasing window: a half-open index range [Start, End) over
// a price series, plus the scan state and outcome for that window.
type Segment struct {
	Start int `json:"start"`
	End   int `json:"end"`

	// Reference is the ratchet floor after the scan: the lowest price seen
	// before the scan stopped. Meaningless for zero-length segments.
	Reference float64 `json:"reference"`

	Executed      bool    `json:"executed"`
	ExecutedIndex int     `json:"executed_index,omitempty"`
	ExecutedPrice float64 `json:"executed_price,omitempty"`

	// Fallback marks an execution produced by the no-trigger fallback policy
	// rather than by the ratchet trigger itself.
	Fallback bool `json:"fallback,omitempty"`
}

func (s Segment) Len() int { return s.End - s.Start }

// Partition divides [0, length) into parts contiguous half-open segments with
// boundary(p) = floor(p*length/parts). Segment lengths differ by at most one
// element and the final boundary always equals length, so the segments are an
// exact cover: no gaps, no overlaps.
//
// parts > length is allowed and yields zero-length segments; the scan treats
// those as automatically non-executing.
func Partition(length, parts int) ([]Segment, error) {
	if parts <= 0 {
		return nil, configErrorf("partition count must be >= 1, got %d", parts)
	}
	if length < 0 {
		return nil, configErrorf("series length must be >= 0, got %d", length)
	}

	segs := make([]Segment, parts)
	for p := 0; p < parts; p++ {
		segs[p] = Segment{
			Start: p * length / parts,
			End:   (p + 1) * length / parts,
		}
	}
	return segs, nil
}
