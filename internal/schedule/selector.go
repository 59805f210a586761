package schedule

// scanSegment walks one segment left to right and decides whether a purchase
// happens, mutating only the segment's own state.
//
// The reference starts at the segment's first price and ratchets downward:
// every new segment-local minimum replaces it, and it never increases. The
// first index whose price exceeds reference+limit executes and the scan stops
// there: earliest qualifying index wins, with no look-ahead for a better
// price later. Prices inside [reference, reference+limit] change nothing.
//
// A zero-length segment is a no-op. A segment that runs out of indices
// without a trigger ends "not executed"; that is a normal terminal state,
// not an error.
func scanSegment(prices []float64, seg *Segment, limit float64) {
	if seg.Len() <= 0 {
		return
	}

	ref := prices[seg.Start]
	for i := seg.Start; i < seg.End; i++ {
		p := prices[i]
		if p > ref+limit {
			seg.Executed = true
			seg.ExecutedIndex = i
			seg.ExecutedPrice = p
			break
		}
		if p < ref {
			ref = p
		}
	}
	seg.Reference = ref
}
