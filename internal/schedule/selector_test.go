package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The walk-through from the toolkit's reference scenario: the reference
// ratchets 100 -> 90 -> 80, then 95 > 80+10 triggers at index 3.
func TestScanSegmentRatchetAndTrigger(t *testing.T) {
	prices := []float64{100, 90, 80, 95, 70, 85, 110}
	seg := Segment{Start: 0, End: len(prices)}

	scanSegment(prices, &seg, 10)

	require.True(t, seg.Executed)
	assert.Equal(t, 3, seg.ExecutedIndex)
	assert.Equal(t, 95.0, seg.ExecutedPrice)
	assert.Equal(t, 80.0, seg.Reference)
}

func TestScanSegmentFirstTriggerWins(t *testing.T) {
	// Index 2 qualifies; the cheaper qualifying price at index 4 must not
	// be preferred, there is no look-ahead.
	prices := []float64{50, 40, 55, 40, 52}
	seg := Segment{Start: 0, End: len(prices)}

	scanSegment(prices, &seg, 10)

	require.True(t, seg.Executed)
	assert.Equal(t, 2, seg.ExecutedIndex)
	assert.Equal(t, 55.0, seg.ExecutedPrice)
}

func TestScanSegmentNoTrigger(t *testing.T) {
	// Monotonically falling prices never trigger; the segment ends
	// not-executed with the reference at the series minimum.
	prices := []float64{100, 95, 90, 85, 80}
	seg := Segment{Start: 0, End: len(prices)}

	scanSegment(prices, &seg, 10)

	assert.False(t, seg.Executed)
	assert.Equal(t, 80.0, seg.Reference)
}

func TestScanSegmentWithinBandNoStateChange(t *testing.T) {
	// Prices inside [ref, ref+limit] neither trigger nor move the reference.
	prices := []float64{100, 105, 109, 102, 100}
	seg := Segment{Start: 0, End: len(prices)}

	scanSegment(prices, &seg, 10)

	assert.False(t, seg.Executed)
	assert.Equal(t, 100.0, seg.Reference)
}

func TestScanSegmentEmpty(t *testing.T) {
	prices := []float64{1, 2, 3}
	seg := Segment{Start: 2, End: 2}

	scanSegment(prices, &seg, 10)

	assert.False(t, seg.Executed)
}

func TestScanSegmentSubrangeUsesLocalReference(t *testing.T) {
	// The reference is segment-local: it starts at prices[Start], not at the
	// global minimum to the left of the segment.
	prices := []float64{10, 200, 190, 205, 180}
	seg := Segment{Start: 1, End: 5}

	scanSegment(prices, &seg, 10)

	require.True(t, seg.Executed)
	assert.Equal(t, 3, seg.ExecutedIndex)
	assert.Equal(t, 205.0, seg.ExecutedPrice)
}

func TestScanSegmentGuarantees(t *testing.T) {
	// Trigger bound and reference non-increase over a rough sawtooth.
	prices := []float64{80, 60, 75, 55, 70, 40, 90, 30, 45, 65}
	limit := 12.0

	segs, err := Partition(len(prices), 3)
	require.NoError(t, err)

	for i := range segs {
		scanSegment(prices, &segs[i], limit)
		if segs[i].Len() == 0 {
			continue
		}
		assert.LessOrEqual(t, segs[i].Reference, prices[segs[i].Start],
			"reference may only ratchet down from the segment's first price")
		if segs[i].Executed {
			assert.Greater(t, segs[i].ExecutedPrice, segs[i].Reference+limit,
				"executed price must clear reference+limit")
			assert.GreaterOrEqual(t, segs[i].ExecutedIndex, segs[i].Start)
			assert.Less(t, segs[i].ExecutedIndex, segs[i].End)
		}
	}
}
