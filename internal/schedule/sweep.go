package schedule

import (
	"context"

	"golang.org/x/sync/errgroup"

	"dayahead-procurement/internal/model"
)

// SweepEntry is the outcome for one requested partition count. A failed
// entry keeps zero cost and carries the error text; it is never silently
// omitted, so the cost curve always has one point per requested count.
type SweepEntry struct {
	Parts          int     `json:"parts"`
	TotalCost      float64 `json:"total_cost"`
	PurchasedMWh   float64 `json:"purchased_mwh"`
	UnpurchasedMWh float64 `json:"unpurchased_mwh"`
	Executions     int     `json:"executions"`
	Err            string  `json:"error,omitempty"`
}

// SweepResult is the cost-vs-granularity curve: one entry per requested
// partition count, in the order the counts were requested.
type SweepResult struct {
	Entries []SweepEntry `json:"entries"`
}

// Sweep runs the scheduling pipeline independently for every partition count
// in partsList and assembles the cost curve. Counts are evaluated
// concurrently; each count only reads the shared series and owns its
// segments, and results keep request order.
//
// Parameter and input validation happen once, up front: a bad count anywhere
// in partsList, a non-positive volume, or a structurally invalid series abort
// the whole sweep. After that, a failure inside one count is recorded on its
// entry and does not disturb the others. Cancellation is cooperative: a
// cancelled context stops picking up further counts, but a count that has
// started always finishes its scan.
func Sweep(ctx context.Context, series model.Series, partsList []int, volumeMWh, limit float64, policy FallbackPolicy) (*SweepResult, error) {
	if len(partsList) == 0 {
		return nil, configErrorf("parts list is empty")
	}
	for _, n := range partsList {
		if n <= 0 {
			return nil, configErrorf("partition count must be >= 1, got %d", n)
		}
	}
	if volumeMWh <= 0 {
		return nil, configErrorf("total volume must be > 0, got %g", volumeMWh)
	}
	if err := series.Validate(); err != nil {
		return nil, inputErrorf("%v", err)
	}

	entries := make([]SweepEntry, len(partsList))
	group, groupCtx := errgroup.WithContext(ctx)

	for i, parts := range partsList {
		i, parts := i, parts
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			plan, err := Build(series, parts, volumeMWh, limit, policy)
			if err != nil {
				entries[i] = SweepEntry{Parts: parts, Err: err.Error()}
				return nil
			}
			entries[i] = SweepEntry{
				Parts:          parts,
				TotalCost:      plan.TotalCost,
				PurchasedMWh:   plan.PurchasedMWh,
				UnpurchasedMWh: plan.UnpurchasedMWh,
				Executions:     len(plan.Executions),
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return &SweepResult{Entries: entries}, nil
}
