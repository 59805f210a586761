package models

// SeriesSource tells a handler where to get prices from: either inline in the
// request, or out of the local store by zone and date range. Inline wins when
// both are present.
type SeriesSource struct {
	Prices []float64 `json:"prices,omitempty"`
	Zone   string    `json:"zone,omitempty"`
	Start  string    `json:"start,omitempty"` // YYYY-MM-DD, inclusive
	End    string    `json:"end,omitempty"`   // YYYY-MM-DD, exclusive

	// WindowSize > 1 reduces the series with a non-overlapping block average
	// before scheduling, e.g. 24 turns hourly prices into daily means.
	WindowSize int `json:"window_size,omitempty"`
}

// SweepRequest is the body for POST /api/v1/sweep.
type SweepRequest struct {
	Source         SeriesSource `json:"source" binding:"required"`
	TotalVolumeMWh float64      `json:"total_volume_mwh" binding:"required"`
	Limit          float64      `json:"limit"`
	PartsList      []int        `json:"parts_list" binding:"required"`
	Fallback       string       `json:"fallback,omitempty"` // forfeit | close | carry
}

// PlanRequest is the body for POST /api/v1/plan: one full pass at a single
// partition count, with the per-segment detail the sweep summary drops.
type PlanRequest struct {
	Source         SeriesSource `json:"source" binding:"required"`
	TotalVolumeMWh float64      `json:"total_volume_mwh" binding:"required"`
	Limit          float64      `json:"limit"`
	Parts          int          `json:"parts" binding:"required"`
	Fallback       string       `json:"fallback,omitempty"`
}

// SeriesRequest is the query for GET /api/v1/series.
type SeriesRequest struct {
	Zone  string `form:"zone" binding:"required"`
	Start string `form:"start,omitempty"`
	End   string `form:"end,omitempty"`

	// SmoothWindow > 1 adds a sliding moving average alongside the raw prices.
	SmoothWindow int  `form:"smooth_window,omitempty"`
	IncludeStats bool `form:"include_stats,omitempty"`
}
