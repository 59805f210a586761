package models

import (
	"time"

	"dayahead-procurement/internal/analysis"
	"dayahead-procurement/internal/schedule"
)

// SweepResponse is the cost-vs-granularity curve for one request.
type SweepResponse struct {
	Zone      string                `json:"zone,omitempty"`
	Samples   int                   `json:"samples"`
	Fallback  string                `json:"fallback"`
	Entries   []schedule.SweepEntry `json:"entries"`
	BestParts int                   `json:"best_parts"`
}

// PlanResponse is the full detail of a single-count scheduling pass.
type PlanResponse struct {
	Zone     string         `json:"zone,omitempty"`
	Samples  int            `json:"samples"`
	Fallback string         `json:"fallback"`
	Plan     *schedule.Plan `json:"plan"`
}

// SeriesPoint is one chart sample. Smoothed is only present when a smoothing
// window was requested.
type SeriesPoint struct {
	Time     time.Time `json:"time"`
	Price    float64   `json:"price"`
	Smoothed *float64  `json:"smoothed,omitempty"`
}

// SeriesResponse carries the raw (optionally smoothed) price series for the
// dashboard chart, plus summary statistics when asked for.
type SeriesResponse struct {
	Zone   string               `json:"zone"`
	Count  int                  `json:"count"`
	Points []SeriesPoint        `json:"points"`
	Stats  *analysis.PriceStats `json:"stats,omitempty"`
}

// ZoneInfo describes one bidding zone the server can download and schedule.
type ZoneInfo struct {
	Code    string     `json:"code"`
	Name    string     `json:"name"`
	EIC     string     `json:"eic"`
	Samples int        `json:"samples"`
	Latest  *time.Time `json:"latest,omitempty"`
}

// ZonesResponse lists the configured zones and their store coverage.
type ZonesResponse struct {
	Zones []ZoneInfo `json:"zones"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
