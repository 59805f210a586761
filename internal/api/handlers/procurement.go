package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dayahead-procurement/internal/api/models"
	"dayahead-procurement/internal/model"
	"dayahead-procurement/internal/schedule"
	"dayahead-procurement/internal/store"
)

// ProcurementHandler runs the scheduling pipeline for API clients.
type ProcurementHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewProcurementHandler(st *store.Store, logger *zap.Logger) *ProcurementHandler {
	return &ProcurementHandler{store: st, logger: logger}
}

// RunSweep handles POST /api/v1/sweep
func (h *ProcurementHandler) RunSweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	policy, err := schedule.ParseFallbackPolicy(req.Fallback)
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err.Error())
		return
	}

	series, ok := h.resolveSeries(c, req.Source)
	if !ok {
		return
	}

	result, err := schedule.Sweep(c.Request.Context(), series, req.PartsList, req.TotalVolumeMWh, req.Limit, policy)
	if err != nil {
		scheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SweepResponse{
		Zone:      series.Zone,
		Samples:   series.Len(),
		Fallback:  string(policy),
		Entries:   result.Entries,
		BestParts: bestParts(result.Entries),
	})
}

// RunPlan handles POST /api/v1/plan
func (h *ProcurementHandler) RunPlan(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	policy, err := schedule.ParseFallbackPolicy(req.Fallback)
	if err != nil {
		badRequest(c, "INVALID_CONFIG", err.Error())
		return
	}

	series, ok := h.resolveSeries(c, req.Source)
	if !ok {
		return
	}
	if err := series.Validate(); err != nil {
		badRequest(c, "INVALID_INPUT", err.Error())
		return
	}

	plan, err := schedule.Build(series, req.Parts, req.TotalVolumeMWh, req.Limit, policy)
	if err != nil {
		scheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PlanResponse{
		Zone:     series.Zone,
		Samples:  series.Len(),
		Fallback: string(policy),
		Plan:     plan,
	})
}

// resolveSeries turns a request source into a concrete series, responding
// with an error itself when it cannot. Inline prices get synthetic hourly
// timestamps; stored series come out of the price store by zone and range.
func (h *ProcurementHandler) resolveSeries(c *gin.Context, src models.SeriesSource) (model.Series, bool) {
	var series model.Series

	if len(src.Prices) > 0 {
		series = inlineSeries(src.Prices)
	} else {
		if src.Zone == "" {
			badRequest(c, "INVALID_REQUEST", "either source.prices or source.zone is required")
			return model.Series{}, false
		}
		from, to, err := parseRange(src.Start, src.End)
		if err != nil {
			badRequest(c, "INVALID_REQUEST", err.Error())
			return model.Series{}, false
		}
		series, err = h.store.LoadSeries(c.Request.Context(), src.Zone, from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "STORE_ERROR", Message: err.Error()},
			})
			return model.Series{}, false
		}
		if series.Len() == 0 {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "NO_DATA",
					Message: "no stored prices for zone " + src.Zone + " in the requested range",
				},
			})
			return model.Series{}, false
		}
	}

	if src.WindowSize > 1 {
		reduced, err := schedule.BlockAverage(series, src.WindowSize)
		if err != nil {
			scheduleError(c, err)
			return model.Series{}, false
		}
		series = reduced
	}
	return series, true
}

func inlineSeries(prices []float64) model.Series {
	base := time.Unix(0, 0).UTC()
	points := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		points[i] = model.PricePoint{Time: base.Add(time.Duration(i) * time.Hour), Price: p}
	}
	return model.Series{Points: points}
}

// bestParts picks the cheapest successful entry. With the forfeit policy a
// low cost can mean little was bought, so this is a pointer, not a verdict.
func bestParts(entries []schedule.SweepEntry) int {
	best := 0
	bestCost := 0.0
	for _, e := range entries {
		if e.Err != "" || e.Executions == 0 {
			continue
		}
		if best == 0 || e.TotalCost < bestCost {
			best = e.Parts
			bestCost = e.TotalCost
		}
	}
	return best
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if start != "" {
		from, err = time.Parse("2006-01-02", start)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("start: want YYYY-MM-DD, got " + start)
		}
	}
	if end != "" {
		to, err = time.Parse("2006-01-02", end)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("end: want YYYY-MM-DD, got " + end)
		}
	}
	return from.UTC(), to.UTC(), nil
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}

// scheduleError maps pipeline errors onto the API error contract:
// configuration and input problems are the caller's fault, anything else is
// ours.
func scheduleError(c *gin.Context, err error) {
	var cfgErr *schedule.ConfigError
	var inErr *schedule.InputError
	switch {
	case errors.As(err, &cfgErr):
		badRequest(c, "INVALID_CONFIG", err.Error())
	case errors.As(err, &inErr):
		badRequest(c, "INVALID_INPUT", err.Error())
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "SCHEDULE_ERROR", Message: err.Error()},
		})
	}
}
