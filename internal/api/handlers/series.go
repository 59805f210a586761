package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dayahead-procurement/internal/analysis"
	"dayahead-procurement/internal/api/models"
	"dayahead-procurement/internal/store"
)

// SeriesHandler serves stored price series to the dashboard.
type SeriesHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewSeriesHandler(st *store.Store, logger *zap.Logger) *SeriesHandler {
	return &SeriesHandler{store: st, logger: logger}
}

// GetSeries handles GET /api/v1/series
func (h *SeriesHandler) GetSeries(c *gin.Context) {
	var req models.SeriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	from, to, err := parseRange(req.Start, req.End)
	if err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	series, err := h.store.LoadSeries(c.Request.Context(), req.Zone, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "STORE_ERROR", Message: err.Error()},
		})
		return
	}
	if series.Len() == 0 {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NO_DATA",
				Message: "no stored prices for zone " + req.Zone + " in the requested range",
			},
		})
		return
	}

	resp := models.SeriesResponse{
		Zone:   series.Zone,
		Count:  series.Len(),
		Points: make([]models.SeriesPoint, series.Len()),
	}
	for i, p := range series.Points {
		resp.Points[i] = models.SeriesPoint{Time: p.Time, Price: p.Price}
	}

	if req.SmoothWindow > 1 {
		smoothed, err := analysis.SlidingAverage(series, req.SmoothWindow)
		if err != nil {
			badRequest(c, "INVALID_CONFIG", err.Error())
			return
		}
		for i := range resp.Points {
			v := smoothed.Points[i].Price
			resp.Points[i].Smoothed = &v
		}
	}

	if req.IncludeStats {
		stats := analysis.ComputeStats(series)
		resp.Stats = &stats
	}

	c.JSON(http.StatusOK, resp)
}
