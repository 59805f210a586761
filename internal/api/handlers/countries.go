package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dayahead-procurement/internal/api/models"
	"dayahead-procurement/internal/data"
	"dayahead-procurement/internal/store"
)

// ZonesHandler lists the bidding zones the server knows about, together with
// how much price history each has locally.
type ZonesHandler struct {
	store *store.Store
	zones []data.Zone
}

func NewZonesHandler(st *store.Store, zones []data.Zone) *ZonesHandler {
	return &ZonesHandler{store: st, zones: zones}
}

// ListZones handles GET /api/v1/countries
func (h *ZonesHandler) ListZones(c *gin.Context) {
	ctx := c.Request.Context()

	infos := make([]models.ZoneInfo, 0, len(h.zones))
	for _, z := range h.zones {
		info := models.ZoneInfo{Code: z.Code, Name: z.Name, EIC: z.EIC}

		n, err := h.store.CountPrices(ctx, z.Code)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "STORE_ERROR", Message: err.Error()},
			})
			return
		}
		info.Samples = n

		if latest, ok, err := h.store.LatestTimestamp(ctx, z.Code); err == nil && ok {
			t := latest
			info.Latest = &t
		}
		infos = append(infos, info)
	}

	c.JSON(http.StatusOK, models.ZonesResponse{Zones: infos})
}
