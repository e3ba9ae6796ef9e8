package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
	"github.com/comitanigiacomo/qada-ledger/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.GetStatistics)
}

func (h *StatsHandler) GetStatistics(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.svc.Statistics(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	if stats.Status == domain.StatsStatusUnavailable {
		c.JSON(http.StatusServiceUnavailable, stats)
		return
	}

	c.JSON(http.StatusOK, stats)
}
