package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
	"github.com/comitanigiacomo/qada-ledger/internal/core/services"
)

const maxDaysRange = 366

type DayHandler struct {
	svc *services.DayLogService
}

func NewDayHandler(svc *services.DayLogService) *DayHandler {
	return &DayHandler{svc: svc}
}

type setDayRequest struct {
	Counts domain.PrayerCounts `json:"counts"`
	Notes  string              `json:"notes"`
}

func (h *DayHandler) RegisterRoutes(router *gin.RouterGroup) {
	days := router.Group("/days")
	{
		days.GET("", h.List)
		days.POST("/:date", h.GetOrCreate)
		days.PUT("/:date", h.Set)
	}
}

func (h *DayHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	from, err := domain.ParseDay(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from format, expected YYYY-MM-DD"})
		return
	}
	to, err := domain.ParseDay(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to format, expected YYYY-MM-DD"})
		return
	}

	if domain.DaysBetween(from, to) > maxDaysRange {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date range too large, max 1 year allowed"})
		return
	}

	logs, err := h.svc.ListRange(c.Request.Context(), userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *DayHandler) GetOrCreate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	day, err := domain.ParseDay(c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	log, created, err := h.svc.GetOrCreate(c.Request.Context(), userID, day)
	if err != nil {
		handleError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, log)
}

func (h *DayHandler) Set(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	day, err := domain.ParseDay(c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	var req setDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	log, err := h.svc.Set(c.Request.Context(), services.SetDayInput{
		UserID: userID,
		Date:   day,
		Counts: req.Counts,
		Notes:  req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, log)
}
