package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
	"github.com/comitanigiacomo/qada-ledger/internal/core/services"
	"github.com/comitanigiacomo/qada-ledger/internal/metrics"
)

type LedgerHandler struct {
	svc *services.LedgerService
}

func NewLedgerHandler(svc *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

type completionRequest struct {
	Prayer string `json:"prayer" binding:"required"`
	// Date is optional; it defaults to today in the profile's timezone.
	Date string `json:"date"`
}

type adjustLedgerRequest struct {
	Owed    domain.PrayerCounts `json:"owed"`
	Confirm bool                `json:"confirm"`
	Version int                 `json:"version"`
}

func (h *LedgerHandler) RegisterRoutes(router *gin.RouterGroup) {
	ledger := router.Group("/ledger")
	{
		ledger.GET("", h.State)
		ledger.PUT("", h.Adjust)
		ledger.POST("/completions", h.RecordCompletion)
	}
}

func (h *LedgerHandler) State(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	state, err := h.svc.State(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *LedgerHandler) RecordCompletion(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	prayer, err := domain.ParsePrayerType(req.Prayer)
	if err != nil {
		handleError(c, err)
		return
	}

	input := services.RecordCompletionInput{UserID: userID, Prayer: prayer}
	if req.Date != "" {
		day, err := domain.ParseDay(req.Date)
		if err != nil {
			handleError(c, err)
			return
		}
		input.Date = &day
	}

	result, err := h.svc.RecordCompletion(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}

	outcome := "recorded"
	if !result.Recorded {
		outcome = "nothing_to_log"
	}
	metrics.IncrementCompletion(string(prayer), outcome)

	c.JSON(http.StatusOK, result)
}

func (h *LedgerHandler) Adjust(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req adjustLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	debt, err := h.svc.AdjustManually(c.Request.Context(), services.AdjustLedgerInput{
		UserID:    userID,
		Owed:      req.Owed,
		Confirmed: req.Confirm,
		Version:   req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, debt)
}
