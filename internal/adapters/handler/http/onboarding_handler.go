package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
	"github.com/comitanigiacomo/qada-ledger/internal/core/services"
)

type OnboardingHandler struct {
	svc *services.OnboardingService
}

func NewOnboardingHandler(svc *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{svc: svc}
}

type estimateRequest struct {
	Mode               string              `json:"mode" binding:"required"`
	StartDate          string              `json:"start_date"`
	EndDate            string              `json:"end_date"`
	Gender             string              `json:"gender"`
	AverageCycleLength int                 `json:"average_cycle_length"`
	Years              int                 `json:"years"`
	Months             int                 `json:"months"`
	Days               int                 `json:"days"`
	Custom             domain.PrayerCounts `json:"custom"`
}

type onboardingRequest struct {
	Gender    string          `json:"gender" binding:"required"`
	DailyGoal int             `json:"daily_goal"`
	Timezone  string          `json:"timezone"`
	Estimate  estimateRequest `json:"estimate"`
}

func (r estimateRequest) toParams() (domain.EstimateParams, error) {
	params := domain.EstimateParams{
		Mode:               domain.EstimateMode(r.Mode),
		Gender:             domain.Gender(r.Gender),
		AverageCycleLength: r.AverageCycleLength,
		Years:              r.Years,
		Months:             r.Months,
		Days:               r.Days,
		Custom:             r.Custom,
	}

	if params.Mode == domain.EstimateModeDateRange {
		start, err := domain.ParseDay(r.StartDate)
		if err != nil {
			return params, err
		}
		end, err := domain.ParseDay(r.EndDate)
		if err != nil {
			return params, err
		}
		params.StartDate, params.EndDate = start, end
	}
	return params, nil
}

func (h *OnboardingHandler) RegisterRoutes(router *gin.RouterGroup) {
	onboarding := router.Group("/onboarding")
	{
		onboarding.POST("/estimate", h.Estimate)
		onboarding.POST("", h.Complete)
	}
}

func (h *OnboardingHandler) Estimate(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	params, err := req.toParams()
	if err != nil {
		handleError(c, err)
		return
	}

	estimate, err := h.svc.Estimate(params)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}

func (h *OnboardingHandler) Complete(c *gin.Context) {
	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	params, err := req.Estimate.toParams()
	if err != nil {
		handleError(c, err)
		return
	}

	result, err := h.svc.Complete(c.Request.Context(), services.CompleteOnboardingInput{
		Gender:    domain.Gender(req.Gender),
		DailyGoal: req.DailyGoal,
		Timezone:  req.Timezone,
		Estimate:  params,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
