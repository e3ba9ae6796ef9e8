package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/qada-ledger/internal/core/services"
)

type ProfileHandler struct {
	svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type updateProfileRequest struct {
	DailyGoal int    `json:"daily_goal"`
	Timezone  string `json:"timezone"`
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.Get)
		profile.PATCH("", h.Update)
		profile.DELETE("", h.Wipe)
	}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	profile, err := h.svc.Update(c.Request.Context(), services.UpdateProfileInput{
		UserID:    userID,
		DailyGoal: req.DailyGoal,
		Timezone:  req.Timezone,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Wipe deletes every record of the caller. It requires ?confirm=true.
func (h *ProfileHandler) Wipe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	confirmed := c.Query("confirm") == "true"
	if err := h.svc.Wipe(c.Request.Context(), userID, confirmed); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
