package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/qada-ledger/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

var badRequestErrors = []error{
	domain.ErrInvalidPrayerType,
	domain.ErrNegativeInput,
	domain.ErrInvalidEstimateMode,
	domain.ErrEstimateTooLarge,
	domain.ErrInvalidDateRange,
	domain.ErrInvalidGender,
	domain.ErrInvalidDayDate,
	domain.ErrNotesTooLong,
	domain.ErrInvalidUserID,
	domain.ErrInvalidDailyGoal,
	domain.ErrInvalidTimezone,
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrDebtNotFound),
		errors.Is(err, domain.ErrDayNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDebtAlreadyInitialized):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDebtConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "version conflict, reload the ledger"})
	case errors.Is(err, domain.ErrConfirmationRequired):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
	case isBadRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func isBadRequest(err error) bool {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID, true
}
