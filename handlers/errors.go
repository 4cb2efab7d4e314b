package handlers

import (
	"net/http"

	"marketpulse/services/analytics"
	"marketpulse/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service error codes onto HTTP statuses: validation is
// a client fault, missing records are 404, and a data layer outage is 503
// so callers know to retry.
func respondError(c *gin.Context, err error) {
	switch {
	case analytics.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case analytics.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case analytics.IsDataUnavailable(err):
		utils.GetLogger().Error("Data layer unavailable",
			zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Metrics are temporarily unavailable. Try again shortly."})
	default:
		utils.GetLogger().Error("Unhandled service error",
			zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// providerIDFrom reads the authenticated provider off the context.
func providerIDFrom(c *gin.Context) (string, bool) {
	id := c.GetString("providerID")
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing provider identity"})
		return "", false
	}
	return id, true
}
