package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/surfacelog/surface-log-api/internal/middleware"
	"github.com/surfacelog/surface-log-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.AccessClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.AccessClaims)
	if !ok {
		return nil
	}
	return claims
}

// callerID returns the authenticated user id, or empty for anonymous callers.
func callerID(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}
