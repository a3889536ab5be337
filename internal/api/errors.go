package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"table_booking/internal/domain"     // Error kinds
	"table_booking/internal/middleware" // Context keys

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// statusFor maps an error kind to its HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Internal errors get a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUser reads the authenticated caller set by the JWT middleware
func currentUser(c *gin.Context) (uint, domain.Role, bool) {
	userID := c.GetUint(middleware.CtxUserID) // Set by JWTAuthMiddleware
	if userID == 0 {
		return 0, "", false
	}
	role, _ := c.Get(middleware.CtxRole)
	r, _ := role.(domain.Role)
	return userID, r, true
}
