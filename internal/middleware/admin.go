package middleware

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"table_booking/internal/repository" // User lookups

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// AdminOnlyMiddleware checks the user's role from the database on each request, so a demoted
// admin loses access before their token expires
func AdminOnlyMiddleware(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(CtxUserID) // Get userID from context
		// Check if userID exists in context
		if userID == 0 {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID) // Fetch user from database
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			// If the lookup itself failed, abort with internal server error
			logrus.WithError(err).WithField("user_id", userID).Error("Admin check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if err != nil || !user.Role.IsAdmin() {
			// If user not found or not admin, abort with forbidden status
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"path":    c.FullPath(),
			}).Warn("Admin access denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Set(CtxRole, user.Role) // Refresh role from the database
		// If admin, proceed to the next handler
		c.Next()
	}
}
