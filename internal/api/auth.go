package api

import (
	"net/http" // HTTP status codes

	"table_booking/internal/service" // Business logic

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for registration
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"` // First name must be provided
	LoginID   string `json:"login_id" binding:"required"`   // Login must be provided
	Password  string `json:"password" binding:"required"`   // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	LoginID  string `json:"login_id" binding:"required"` // Login must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// RegisterHandler creates a user account with the default role
func RegisterHandler(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "first_name, login_id and password are required"})
			return
		}
		// Validate, hash the password and create the user
		if _, err := auth.Register(c.Request.Context(), req.FirstName, req.LoginID, req.Password); err != nil {
			respondError(c, err) // Validation, duplicate login or internal error
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "login_id and password are required"})
			return
		}
		session, err := auth.Login(c.Request.Context(), req.LoginID, req.Password)
		if err != nil {
			respondError(c, err) // Invalid credentials map to 401
			return
		}
		// Admins land on the admin page, everyone else on the booking page
		redirect := "booking.html"
		if session.User.Role.IsAdmin() {
			redirect = "admin.html"
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "Login successful", // Success message
			"token":    session.Token,      // JWT token
			"redirect": redirect,           // Page for the client to open
			"role":     session.User.Role,  // User role
		})
	}
}

// UserInfoHandler returns the profile of the authenticated user
func UserInfoHandler(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _, ok := currentUser(c) // Get userID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := auth.UserInfo(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"first_name": user.FirstName, // First name
			"login_id":   user.LoginID,   // Login
			"role":       user.Role,      // User role
		})
	}
}
