package utils

import (
	"errors" // Error values
	"time"   // Time for token expiration

	"table_booking/internal/domain" // Role type

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Claims carried by every session token
type Claims struct {
	UserID               uint        `json:"userId"` // Custom claim for user ID
	Role                 domain.Role `json:"role"`   // Custom claim for the user's role
	jwt.RegisteredClaims             // Standard JWT claims
}

// ErrInvalidRoleClaim is returned for tokens whose role is not a known Role
var ErrInvalidRoleClaim = errors.New("token carries an unknown role")

// GenerateJWT creates a JWT token for a given user and role
func GenerateJWT(userID uint, role domain.Role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	// Set token claims
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		Role:   role,   // Custom claim for role
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token expires after ttl
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid // Return error if token is invalid
	}
	// Reject roles outside the closed set
	if !claims.Role.Valid() {
		return nil, ErrInvalidRoleClaim
	}
	return claims, nil
}
