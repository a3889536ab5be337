package domain

import (
	"fmt"
	"strings"
)

// Role is the access level carried by a user and by their token
type Role string

const (
	RoleUser  Role = "user"  // Regular guest who books tables
	RoleAdmin Role = "admin" // Staff member who manages payments
)

// ParseRole converts raw input into a Role, rejecting unknown values
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return "", Validation(fmt.Sprintf("unknown role %q", s))
	}
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// IsAdmin reports whether r grants admin access
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User Model
type User struct {
	ID        uint   `gorm:"primaryKey" json:"user_id"`                    // Primary key
	FirstName string `gorm:"size:100;not null" json:"first_name"`          // Display name
	LoginID   string `gorm:"size:32;uniqueIndex;not null" json:"login_id"` // Unique login
	Password  string `gorm:"not null" json:"-"`                            // Hashed password
	Role      Role   `gorm:"size:16;not null;default:user" json:"role"`    // Role: user or admin
}
