package domain

import "time"

// AdminLog Model, append only
type AdminLog struct {
	ID        uint      `gorm:"primaryKey" json:"log_id"`              // Primary key
	AdminID   uint      `gorm:"not null;index" json:"admin_id"`        // Admin who acted
	Action    string    `gorm:"type:text;not null" json:"action"`      // Human readable description
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"` // When it happened
	Admin     *User     `gorm:"foreignKey:AdminID" json:"-"`           // Belongs to User
}
