package models

import "time"

// User represents a platform member account stored in the database.
//
// Only the fields the AI Sifu layer reads are modeled here; the full member
// profile (avatars, city, martial arts styles) lives with the CRUD resources.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Email    string `gorm:"type:text;not null;uniqueIndex"` // Unique email address.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	IsAdmin bool `gorm:"not null;default:false"` // Grants unlimited AI Sifu access.

	SubscriptionActive    bool       `gorm:"not null;default:false"` // Whether a platform subscription is active.
	SubscriptionExpiresAt *time.Time // Optional subscription end timestamp.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// HasActiveSubscription reports whether the subscription is active at t.
func (u *User) HasActiveSubscription(t time.Time) bool {
	if !u.SubscriptionActive {
		return false
	}
	if u.SubscriptionExpiresAt == nil {
		return true
	}
	return u.SubscriptionExpiresAt.After(t)
}
