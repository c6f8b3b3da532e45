package models

import (
	"time"

	"gorm.io/datatypes"
)

// CacheEntry stores one generated AI Sifu answer keyed by the normalized
// question hash. Entries are shared across users; any user's question can be
// served from any other user's cached answer.
type CacheEntry struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	QuestionHash string `gorm:"type:varchar(64);not null;uniqueIndex"` // SHA-256 hex of the normalized question.
	QuestionText string `gorm:"type:text;not null"`                    // Original question text, for display and audit.

	ResponseData datatypes.JSON `gorm:"type:jsonb;not null"` // Opaque answer payload from the engine.

	UsageCount int64 `gorm:"not null;default:0"` // Times this entry was written or served.

	CreatedAt time.Time `gorm:"not null"`       // Time of the last write for this hash.
	ExpiresAt time.Time `gorm:"not null;index"` // Entries at or past this time are logically absent.
}

// Expired reports whether the entry is logically absent at t.
func (e *CacheEntry) Expired(t time.Time) bool {
	return !e.ExpiresAt.After(t)
}
