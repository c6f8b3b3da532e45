package models

import (
	"encoding/json"
	"time"
)

// Setting stores one operational tuning value in the database. AI Sifu quota
// limits, cache TTLs, and warming parameters live here so they can change at
// runtime without a deploy.
type Setting struct {
	Key       string          `gorm:"type:varchar(255);primaryKey"`                      // Setting key, see internal/settings.
	Value     json.RawMessage `gorm:"type:jsonb"`                                        // JSON-encoded value.
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime;default:CURRENT_TIMESTAMP"` // Last update timestamp.
}
