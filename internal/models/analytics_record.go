package models

import "time"

// AnalyticsRecord is one immutable row in the AI Sifu question log.
// Rows are append-only and feed the reporting queries and the cache warmer.
type AnalyticsRecord struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID       uint64 `gorm:"not null;index"`     // Asking user ID.
	QuestionText string `gorm:"type:text;not null"` // Question exactly as asked.

	ResponseCached bool  `gorm:"not null;default:false"` // Whether the answer came from cache.
	CostCents      int64 `gorm:"not null;default:0"`     // Generation cost charged for this ask.
	ResponseTimeMs int64 `gorm:"not null;default:0"`     // End-to-end answer latency.

	CourseID *uint64 `gorm:"index"` // Course context, when the ask targeted a course.

	CreatedAt time.Time `gorm:"not null;index"` // Insertion timestamp, used by time-windowed reports.
}
