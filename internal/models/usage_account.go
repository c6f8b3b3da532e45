package models

import "time"

// UsageAccount tracks a user's AI Sifu consumption for one calendar month.
//
// Exactly one row exists per (user, period); counters only grow within a
// period and rows are retained after the period closes.
type UsageAccount struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID      uint64    `gorm:"not null;uniqueIndex:ux_usage_accounts_user_period"` // Owning user ID.
	PeriodStart time.Time `gorm:"not null;uniqueIndex:ux_usage_accounts_user_period"` // First day of the month, UTC.

	SubscriptionUsage int64 `gorm:"not null;default:0"` // Questions charged to the subscription tier.
	TotalCostCents    int64 `gorm:"not null;default:0"` // Accumulated generation cost in cents.

	CourseUsages []CourseUsage `gorm:"foreignKey:AccountID"` // Per-course counters for the period.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// CourseUsage is a per-course question counter attached to a UsageAccount.
//
// Counters are normalized into their own rows so increments can run as a
// single server-side statement instead of rewriting a JSON map.
type CourseUsage struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	AccountID uint64 `gorm:"not null;uniqueIndex:ux_course_usages_account_course"` // Owning usage account ID.
	CourseID  uint64 `gorm:"not null;uniqueIndex:ux_course_usages_account_course"` // Course the questions were asked against.

	Count int64 `gorm:"not null;default:0"` // Questions charged to this course.

	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
