package models

import "time"

// Purchase statuses written by the order pipeline.
const (
	// PurchaseStatusPending marks an order that has not cleared payment.
	PurchaseStatusPending = "pending"
	// PurchaseStatusCompleted marks a paid order granting course access.
	PurchaseStatusCompleted = "completed"
	// PurchaseStatusRefunded marks a reversed order.
	PurchaseStatusRefunded = "refunded"
)

// CoursePurchase records a user's order for a single course.
type CoursePurchase struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID   uint64 `gorm:"not null;uniqueIndex:ux_course_purchases_user_course"` // Purchasing user ID.
	CourseID uint64 `gorm:"not null;uniqueIndex:ux_course_purchases_user_course"` // Purchased course ID.

	Status string `gorm:"type:text;not null;default:'pending';index"` // Order status.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
