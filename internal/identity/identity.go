// Package identity resolves the access-control facts the quota policy
// consumes. The facts are externally owned; this package only reads them.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/rlondon3/jingwufoundationbackend/internal/models"
	"gorm.io/gorm"
)

// Facts answers entitlement questions about a user at ask time. Answers are
// ground truth for the instant of the check; no staleness guarantee beyond
// "recent enough" is made.
type Facts interface {
	IsAdmin(ctx context.Context, userID uint64) (bool, error)
	HasActiveSubscription(ctx context.Context, userID uint64) (bool, error)
	HasCompletedPurchase(ctx context.Context, userID, courseID uint64) (bool, error)
	CompletedPurchases(ctx context.Context, userID uint64) ([]uint64, error)
}

// Store is the database-backed Facts implementation.
type Store struct {
	db *gorm.DB
}

// NewStore constructs a Store backed by GORM.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// IsAdmin reports whether the user holds the admin flag.
func (s *Store) IsAdmin(ctx context.Context, userID uint64) (bool, error) {
	user, errLoad := s.loadUser(ctx, userID)
	if errLoad != nil {
		return false, errLoad
	}
	return user.IsAdmin, nil
}

// HasActiveSubscription reports whether the user's subscription is active now.
func (s *Store) HasActiveSubscription(ctx context.Context, userID uint64) (bool, error) {
	user, errLoad := s.loadUser(ctx, userID)
	if errLoad != nil {
		return false, errLoad
	}
	return user.HasActiveSubscription(time.Now().UTC()), nil
}

// HasCompletedPurchase reports whether the user holds a completed order for
// the course.
func (s *Store) HasCompletedPurchase(ctx context.Context, userID, courseID uint64) (bool, error) {
	if s == nil || s.db == nil {
		return false, errors.New("identity: nil store")
	}
	var count int64
	if errCount := s.db.WithContext(ctx).
		Model(&models.CoursePurchase{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, models.PurchaseStatusCompleted).
		Count(&count).Error; errCount != nil {
		return false, errCount
	}
	return count > 0, nil
}

// CompletedPurchases lists the course IDs the user has completed orders for.
func (s *Store) CompletedPurchases(ctx context.Context, userID uint64) ([]uint64, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("identity: nil store")
	}
	var courseIDs []uint64
	if errPluck := s.db.WithContext(ctx).
		Model(&models.CoursePurchase{}).
		Where("user_id = ? AND status = ?", userID, models.PurchaseStatusCompleted).
		Order("course_id ASC").
		Pluck("course_id", &courseIDs).Error; errPluck != nil {
		return nil, errPluck
	}
	return courseIDs, nil
}

func (s *Store) loadUser(ctx context.Context, userID uint64) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("identity: nil store")
	}
	var user models.User
	if errTake := s.db.WithContext(ctx).
		Select("id", "is_admin", "subscription_active", "subscription_expires_at").
		Where("id = ?", userID).
		Take(&user).Error; errTake != nil {
		return nil, errTake
	}
	return &user, nil
}

// Ensure Store implements Facts.
var _ Facts = (*Store)(nil)
