package sifu

import (
	"context"
	"errors"
	"time"

	"github.com/rlondon3/jingwufoundationbackend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PeriodStart returns the quota period containing t: the first day of t's
// calendar month at midnight UTC.
func PeriodStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AccountStore manages per-user, per-month usage accounts.
type AccountStore struct {
	db *gorm.DB
}

// NewAccountStore constructs an AccountStore backed by GORM.
func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

// GetOrCreate returns the usage account for (userID, period), creating it
// with zeroed counters on first access. Concurrent first accesses resolve
// through the unique index on (user_id, period_start); the insert is an
// ON CONFLICT DO NOTHING, never a read-then-insert.
func (s *AccountStore) GetOrCreate(ctx context.Context, userID uint64, period time.Time) (*models.UsageAccount, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sifu: nil account store")
	}
	if userID == 0 {
		return nil, errors.New("sifu: empty user id")
	}
	period = PeriodStart(period)

	row := models.UsageAccount{UserID: userID, PeriodStart: period}
	if errCreate := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "period_start"}},
			DoNothing: true,
		}).
		Create(&row).Error; errCreate != nil {
		return nil, errCreate
	}

	var account models.UsageAccount
	if errTake := s.db.WithContext(ctx).
		Where("user_id = ? AND period_start = ?", userID, period).
		Take(&account).Error; errTake != nil {
		return nil, errTake
	}
	return &account, nil
}

// Snapshot returns a read-only view of the account with its per-course
// counters loaded, creating the account when absent.
func (s *AccountStore) Snapshot(ctx context.Context, userID uint64, period time.Time) (*AccountSnapshot, error) {
	account, errGet := s.GetOrCreate(ctx, userID, period)
	if errGet != nil {
		return nil, errGet
	}

	var counters []models.CourseUsage
	if errFind := s.db.WithContext(ctx).
		Where("account_id = ?", account.ID).
		Find(&counters).Error; errFind != nil {
		return nil, errFind
	}

	courseUsage := make(map[uint64]int64, len(counters))
	for _, counter := range counters {
		courseUsage[counter.CourseID] = counter.Count
	}
	return &AccountSnapshot{
		SubscriptionUsage: account.SubscriptionUsage,
		CourseUsage:       courseUsage,
		TotalCostCents:    account.TotalCostCents,
	}, nil
}

// Increment charges one ask to the account: the tier's counter advances by
// one and costCents is added to the period total. Every counter update is a
// single server-side statement, so concurrent increments for the same
// account never lose updates.
func (s *AccountStore) Increment(ctx context.Context, userID uint64, period time.Time, tier ChargeTier, courseID *uint64, costCents int64) error {
	if s == nil || s.db == nil {
		return errors.New("sifu: nil account store")
	}
	if costCents < 0 {
		return errors.New("sifu: negative cost")
	}
	if tier == ChargeCourse && courseID == nil {
		return errors.New("sifu: course charge without course id")
	}

	account, errGet := s.GetOrCreate(ctx, userID, period)
	if errGet != nil {
		return errGet
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tier == ChargeCourse {
			counter := models.CourseUsage{
				AccountID: account.ID,
				CourseID:  *courseID,
				Count:     1,
				UpdatedAt: now,
			}
			if errUpsert := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "account_id"}, {Name: "course_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"count":      gorm.Expr("count + 1"),
					"updated_at": now,
				}),
			}).Create(&counter).Error; errUpsert != nil {
				return errUpsert
			}
		}

		updates := map[string]any{
			"total_cost_cents": gorm.Expr("total_cost_cents + ?", costCents),
			"updated_at":       now,
		}
		if tier == ChargeSubscription {
			updates["subscription_usage"] = gorm.Expr("subscription_usage + 1")
		}
		return tx.Model(&models.UsageAccount{}).
			Where("id = ?", account.ID).
			Updates(updates).Error
	})
}
