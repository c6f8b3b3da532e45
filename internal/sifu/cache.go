package sifu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rlondon3/jingwufoundationbackend/internal/models"
	"github.com/rlondon3/jingwufoundationbackend/internal/settings"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResponseCache maps normalized question keys to previously generated
// answers, with TTL-based expiry. Entries are shared across all users.
type ResponseCache struct {
	db *gorm.DB
}

// NewResponseCache constructs a ResponseCache backed by GORM.
func NewResponseCache(db *gorm.DB) *ResponseCache {
	return &ResponseCache{db: db}
}

// DefaultTTLDays returns the configured cache TTL for regular writes.
func DefaultTTLDays() int {
	return settings.IntValue(settings.CacheTTLDaysKey, settings.DefaultCacheTTLDays)
}

// WarmTTLDays returns the extended TTL used by the cache warmer.
func WarmTTLDays() int {
	return settings.IntValue(settings.WarmCacheTTLDaysKey, settings.DefaultWarmCacheTTLDays)
}

// Get looks up the live entry for a question. Expiry is advisory at read
// time: rows at or past expires_at are reported as absent even before the
// sweeper removes them. A hit bumps usage_count best-effort; a lost bump
// under concurrency costs analytics precision, not correctness.
func (c *ResponseCache) Get(ctx context.Context, questionText string) (*models.CacheEntry, bool, error) {
	if c == nil || c.db == nil {
		return nil, false, errors.New("sifu: nil response cache")
	}
	key := QuestionKey(questionText)

	var entry models.CacheEntry
	if errTake := c.db.WithContext(ctx).
		Where("question_hash = ?", key).
		Take(&entry).Error; errTake != nil {
		if errors.Is(errTake, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("sifu: cache read: %w", errTake)
	}
	if entry.Expired(time.Now().UTC()) {
		return nil, false, nil
	}

	if errBump := c.db.WithContext(ctx).
		Model(&models.CacheEntry{}).
		Where("id = ?", entry.ID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; errBump != nil {
		log.WithError(errBump).Warn("response cache: hit count update failed")
	} else {
		entry.UsageCount++
	}
	return &entry, true, nil
}

// Contains reports whether a live entry exists for the question without
// counting a use. The warmer relies on this to skip cached candidates.
func (c *ResponseCache) Contains(ctx context.Context, questionText string) (bool, error) {
	if c == nil || c.db == nil {
		return false, errors.New("sifu: nil response cache")
	}
	var count int64
	if errCount := c.db.WithContext(ctx).
		Model(&models.CacheEntry{}).
		Where("question_hash = ? AND expires_at > ?", QuestionKey(questionText), time.Now().UTC()).
		Count(&count).Error; errCount != nil {
		return false, fmt.Errorf("sifu: cache lookup: %w", errCount)
	}
	return count > 0, nil
}

// Put upserts the answer for a question. A fresh key inserts with
// usage_count = 1 (the write counts as a use); an existing key gets its
// response replaced, its expiry extended, and its counter bumped, all in
// one statement so concurrent puts cannot duplicate rows or lose counts.
// ttlDays <= 0 selects the configured default.
func (c *ResponseCache) Put(ctx context.Context, questionText string, responseData datatypes.JSON, ttlDays int) (*models.CacheEntry, error) {
	if c == nil || c.db == nil {
		return nil, errors.New("sifu: nil response cache")
	}
	if len(responseData) == 0 {
		return nil, errors.New("sifu: empty response data")
	}
	if ttlDays <= 0 {
		ttlDays = DefaultTTLDays()
	}

	now := time.Now().UTC()
	expiresAt := now.AddDate(0, 0, ttlDays)
	entry := models.CacheEntry{
		QuestionHash: QuestionKey(questionText),
		QuestionText: questionText,
		ResponseData: responseData,
		UsageCount:   1,
		CreatedAt:    now,
		ExpiresAt:    expiresAt,
	}
	if errUpsert := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "question_hash"}},
			DoUpdates: clause.Assignments(map[string]any{
				"question_text": questionText,
				"response_data": responseData,
				"usage_count":   gorm.Expr("usage_count + 1"),
				"created_at":    now,
				"expires_at":    expiresAt,
			}),
		}).
		Create(&entry).Error; errUpsert != nil {
		return nil, fmt.Errorf("sifu: cache write: %w", errUpsert)
	}

	var stored models.CacheEntry
	if errTake := c.db.WithContext(ctx).
		Where("question_hash = ?", entry.QuestionHash).
		Take(&stored).Error; errTake != nil {
		return nil, fmt.Errorf("sifu: cache read back: %w", errTake)
	}
	return &stored, nil
}

// SweepExpired deletes every entry whose expiry has passed and returns the
// number removed. Idempotent; safe to run alongside Get and Put.
func (c *ResponseCache) SweepExpired(ctx context.Context) (int64, error) {
	if c == nil || c.db == nil {
		return 0, errors.New("sifu: nil response cache")
	}
	res := c.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now().UTC()).
		Delete(&models.CacheEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("sifu: cache sweep: %w", res.Error)
	}
	return res.RowsAffected, nil
}
