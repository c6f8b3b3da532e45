package sifu

import (
	"context"
	"errors"
	"time"

	dbutil "github.com/rlondon3/jingwufoundationbackend/internal/db"
	"github.com/rlondon3/jingwufoundationbackend/internal/models"
	"gorm.io/gorm"
)

// AnalyticsRecorder appends question-log rows and serves the read-side
// aggregations built on them.
type AnalyticsRecorder struct {
	db *gorm.DB
}

// NewAnalyticsRecorder constructs an AnalyticsRecorder backed by GORM.
func NewAnalyticsRecorder(db *gorm.DB) *AnalyticsRecorder {
	return &AnalyticsRecorder{db: db}
}

// Record appends one immutable row to the question log.
func (r *AnalyticsRecorder) Record(ctx context.Context, userID uint64, questionText string, cached bool, costCents, responseTimeMs int64, courseID *uint64) error {
	if r == nil || r.db == nil {
		return errors.New("sifu: nil analytics recorder")
	}
	row := models.AnalyticsRecord{
		UserID:         userID,
		QuestionText:   questionText,
		ResponseCached: cached,
		CostCents:      costCents,
		ResponseTimeMs: responseTimeMs,
		CourseID:       courseID,
		CreatedAt:      time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// PopularQuestion is one row of the popular-questions report. LastAskedAt is
// "YYYY-MM-DD HH:MM:SS" in UTC; it is rendered to text in SQL so the scan
// target works on both supported dialects.
type PopularQuestion struct {
	QuestionText string `json:"question_text"`
	AskCount     int64  `json:"ask_count"`
	LastAskedAt  string `json:"last_asked_at"`
}

// PopularQuestions groups asks since the cutoff by exact question text and
// returns those asked at least minAsks times, most-asked first.
func (r *AnalyticsRecorder) PopularQuestions(ctx context.Context, since time.Time, minAsks, limit int) ([]PopularQuestion, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sifu: nil analytics recorder")
	}
	if minAsks < 1 {
		minAsks = 1
	}
	if limit <= 0 {
		limit = 50
	}

	lastAsked := dbutil.TimestampTextExpr(r.db, "MAX(created_at)")

	var rows []PopularQuestion
	if errScan := r.db.WithContext(ctx).
		Model(&models.AnalyticsRecord{}).
		Select("question_text, COUNT(*) AS ask_count, " + lastAsked + " AS last_asked_at").
		Where("created_at >= ?", since).
		Group("question_text").
		Having("COUNT(*) >= ?", minAsks).
		Order("ask_count DESC, question_text ASC").
		Limit(limit).
		Scan(&rows).Error; errScan != nil {
		return nil, errScan
	}
	return rows, nil
}

// DailyRollup aggregates one calendar day of the question log.
type DailyRollup struct {
	Day       string `json:"day"`
	Questions int64  `json:"questions"`
	CacheHits int64  `json:"cache_hits"`
	CostCents int64  `json:"cost_cents"`
}

// DailyRollups returns per-day question volume, cache hits, and cost since
// the cutoff, oldest day first.
func (r *AnalyticsRecorder) DailyRollups(ctx context.Context, since time.Time) ([]DailyRollup, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sifu: nil analytics recorder")
	}
	bucket := dbutil.DayBucketExpr(r.db, "created_at")

	var rows []DailyRollup
	if errScan := r.db.WithContext(ctx).
		Model(&models.AnalyticsRecord{}).
		Select(bucket + " AS day, COUNT(*) AS questions, COALESCE(SUM(CASE WHEN response_cached THEN 1 ELSE 0 END), 0) AS cache_hits, COALESCE(SUM(cost_cents), 0) AS cost_cents").
		Where("created_at >= ?", since).
		Group(bucket).
		Order("day ASC").
		Scan(&rows).Error; errScan != nil {
		return nil, errScan
	}
	return rows, nil
}

// HitRateStats summarizes cache effectiveness over a window.
type HitRateStats struct {
	Total   int64   `json:"total"`
	Hits    int64   `json:"hits"`
	HitRate float64 `json:"hit_rate"`
}

// HitRate reports the share of asks served from cache since the cutoff.
func (r *AnalyticsRecorder) HitRate(ctx context.Context, since time.Time) (*HitRateStats, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sifu: nil analytics recorder")
	}

	var stats HitRateStats
	if errScan := r.db.WithContext(ctx).
		Model(&models.AnalyticsRecord{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN response_cached THEN 1 ELSE 0 END), 0) AS hits").
		Where("created_at >= ?", since).
		Scan(&stats).Error; errScan != nil {
		return nil, errScan
	}
	if stats.Total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Total)
	}
	return &stats, nil
}

// minWarmQuestionLen filters trivial questions out of warming candidates.
const minWarmQuestionLen = 12

// WarmCandidates selects questions worth pre-caching: asked at least minAsks
// times since the cutoff by non-admin users, long enough to be a real
// question, and not test or debug chatter. Ordered most-asked first, capped
// at topN.
func (r *AnalyticsRecorder) WarmCandidates(ctx context.Context, since time.Time, minAsks, topN int) ([]string, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sifu: nil analytics recorder")
	}
	if minAsks < 1 {
		minAsks = 1
	}
	if topN <= 0 {
		topN = 20
	}

	notLike := dbutil.CaseInsensitiveNotLikeExpr(r.db, "analytics_records.question_text")
	q := r.db.WithContext(ctx).
		Model(&models.AnalyticsRecord{}).
		Joins("JOIN users ON users.id = analytics_records.user_id").
		Select("analytics_records.question_text").
		Where("analytics_records.created_at >= ?", since).
		Where("users.is_admin = ?", false).
		Where("LENGTH(analytics_records.question_text) >= ?", minWarmQuestionLen).
		Where(notLike, dbutil.NormalizeLikePattern(r.db, "test%")).
		Where(notLike, dbutil.NormalizeLikePattern(r.db, "debug%")).
		Group("analytics_records.question_text").
		Having("COUNT(*) >= ?", minAsks).
		Order("COUNT(*) DESC, analytics_records.question_text ASC").
		Limit(topN)

	var questions []string
	if errPluck := q.Pluck("analytics_records.question_text", &questions).Error; errPluck != nil {
		return nil, errPluck
	}
	return questions, nil
}
