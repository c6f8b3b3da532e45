package sifu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rlondon3/jingwufoundationbackend/internal/identity"
	"github.com/rlondon3/jingwufoundationbackend/internal/settings"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Service orchestrates one ask end to end: quota check, cache lookup,
// generation, accounting, and the analytics log.
type Service struct {
	cache     *ResponseCache
	accounts  *AccountStore
	analytics *AnalyticsRecorder
	facts     identity.Facts
	engine    AnswerEngine
}

// NewService wires the ask pipeline. The engine should already carry its
// retry budget (see NewRetryingEngine).
func NewService(cache *ResponseCache, accounts *AccountStore, analytics *AnalyticsRecorder, facts identity.Facts, engine AnswerEngine) *Service {
	return &Service{
		cache:     cache,
		accounts:  accounts,
		analytics: analytics,
		facts:     facts,
		engine:    engine,
	}
}

// QuotaLimits resolves the configured per-tier limits.
func QuotaLimits() Limits {
	return Limits{
		Subscription: int64(settings.IntValue(settings.SubscriptionMonthlyLimitKey, settings.DefaultSubscriptionMonthlyLimit)),
		PerCourse:    int64(settings.IntValue(settings.CourseMonthlyLimitKey, settings.DefaultCourseMonthlyLimit)),
	}
}

// AskResult is the answer to one authorized ask.
type AskResult struct {
	Answer         Answer
	Cached         bool
	CostCents      int64
	ResponseTimeMs int64
}

// Ask answers a question for a user, enforcing quota first. Errors are
// *QuotaDeniedError, *GenerationError, or *AccountingError; cache failures
// degrade to a miss and never fail the ask.
func (s *Service) Ask(ctx context.Context, userID uint64, questionText string, courseID *uint64) (*AskResult, error) {
	if s == nil {
		return nil, errors.New("sifu: nil service")
	}
	if questionText == "" {
		return nil, errors.New("sifu: empty question")
	}

	now := time.Now().UTC()
	period := PeriodStart(now)

	snapshot, errSnapshot := s.accounts.Snapshot(ctx, userID, period)
	if errSnapshot != nil {
		return nil, &AccountingError{Err: errSnapshot}
	}
	facts, errFacts := s.resolveFacts(ctx, userID, courseID)
	if errFacts != nil {
		return nil, fmt.Errorf("sifu: resolve access facts: %w", errFacts)
	}

	decision := Decide(facts, snapshot, courseID, QuotaLimits())
	if !decision.Allowed {
		return nil, decision.Deny()
	}

	started := time.Now()
	answer, cached, costCents, errAnswer := s.obtainAnswer(ctx, userID, questionText, courseID, started)
	if errAnswer != nil {
		return nil, errAnswer
	}
	elapsedMs := time.Since(started).Milliseconds()

	// Usage is charged only after a response was successfully obtained; a
	// failed generation never produces a phantom charge.
	if errIncrement := s.accounts.Increment(ctx, userID, period, decision.Tier, decision.CourseID, costCents); errIncrement != nil {
		return nil, &AccountingError{Err: errIncrement}
	}

	if errRecord := s.analytics.Record(ctx, userID, questionText, cached, costCents, elapsedMs, courseID); errRecord != nil {
		log.WithError(errRecord).Warn("ai sifu: analytics record failed")
	}

	return &AskResult{
		Answer:         *answer,
		Cached:         cached,
		CostCents:      costCents,
		ResponseTimeMs: elapsedMs,
	}, nil
}

// obtainAnswer serves the question from cache when possible and generates
// otherwise. Cache hits cost zero cents, the documented product default.
func (s *Service) obtainAnswer(ctx context.Context, userID uint64, questionText string, courseID *uint64, started time.Time) (*Answer, bool, int64, error) {
	entry, hit, errGet := s.cache.Get(ctx, questionText)
	if errGet != nil {
		log.WithError(errGet).Warn("ai sifu: cache read degraded to miss")
	}
	if hit {
		var answer Answer
		errDecode := json.Unmarshal(entry.ResponseData, &answer)
		if errDecode == nil {
			return &answer, true, 0, nil
		}
		log.WithError(errDecode).Warn("ai sifu: cached payload undecodable, regenerating")
	}

	answer, errGenerate := s.engine.Generate(ctx, questionText)
	if errGenerate != nil {
		// The attempt completed; log it even though nothing was charged.
		if errRecord := s.analytics.Record(ctx, userID, questionText, false, 0, time.Since(started).Milliseconds(), courseID); errRecord != nil {
			log.WithError(errRecord).Warn("ai sifu: analytics record failed")
		}
		var generationErr *GenerationError
		if errors.As(errGenerate, &generationErr) {
			return nil, false, 0, generationErr
		}
		return nil, false, 0, &GenerationError{Err: errGenerate}
	}

	payload, errEncode := json.Marshal(answer)
	if errEncode != nil {
		return nil, false, 0, &GenerationError{Err: errEncode}
	}
	if _, errPut := s.cache.Put(ctx, questionText, datatypes.JSON(payload), 0); errPut != nil {
		log.WithError(errPut).Warn("ai sifu: cache write skipped")
	}

	costCents := EstimateCostCents(questionText, answer.ResponseText, CostRateCentsPer1K())
	return answer, false, costCents, nil
}

func (s *Service) resolveFacts(ctx context.Context, userID uint64, courseID *uint64) (AccessFacts, error) {
	isAdmin, errAdmin := s.facts.IsAdmin(ctx, userID)
	if errAdmin != nil {
		return AccessFacts{}, errAdmin
	}
	subscribed, errSubscription := s.facts.HasActiveSubscription(ctx, userID)
	if errSubscription != nil {
		return AccessFacts{}, errSubscription
	}
	purchased := false
	if courseID != nil {
		var errPurchase error
		purchased, errPurchase = s.facts.HasCompletedPurchase(ctx, userID, *courseID)
		if errPurchase != nil {
			return AccessFacts{}, errPurchase
		}
	}
	return AccessFacts{
		IsAdmin:               isAdmin,
		HasActiveSubscription: subscribed,
		HasCompletedPurchase:  purchased,
	}, nil
}

// TierSummary reports one quota tier's standing for the usage endpoint.
type TierSummary struct {
	Used      int64 `json:"used"`
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
}

// CourseSummary reports one purchased course's quota standing.
type CourseSummary struct {
	CourseID  uint64 `json:"course_id"`
	Used      int64  `json:"used"`
	Limit     int64  `json:"limit"`
	Remaining int64  `json:"remaining"`
}

// UsageSummary is the current period's standing across all tiers.
type UsageSummary struct {
	Subscription struct {
		TierSummary
		Active bool `json:"active"`
	} `json:"subscription"`
	Courses        []CourseSummary `json:"courses"`
	TotalCostCents int64           `json:"total_cost_cents"`
}

// UsageSummary assembles the current period's quota standing for a user.
// Courses listed are the user's completed purchases.
func (s *Service) UsageSummary(ctx context.Context, userID uint64) (*UsageSummary, error) {
	if s == nil {
		return nil, errors.New("sifu: nil service")
	}
	period := PeriodStart(time.Now().UTC())

	snapshot, errSnapshot := s.accounts.Snapshot(ctx, userID, period)
	if errSnapshot != nil {
		return nil, errSnapshot
	}
	active, errSubscription := s.facts.HasActiveSubscription(ctx, userID)
	if errSubscription != nil {
		return nil, errSubscription
	}
	purchases, errPurchases := s.facts.CompletedPurchases(ctx, userID)
	if errPurchases != nil {
		return nil, errPurchases
	}

	limits := QuotaLimits()
	summary := &UsageSummary{TotalCostCents: snapshot.TotalCostCents}
	summary.Subscription.Used = snapshot.SubscriptionUsage
	summary.Subscription.Limit = limits.Subscription
	summary.Subscription.Remaining = remaining(limits.Subscription, snapshot.SubscriptionUsage)
	summary.Subscription.Active = active

	summary.Courses = make([]CourseSummary, 0, len(purchases))
	for _, courseID := range purchases {
		used := snapshot.CourseCount(courseID)
		summary.Courses = append(summary.Courses, CourseSummary{
			CourseID:  courseID,
			Used:      used,
			Limit:     limits.PerCourse,
			Remaining: remaining(limits.PerCourse, used),
		})
	}
	return summary, nil
}

func remaining(limit, used int64) int64 {
	if used >= limit {
		return 0
	}
	return limit - used
}
