package sifu

// ChargeTier identifies which counter absorbs an allowed ask.
type ChargeTier string

// Charge tiers, in the order the decision rules consider them.
const (
	// ChargeNone records cost without a quota counter (administrators).
	ChargeNone ChargeTier = "none"
	// ChargeSubscription charges the monthly subscription counter.
	ChargeSubscription ChargeTier = "subscription"
	// ChargeCourse charges the per-course counter for the ask's course.
	ChargeCourse ChargeTier = "course"
)

// AccessFacts carries the externally resolved entitlement facts for one ask.
// They are treated as ground truth for the instant of the check.
type AccessFacts struct {
	IsAdmin               bool
	HasActiveSubscription bool
	HasCompletedPurchase  bool // for the ask's course, when one is supplied
}

// Limits holds the per-tier monthly quota limits.
type Limits struct {
	Subscription int64
	PerCourse    int64
}

// AccountSnapshot is a read-only view of one (user, period) usage account.
type AccountSnapshot struct {
	SubscriptionUsage int64
	CourseUsage       map[uint64]int64
	TotalCostCents    int64
}

// CourseCount returns the period's ask count for a course.
func (s *AccountSnapshot) CourseCount(courseID uint64) int64 {
	if s == nil || s.CourseUsage == nil {
		return 0
	}
	return s.CourseUsage[courseID]
}

// Decision is the outcome of the quota check for one ask.
type Decision struct {
	Allowed  bool
	Reason   string
	Tier     ChargeTier
	Limit    int64
	Used     int64
	CourseID *uint64
}

// Deny converts a denial into the error surfaced to the caller.
func (d Decision) Deny() *QuotaDeniedError {
	return &QuotaDeniedError{Reason: d.Reason, Limit: d.Limit, Used: d.Used, CourseID: d.CourseID}
}

// Decide applies the access rules in order and returns the first match.
// The order is load-bearing: admins bypass quotas entirely, and an active
// subscription is consulted before course-purchase entitlements, so a
// subscriber's purchase quota stays dormant while subscribed.
func Decide(facts AccessFacts, account *AccountSnapshot, courseID *uint64, limits Limits) Decision {
	if facts.IsAdmin {
		return Decision{Allowed: true, Reason: ReasonAdminUnlimited, Tier: ChargeNone}
	}

	if facts.HasActiveSubscription {
		var used int64
		if account != nil {
			used = account.SubscriptionUsage
		}
		if used >= limits.Subscription {
			return Decision{
				Allowed: false,
				Reason:  ReasonSubscriptionLimitReached,
				Limit:   limits.Subscription,
				Used:    used,
			}
		}
		return Decision{Allowed: true, Reason: ReasonSubscriptionAccess, Tier: ChargeSubscription}
	}

	if courseID != nil && facts.HasCompletedPurchase {
		used := account.CourseCount(*courseID)
		if used >= limits.PerCourse {
			return Decision{
				Allowed:  false,
				Reason:   ReasonCourseLimitReached,
				Limit:    limits.PerCourse,
				Used:     used,
				CourseID: courseID,
			}
		}
		return Decision{Allowed: true, Reason: ReasonCoursePurchaseAccess, Tier: ChargeCourse, CourseID: courseID}
	}

	return Decision{Allowed: false, Reason: ReasonNoAccess}
}
