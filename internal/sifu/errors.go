package sifu

import "fmt"

// Quota decision reason codes surfaced to API clients.
const (
	// ReasonAdminUnlimited marks an allow for administrator accounts.
	ReasonAdminUnlimited = "admin_unlimited"
	// ReasonSubscriptionAccess marks an allow charged to the subscription tier.
	ReasonSubscriptionAccess = "subscription_access"
	// ReasonCoursePurchaseAccess marks an allow charged to a purchased course.
	ReasonCoursePurchaseAccess = "course_purchase_access"
	// ReasonSubscriptionLimitReached denies once the monthly subscription quota is spent.
	ReasonSubscriptionLimitReached = "subscription_limit_reached"
	// ReasonCourseLimitReached denies once a course's monthly quota is spent.
	ReasonCourseLimitReached = "course_limit_reached"
	// ReasonNoAccess denies users with no entitlement for the ask.
	ReasonNoAccess = "no_access"
)

// denyMessages maps each deny reason to its user-facing text.
var denyMessages = map[string]string{
	ReasonSubscriptionLimitReached: "You have used all of this month's subscription questions. Your quota resets on the first of next month.",
	ReasonCourseLimitReached:       "You have used all of this month's questions for this course. Your quota resets on the first of next month.",
	ReasonNoAccess:                 "AI Sifu is available with an active subscription or a completed course purchase.",
}

// QuotaDeniedError reports a refused ask together with the quota numbers the
// client needs to render an actionable message.
type QuotaDeniedError struct {
	Reason   string
	Limit    int64
	Used     int64
	CourseID *uint64
}

func (e *QuotaDeniedError) Error() string {
	if e.CourseID != nil {
		return fmt.Sprintf("quota denied: %s (limit=%d used=%d course=%d)", e.Reason, e.Limit, e.Used, *e.CourseID)
	}
	return fmt.Sprintf("quota denied: %s (limit=%d used=%d)", e.Reason, e.Limit, e.Used)
}

// Message returns the user-facing text for the deny reason.
func (e *QuotaDeniedError) Message() string {
	if msg, ok := denyMessages[e.Reason]; ok {
		return msg
	}
	return "This question cannot be asked right now."
}

// GenerationError wraps an answer engine failure after the retry budget is
// exhausted. Usage is never charged for a failed generation.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// AccountingError wraps a usage-increment failure. It propagates to the
// caller: an answered question that cannot be counted fails the request
// rather than silently under-counting quota.
type AccountingError struct {
	Err error
}

func (e *AccountingError) Error() string {
	return fmt.Sprintf("usage accounting failed: %v", e.Err)
}

func (e *AccountingError) Unwrap() error { return e.Err }
