package settings

// DB config keys and defaults for the AI Sifu policy constants.
const (
	// SubscriptionMonthlyLimitKey is the DB config key for the subscription quota.
	SubscriptionMonthlyLimitKey = "SIFU_SUBSCRIPTION_MONTHLY_LIMIT"
	// CourseMonthlyLimitKey is the DB config key for the per-course quota.
	CourseMonthlyLimitKey = "SIFU_COURSE_MONTHLY_LIMIT"
	// CacheTTLDaysKey controls the response cache TTL in days.
	CacheTTLDaysKey = "SIFU_CACHE_TTL_DAYS"
	// WarmCacheTTLDaysKey controls the extended TTL used by the cache warmer.
	WarmCacheTTLDaysKey = "SIFU_WARM_CACHE_TTL_DAYS"
	// WarmMinAsksKey is the minimum ask count for a warming candidate.
	WarmMinAsksKey = "SIFU_WARM_MIN_ASKS"
	// WarmTopNKey caps how many candidates one warming run pre-caches.
	WarmTopNKey = "SIFU_WARM_TOP_N"
	// CostCentsPer1KTokensKey sets the generation cost rate.
	CostCentsPer1KTokensKey = "SIFU_COST_CENTS_PER_1K_TOKENS"

	// DefaultSubscriptionMonthlyLimit is the fallback subscription quota per month.
	DefaultSubscriptionMonthlyLimit = 100
	// DefaultCourseMonthlyLimit is the fallback per-course quota per month.
	DefaultCourseMonthlyLimit = 10
	// DefaultCacheTTLDays is the fallback response cache TTL.
	DefaultCacheTTLDays = 7
	// DefaultWarmCacheTTLDays is the fallback warming TTL.
	DefaultWarmCacheTTLDays = 10
	// DefaultWarmMinAsks is the fallback warming candidate threshold.
	DefaultWarmMinAsks = 3
	// DefaultWarmTopN is the fallback warming batch size.
	DefaultWarmTopN = 20
	// DefaultCostCentsPer1KTokens is the fallback generation cost rate.
	DefaultCostCentsPer1KTokens = 2
)
