package sifu

import "testing"

func uintPtr(v uint64) *uint64 { return &v }

func TestDecideOrderAndLimits(t *testing.T) {
	limits := Limits{Subscription: 100, PerCourse: 10}
	course := uintPtr(7)

	cases := []struct {
		name       string
		facts      AccessFacts
		account    *AccountSnapshot
		courseID   *uint64
		wantAllow  bool
		wantReason string
		wantTier   ChargeTier
	}{
		{
			name:       "admin bypasses everything",
			facts:      AccessFacts{IsAdmin: true, HasActiveSubscription: true},
			account:    &AccountSnapshot{SubscriptionUsage: 100},
			wantAllow:  true,
			wantReason: ReasonAdminUnlimited,
			wantTier:   ChargeNone,
		},
		{
			name:       "subscriber under limit",
			facts:      AccessFacts{HasActiveSubscription: true},
			account:    &AccountSnapshot{SubscriptionUsage: 99},
			wantAllow:  true,
			wantReason: ReasonSubscriptionAccess,
			wantTier:   ChargeSubscription,
		},
		{
			name:       "subscriber at limit",
			facts:      AccessFacts{HasActiveSubscription: true},
			account:    &AccountSnapshot{SubscriptionUsage: 100},
			wantAllow:  false,
			wantReason: ReasonSubscriptionLimitReached,
		},
		{
			name:       "subscriber blocked even with course purchase available",
			facts:      AccessFacts{HasActiveSubscription: true, HasCompletedPurchase: true},
			account:    &AccountSnapshot{SubscriptionUsage: 100},
			courseID:   course,
			wantAllow:  false,
			wantReason: ReasonSubscriptionLimitReached,
		},
		{
			name:       "course purchase under limit",
			facts:      AccessFacts{HasCompletedPurchase: true},
			account:    &AccountSnapshot{CourseUsage: map[uint64]int64{7: 9}},
			courseID:   course,
			wantAllow:  true,
			wantReason: ReasonCoursePurchaseAccess,
			wantTier:   ChargeCourse,
		},
		{
			name:       "course purchase at limit",
			facts:      AccessFacts{HasCompletedPurchase: true},
			account:    &AccountSnapshot{CourseUsage: map[uint64]int64{7: 10}},
			courseID:   course,
			wantAllow:  false,
			wantReason: ReasonCourseLimitReached,
		},
		{
			name:       "purchase without course context denied",
			facts:      AccessFacts{HasCompletedPurchase: true},
			account:    &AccountSnapshot{},
			wantAllow:  false,
			wantReason: ReasonNoAccess,
		},
		{
			name:       "no entitlement",
			facts:      AccessFacts{},
			account:    &AccountSnapshot{},
			courseID:   course,
			wantAllow:  false,
			wantReason: ReasonNoAccess,
		},
		{
			name:       "nil account treated as zero usage",
			facts:      AccessFacts{HasActiveSubscription: true},
			account:    nil,
			wantAllow:  true,
			wantReason: ReasonSubscriptionAccess,
			wantTier:   ChargeSubscription,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.facts, tc.account, tc.courseID, limits)
			if d.Allowed != tc.wantAllow {
				t.Fatalf("Allowed = %v, want %v", d.Allowed, tc.wantAllow)
			}
			if d.Reason != tc.wantReason {
				t.Fatalf("Reason = %q, want %q", d.Reason, tc.wantReason)
			}
			if tc.wantAllow && d.Tier != tc.wantTier {
				t.Fatalf("Tier = %q, want %q", d.Tier, tc.wantTier)
			}
		})
	}
}

func TestDecideDenyCarriesQuotaNumbers(t *testing.T) {
	limits := Limits{Subscription: 100, PerCourse: 10}
	d := Decide(AccessFacts{HasActiveSubscription: true}, &AccountSnapshot{SubscriptionUsage: 100}, nil, limits)
	if d.Allowed {
		t.Fatal("expected denial")
	}
	deny := d.Deny()
	if deny.Limit != 100 || deny.Used != 100 {
		t.Fatalf("deny limit/used = %d/%d, want 100/100", deny.Limit, deny.Used)
	}
	if deny.Message() == "" {
		t.Fatal("expected a user-facing message")
	}

	course := uintPtr(3)
	d = Decide(AccessFacts{HasCompletedPurchase: true}, &AccountSnapshot{CourseUsage: map[uint64]int64{3: 10}}, course, limits)
	deny = d.Deny()
	if deny.CourseID == nil || *deny.CourseID != 3 {
		t.Fatalf("expected course id 3 on denial, got %v", deny.CourseID)
	}
}
