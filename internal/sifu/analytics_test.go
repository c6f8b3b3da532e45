package sifu

import (
	"context"
	"testing"
	"time"

	"github.com/rlondon3/jingwufoundationbackend/internal/models"
)

func TestAnalyticsRecordAndHitRate(t *testing.T) {
	conn := openTestDB(t)
	analytics := NewAnalyticsRecorder(conn)
	ctx := context.Background()

	if errRecord := analytics.Record(ctx, 1, "what is wing chun", false, 2, 120, nil); errRecord != nil {
		t.Fatalf("record miss: %v", errRecord)
	}
	if errRecord := analytics.Record(ctx, 2, "what is wing chun", true, 0, 3, nil); errRecord != nil {
		t.Fatalf("record hit: %v", errRecord)
	}
	if errRecord := analytics.Record(ctx, 1, "what is chi sao", true, 0, 4, uintPtr(7)); errRecord != nil {
		t.Fatalf("record course hit: %v", errRecord)
	}

	stats, errStats := analytics.HitRate(ctx, time.Now().UTC().AddDate(0, 0, -1))
	if errStats != nil {
		t.Fatalf("hit rate: %v", errStats)
	}
	if stats.Total != 3 || stats.Hits != 2 {
		t.Fatalf("total/hits = %d/%d, want 3/2", stats.Total, stats.Hits)
	}
	if stats.HitRate < 0.66 || stats.HitRate > 0.67 {
		t.Fatalf("hit rate = %f, want ~0.667", stats.HitRate)
	}
}

func TestAnalyticsPopularQuestions(t *testing.T) {
	conn := openTestDB(t)
	analytics := NewAnalyticsRecorder(conn)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if errRecord := analytics.Record(ctx, uint64(i+1), "what is wing chun", false, 1, 10, nil); errRecord != nil {
			t.Fatalf("record: %v", errRecord)
		}
	}
	if errRecord := analytics.Record(ctx, 1, "what is chi sao", false, 1, 10, nil); errRecord != nil {
		t.Fatalf("record: %v", errRecord)
	}

	rows, errQuery := analytics.PopularQuestions(ctx, time.Now().UTC().AddDate(0, 0, -1), 2, 10)
	if errQuery != nil {
		t.Fatalf("popular: %v", errQuery)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].QuestionText != "what is wing chun" || rows[0].AskCount != 3 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	lastAsked, errParse := time.Parse("2006-01-02 15:04:05", rows[0].LastAskedAt)
	if errParse != nil {
		t.Fatalf("last_asked_at %q: %v", rows[0].LastAskedAt, errParse)
	}
	if age := time.Since(lastAsked); age < 0 || age > time.Hour {
		t.Fatalf("last_asked_at %v not recent", lastAsked)
	}
}

func TestAnalyticsDailyRollups(t *testing.T) {
	conn := openTestDB(t)
	analytics := NewAnalyticsRecorder(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := []models.AnalyticsRecord{
		{UserID: 1, QuestionText: "q1", ResponseCached: false, CostCents: 2, CreatedAt: now.AddDate(0, 0, -1)},
		{UserID: 2, QuestionText: "q1", ResponseCached: true, CostCents: 0, CreatedAt: now.AddDate(0, 0, -1)},
		{UserID: 1, QuestionText: "q2", ResponseCached: false, CostCents: 3, CreatedAt: now},
	}
	for i := range rows {
		if errCreate := conn.Create(&rows[i]).Error; errCreate != nil {
			t.Fatalf("seed row %d: %v", i, errCreate)
		}
	}

	days, errQuery := analytics.DailyRollups(ctx, now.AddDate(0, 0, -7))
	if errQuery != nil {
		t.Fatalf("daily rollups: %v", errQuery)
	}
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	yesterday := days[0]
	if yesterday.Questions != 2 || yesterday.CacheHits != 1 || yesterday.CostCents != 2 {
		t.Fatalf("unexpected yesterday rollup: %+v", yesterday)
	}
	today := days[1]
	if today.Questions != 1 || today.CacheHits != 0 || today.CostCents != 3 {
		t.Fatalf("unexpected today rollup: %+v", today)
	}
}

func TestAnalyticsWarmCandidatesFilters(t *testing.T) {
	conn := openTestDB(t)
	analytics := NewAnalyticsRecorder(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	users := []models.User{
		{Username: "member", Email: "member@example.com", Password: "x"},
		{Username: "admin", Email: "admin@example.com", Password: "x", IsAdmin: true},
	}
	for i := range users {
		if errCreate := conn.Create(&users[i]).Error; errCreate != nil {
			t.Fatalf("seed user %d: %v", i, errCreate)
		}
	}
	member, admin := users[0].ID, users[1].ID

	seed := func(userID uint64, question string, times int, at time.Time) {
		for i := 0; i < times; i++ {
			row := models.AnalyticsRecord{UserID: userID, QuestionText: question, CreatedAt: at}
			if errCreate := conn.Create(&row).Error; errCreate != nil {
				t.Fatalf("seed record: %v", errCreate)
			}
		}
	}

	seed(member, "what is the wing chun centerline", 3, now)   // candidate
	seed(member, "how do i practice chi sao at home", 5, now)   // candidate, more asks
	seed(member, "short q", 4, now)                             // too short
	seed(member, "Test question for the deploy runbook", 4, now) // test prefix
	seed(member, "DEBUG cache behaviour question", 4, now)      // debug prefix
	seed(member, "what is biu jee and when to use it", 2, now)  // below min asks
	seed(admin, "what does the admin keep asking about", 6, now) // admin only
	seed(member, "what was popular two months ago here", 6, now.AddDate(0, 0, -40)) // outside window

	got, errQuery := analytics.WarmCandidates(ctx, now.AddDate(0, 0, -30), 3, 20)
	if errQuery != nil {
		t.Fatalf("warm candidates: %v", errQuery)
	}
	want := []string{
		"how do i practice chi sao at home",
		"what is the wing chun centerline",
	}
	if len(got) != len(want) {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
