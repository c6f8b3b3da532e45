package sifu

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"

	dbpkg "github.com/rlondon3/jingwufoundationbackend/internal/db"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

// openTestDB opens a fresh in-memory database with the schema migrated.
// A single connection keeps concurrent statements serialized the way the
// sqlite driver expects.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:sifu_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, errOpen := dbpkg.Open(dsn)
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	sqlDB, errDB := conn.DB()
	if errDB != nil {
		t.Fatalf("unwrap db: %v", errDB)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if errMigrate := dbpkg.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate db: %v", errMigrate)
	}
	return conn
}

// stubEngine returns canned answers and counts invocations.
type stubEngine struct {
	calls  atomic.Int64
	err    error
	answer *Answer
}

func (e *stubEngine) Generate(_ context.Context, questionText string) (*Answer, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	if e.answer != nil {
		return e.answer, nil
	}
	return &Answer{
		ResponseText:        "answer to: " + questionText,
		TermsUsed:           []string{"wing chun"},
		SectionsReferenced:  []string{"forms"},
		ClassicalReferences: []string{},
	}, nil
}

// stubFacts answers entitlement questions from fixed fields.
type stubFacts struct {
	admin      bool
	subscribed bool
	purchases  map[uint64]bool
}

func (f *stubFacts) IsAdmin(context.Context, uint64) (bool, error) {
	return f.admin, nil
}

func (f *stubFacts) HasActiveSubscription(context.Context, uint64) (bool, error) {
	return f.subscribed, nil
}

func (f *stubFacts) HasCompletedPurchase(_ context.Context, _ uint64, courseID uint64) (bool, error) {
	return f.purchases[courseID], nil
}

func (f *stubFacts) CompletedPurchases(context.Context, uint64) ([]uint64, error) {
	ids := make([]uint64, 0, len(f.purchases))
	for id, ok := range f.purchases {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
