package identity

import (
	"context"
	"testing"
	"time"

	dbpkg "github.com/rlondon3/jingwufoundationbackend/internal/db"
	"github.com/rlondon3/jingwufoundationbackend/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := dbpkg.Open("file:identity_test?mode=memory&cache=shared")
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	sqlDB, _ := conn.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if errMigrate := dbpkg.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func TestStoreResolvesFacts(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)
	ctx := context.Background()
	future := time.Now().UTC().Add(24 * time.Hour)
	past := time.Now().UTC().Add(-24 * time.Hour)

	users := []models.User{
		{Username: "admin", Email: "admin@example.com", Password: "x", IsAdmin: true},
		{Username: "subscriber", Email: "sub@example.com", Password: "x", SubscriptionActive: true, SubscriptionExpiresAt: &future},
		{Username: "lapsed", Email: "lapsed@example.com", Password: "x", SubscriptionActive: true, SubscriptionExpiresAt: &past},
		{Username: "buyer", Email: "buyer@example.com", Password: "x"},
	}
	for i := range users {
		if errCreate := conn.Create(&users[i]).Error; errCreate != nil {
			t.Fatalf("seed user %d: %v", i, errCreate)
		}
	}
	admin, subscriber, lapsed, buyer := users[0].ID, users[1].ID, users[2].ID, users[3].ID

	purchases := []models.CoursePurchase{
		{UserID: buyer, CourseID: 3, Status: models.PurchaseStatusCompleted},
		{UserID: buyer, CourseID: 5, Status: models.PurchaseStatusCompleted},
		{UserID: buyer, CourseID: 9, Status: models.PurchaseStatusPending},
	}
	for i := range purchases {
		if errCreate := conn.Create(&purchases[i]).Error; errCreate != nil {
			t.Fatalf("seed purchase %d: %v", i, errCreate)
		}
	}

	if ok, errCheck := store.IsAdmin(ctx, admin); errCheck != nil || !ok {
		t.Fatalf("IsAdmin(admin) = %v, %v", ok, errCheck)
	}
	if ok, _ := store.IsAdmin(ctx, subscriber); ok {
		t.Fatal("subscriber flagged as admin")
	}

	if ok, errCheck := store.HasActiveSubscription(ctx, subscriber); errCheck != nil || !ok {
		t.Fatalf("HasActiveSubscription(subscriber) = %v, %v", ok, errCheck)
	}
	// Expiry in the past deactivates the subscription regardless of the flag.
	if ok, _ := store.HasActiveSubscription(ctx, lapsed); ok {
		t.Fatal("lapsed subscription treated as active")
	}

	if ok, errCheck := store.HasCompletedPurchase(ctx, buyer, 3); errCheck != nil || !ok {
		t.Fatalf("HasCompletedPurchase(buyer, 3) = %v, %v", ok, errCheck)
	}
	// Pending orders grant nothing.
	if ok, _ := store.HasCompletedPurchase(ctx, buyer, 9); ok {
		t.Fatal("pending purchase treated as completed")
	}

	courses, errList := store.CompletedPurchases(ctx, buyer)
	if errList != nil {
		t.Fatalf("CompletedPurchases: %v", errList)
	}
	if len(courses) != 2 || courses[0] != 3 || courses[1] != 5 {
		t.Fatalf("courses = %v, want [3 5]", courses)
	}
}

func TestStoreUnknownUser(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)

	if _, errCheck := store.IsAdmin(context.Background(), 9999); errCheck == nil {
		t.Fatal("expected an error for an unknown user")
	}
}
