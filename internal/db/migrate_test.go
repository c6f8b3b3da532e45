package db

import (
	"strings"
	"testing"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	conn, errOpen := Open("file:migrate_test?mode=memory&cache=shared")
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	for _, table := range []string{
		"users",
		"course_purchases",
		"usage_accounts",
		"course_usages",
		"cache_entries",
		"analytics_records",
		"settings",
	} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}

	for table, column := range map[string]string{
		"usage_accounts":    "subscription_usage",
		"course_usages":     "count",
		"cache_entries":     "question_hash",
		"analytics_records": "response_cached",
	} {
		if !conn.Migrator().HasColumn(table, column) {
			t.Fatalf("%s missing column %s", table, column)
		}
	}
}

func TestDetectDialectFromDSN(t *testing.T) {
	cases := []struct {
		dsn  string
		want string
	}{
		{"postgres://user:pw@localhost/app", DialectPostgres},
		{"host=localhost user=app dbname=app", DialectPostgres},
		{"file:app.db", DialectSQLite},
		{"sqlite://app.db", DialectSQLite},
		{"app.db", DialectSQLite},
		{":memory:", DialectSQLite},
	}
	for _, tc := range cases {
		got, errDetect := detectDialectFromDSN(tc.dsn)
		if errDetect != nil {
			t.Fatalf("detect %q: %v", tc.dsn, errDetect)
		}
		if got != tc.want {
			t.Fatalf("detect %q = %s, want %s", tc.dsn, got, tc.want)
		}
	}
}

func TestEnsureSQLiteParams(t *testing.T) {
	got := ensureSQLiteParams("file:app.db")
	for _, param := range []string{"_busy_timeout=5000", "_journal_mode=WAL", "_foreign_keys=on"} {
		if !strings.Contains(got, param) {
			t.Fatalf("missing %s in %q", param, got)
		}
	}

	// Existing parameters are not duplicated.
	got = ensureSQLiteParams("file:app.db?_journal_mode=DELETE")
	if strings.Count(got, "_journal_mode") != 1 {
		t.Fatalf("journal mode duplicated: %q", got)
	}
}

func TestDialectExpressionsSQLite(t *testing.T) {
	conn, errOpen := Open("file:dialect_test?mode=memory&cache=shared")
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if !IsSQLite(conn) {
		t.Fatal("expected sqlite dialect")
	}
	if got := DayBucketExpr(conn, "created_at"); !strings.Contains(got, "strftime") {
		t.Fatalf("unexpected day bucket expr: %s", got)
	}
	if got := CaseInsensitiveNotLikeExpr(conn, "question_text"); !strings.Contains(got, "LOWER(") {
		t.Fatalf("unexpected not-like expr: %s", got)
	}
	if got := NormalizeLikePattern(conn, "Test%"); got != "test%" {
		t.Fatalf("pattern = %q, want lowercased", got)
	}
}
