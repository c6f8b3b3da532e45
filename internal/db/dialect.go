package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Dialect identifiers supported by the database layer.
const (
	// DialectPostgres is the PostgreSQL dialect name.
	DialectPostgres = "postgres"
	// DialectSQLite is the SQLite dialect name.
	DialectSQLite = "sqlite"
)

// DialectName returns the active database dialect name.
func DialectName(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

// IsSQLite reports whether the connection uses SQLite.
func IsSQLite(conn *gorm.DB) bool {
	return DialectName(conn) == DialectSQLite
}

// DayBucketExpr returns a SQL expression that truncates a timestamp column to
// its calendar day as a "YYYY-MM-DD" string, for daily rollup grouping.
func DayBucketExpr(conn *gorm.DB, column string) string {
	if IsSQLite(conn) {
		return fmt.Sprintf("strftime('%%Y-%%m-%%d', %s)", column)
	}
	return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", column)
}

// TimestampTextExpr renders a timestamp expression as "YYYY-MM-DD HH:MM:SS"
// text. Aggregates like MAX(created_at) scan back as strings on SQLite and as
// timestamps on Postgres; forcing text on both sides keeps scan targets
// dialect-neutral.
func TimestampTextExpr(conn *gorm.DB, expr string) string {
	if IsSQLite(conn) {
		return fmt.Sprintf("strftime('%%Y-%%m-%%d %%H:%%M:%%S', %s)", expr)
	}
	return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD HH24:MI:SS')", expr)
}

// CaseInsensitiveNotLikeExpr returns a SQL expression for case-insensitive
// NOT LIKE against the given column.
func CaseInsensitiveNotLikeExpr(conn *gorm.DB, column string) string {
	if IsSQLite(conn) {
		return fmt.Sprintf("LOWER(%s) NOT LIKE ?", column)
	}
	return fmt.Sprintf("%s NOT ILIKE ?", column)
}

// NormalizeLikePattern normalizes a LIKE pattern for the current dialect.
func NormalizeLikePattern(conn *gorm.DB, pattern string) string {
	if IsSQLite(conn) {
		return strings.ToLower(pattern)
	}
	return pattern
}
