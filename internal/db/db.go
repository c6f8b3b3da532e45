package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const pingTimeout = 5 * time.Second

// gormLogger routes gorm warnings through the application logger so slow
// queries and errors land in the same stream as everything else.
func gormLogger() logger.Interface {
	return logger.New(log.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Open connects to the database named by dsn. Postgres and SQLite DSNs are
// accepted; sessions are pinned to UTC because monthly quota periods are
// computed against UTC month boundaries.
func Open(dsn string) (*gorm.DB, error) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return nil, fmt.Errorf("db: empty dsn")
	}

	dialect, err := detectDialectFromDSN(trimmed)
	if err != nil {
		return nil, err
	}
	if dialect == DialectPostgres {
		return openPostgres(trimmed)
	}
	return openSQLite(trimmed)
}

// detectDialectFromDSN infers the dialect from a DSN string.
func detectDialectFromDSN(dsn string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://"):
		return DialectPostgres, nil
	case strings.Contains(lower, "host=") || strings.Contains(lower, "user=") || strings.Contains(lower, "dbname=") || strings.Contains(lower, "sslmode="):
		return DialectPostgres, nil
	case strings.HasPrefix(lower, "file:"),
		strings.HasPrefix(lower, "sqlite://"),
		strings.HasPrefix(lower, "sqlite3://"),
		!strings.Contains(lower, "://"):
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("db: unsupported dsn: %s", dsn)
	}
}

func openPostgres(dsn string) (*gorm.DB, error) {
	pgCfg, errParse := pgx.ParseConfig(dsn)
	if errParse != nil {
		return nil, fmt.Errorf("db: parse dsn: %w", errParse)
	}
	// Server-side timestamps must agree with PeriodStart's UTC math.
	pgCfg.RuntimeParams["timezone"] = "UTC"
	sqlDB := stdlib.OpenDB(*pgCfg)

	conn, errOpen := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: gormLogger()})
	if errOpen != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db: open: %w", errOpen)
	}
	tunePool(sqlDB, 25)

	if errPing := ping(sqlDB); errPing != nil {
		_ = sqlDB.Close()
		return nil, errPing
	}
	return conn, nil
}

func openSQLite(dsn string) (*gorm.DB, error) {
	normalized := ensureSQLiteParams(sqliteFileDSN(dsn))
	if path := sqlitePathFromDSN(normalized); path != "" {
		if errMkdir := os.MkdirAll(filepath.Dir(path), 0755); errMkdir != nil {
			return nil, fmt.Errorf("db: create sqlite dir: %w", errMkdir)
		}
	}

	conn, errOpen := gorm.Open(sqlite.Open(normalized), &gorm.Config{Logger: gormLogger()})
	if errOpen != nil {
		return nil, fmt.Errorf("db: open sqlite: %w", errOpen)
	}
	sqlDB, errDB := conn.DB()
	if errDB != nil {
		return nil, fmt.Errorf("db: open sqlite sql: %w", errDB)
	}
	tunePool(sqlDB, 10)

	if errPragma := applySQLitePragmas(sqlDB); errPragma != nil {
		_ = sqlDB.Close()
		return nil, errPragma
	}
	if errPing := ping(sqlDB); errPing != nil {
		_ = sqlDB.Close()
		return nil, errPing
	}
	return conn, nil
}

func tunePool(sqlDB *sql.DB, conns int) {
	sqlDB.SetMaxOpenConns(conns)
	sqlDB.SetMaxIdleConns(conns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
}

func ping(sqlDB *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if errPing := sqlDB.PingContext(ctx); errPing != nil {
		return fmt.Errorf("db: ping: %w", errPing)
	}
	return nil
}

// sqliteFileDSN converts sqlite:// and sqlite3:// URLs to file: DSNs, which
// is the form the driver accepts.
func sqliteFileDSN(dsn string) string {
	trimmed := strings.TrimSpace(dsn)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "sqlite3://") || strings.HasPrefix(lower, "sqlite://") {
		if parts := strings.SplitN(trimmed, "://", 2); len(parts) == 2 {
			return "file:" + parts[1]
		}
	}
	return trimmed
}

// sqliteDefaultParams are appended to DSNs that do not already set them. The
// list is ordered so DSN construction stays deterministic.
var sqliteDefaultParams = [][2]string{
	{"_busy_timeout", "5000"},
	{"_journal_mode", "WAL"},
	{"_foreign_keys", "on"},
	{"_synchronous", "NORMAL"},
}

// ensureSQLiteParams adds default SQLite query parameters when missing.
func ensureSQLiteParams(dsn string) string {
	if strings.TrimSpace(dsn) == "" {
		return dsn
	}

	existing := map[string]struct{}{}
	if idx := strings.Index(dsn, "?"); idx >= 0 {
		for _, part := range strings.Split(strings.ToLower(dsn[idx+1:]), "&") {
			if part == "" {
				continue
			}
			existing[strings.SplitN(part, "=", 2)[0]] = struct{}{}
		}
	}

	var add []string
	for _, param := range sqliteDefaultParams {
		if _, ok := existing[param[0]]; !ok {
			add = append(add, param[0]+"="+param[1])
		}
	}
	if len(add) == 0 {
		return dsn
	}
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + strings.Join(add, "&")
}

// sqlitePathFromDSN extracts the on-disk file path from a SQLite DSN, or ""
// for in-memory databases.
func sqlitePathFromDSN(dsn string) string {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "file:") {
		pathPart := trimmed[len("file:"):]
		if idx := strings.Index(pathPart, "?"); idx >= 0 {
			pathPart = pathPart[:idx]
		}
		pathPart = strings.TrimPrefix(pathPart, "//")
		if pathPart == "" || pathPart == ":memory:" || strings.Contains(lower, "mode=memory") {
			return ""
		}
		return pathPart
	}
	if strings.Contains(lower, "://") || trimmed == ":memory:" {
		return ""
	}
	return trimmed
}

func applySQLitePragmas(sqlDB *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := sqlDB.Exec(pragma); err != nil {
			return fmt.Errorf("db: sqlite pragma %s: %w", pragma, err)
		}
	}
	return nil
}
