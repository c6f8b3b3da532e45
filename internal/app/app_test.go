package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rlondon3/jingwufoundationbackend/internal/config"
	dbpkg "github.com/rlondon3/jingwufoundationbackend/internal/db"
	"github.com/rlondon3/jingwufoundationbackend/internal/identity"
	"github.com/rlondon3/jingwufoundationbackend/internal/models"
	"github.com/rlondon3/jingwufoundationbackend/internal/settings"
	"github.com/rlondon3/jingwufoundationbackend/internal/sifu"
)

type noopEngine struct{}

func (noopEngine) Generate(context.Context, string) (*sifu.Answer, error) {
	return &sifu.Answer{ResponseText: "ok"}, nil
}

func TestNewRouterRegistersSurfaces(t *testing.T) {
	gin.SetMode(gin.TestMode)

	conn, errOpen := dbpkg.Open("file:app_test?mode=memory&cache=shared")
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	sqlDB, _ := conn.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if errMigrate := dbpkg.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{Secret: "s", AdminSecret: "a", ExpiryHours: 1}

	cache := sifu.NewResponseCache(conn)
	analytics := sifu.NewAnalyticsRecorder(conn)
	service := sifu.NewService(cache, sifu.NewAccountStore(conn), analytics, identity.NewStore(conn), noopEngine{})
	warmer := sifu.NewWarmer(cache, analytics, noopEngine{})

	router := NewRouter(cfg, conn, service, cache, warmer, analytics)

	// RefreshDBConfigSnapshot stamps the snapshot version that healthz reports.
	row := models.Setting{Key: settings.CacheTTLDaysKey, Value: json.RawMessage(`7`)}
	if errCreate := conn.Create(&row).Error; errCreate != nil {
		t.Fatalf("seed setting: %v", errCreate)
	}
	if errRefresh := settings.RefreshDBConfigSnapshot(context.Background(), conn); errRefresh != nil {
		t.Fatalf("refresh settings: %v", errRefresh)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", w.Code)
	}
	var health struct {
		Status              string `json:"status"`
		SettingsRefreshedAt string `json:"settings_refreshed_at"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &health); errDecode != nil {
		t.Fatalf("decode healthz: %v", errDecode)
	}
	if health.Status != "ok" {
		t.Fatalf("healthz status field = %q", health.Status)
	}
	if health.SettingsRefreshedAt == "" {
		t.Fatalf("healthz missing settings_refreshed_at: %s", w.Body.String())
	}

	// Authenticated surfaces are wired and enforce auth.
	for _, path := range []string{"/v1/sifu/usage", "/v1/admin/sifu/reports/hit-rate"} {
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", path, w.Code)
		}
	}
}
