// Package app wires the database, question-answering services, and HTTP
// surfaces into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/rlondon3/jingwufoundationbackend/internal/config"
	"github.com/rlondon3/jingwufoundationbackend/internal/db"
	"github.com/rlondon3/jingwufoundationbackend/internal/engine"
	relayhttp "github.com/rlondon3/jingwufoundationbackend/internal/http"
	"github.com/rlondon3/jingwufoundationbackend/internal/http/api/admin"
	"github.com/rlondon3/jingwufoundationbackend/internal/http/api/front"
	"github.com/rlondon3/jingwufoundationbackend/internal/identity"
	"github.com/rlondon3/jingwufoundationbackend/internal/settings"
	"github.com/rlondon3/jingwufoundationbackend/internal/sifu"
)

const shutdownGrace = 10 * time.Second

// Migrate opens the database and runs the schema migrations.
func Migrate(ctx context.Context, cfg *config.Config) error {
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// NewRouter builds the gin engine with all routes registered against the
// supplied dependencies. Split out of RunServer so tests can exercise the
// full HTTP surface without a listener.
func NewRouter(cfg *config.Config, conn *gorm.DB, service *sifu.Service, cache *sifu.ResponseCache, warmer *sifu.Warmer, analytics *sifu.AnalyticsRecorder) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(relayhttp.RequestID())
	r.Use(relayhttp.RequestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		// A zero timestamp means the settings snapshot was never loaded;
		// the process is then running on compiled defaults.
		if refreshed := settings.DBConfigUpdatedAt(); !refreshed.IsZero() {
			body["settings_refreshed_at"] = refreshed
		}
		c.JSON(http.StatusOK, body)
	})

	front.RegisterFrontRoutes(r, conn, cfg.JWT, service)
	admin.RegisterAdminRoutes(r, cfg.JWT, cache, warmer, analytics)
	return r
}

// RunServer boots the API server and blocks until ctx is cancelled.
func RunServer(ctx context.Context, cfg *config.Config) error {
	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errRefresh := settings.RefreshDBConfigSnapshot(ctx, conn); errRefresh != nil {
		log.WithError(errRefresh).Warn("initial settings load failed, using defaults")
	}
	settings.NewRefresher(conn, 0).Start(ctx)

	engineTimeout := time.Duration(cfg.Sifu.EngineTimeoutSeconds) * time.Second
	client, errClient := engine.NewClient(cfg.Sifu.EngineURL, engineTimeout)
	if errClient != nil {
		return fmt.Errorf("build engine client: %w", errClient)
	}
	answerEngine := sifu.NewRetryingEngine(client, engineTimeout, cfg.Sifu.EngineMaxRetries)

	cache := sifu.NewResponseCache(conn)
	accounts := sifu.NewAccountStore(conn)
	analytics := sifu.NewAnalyticsRecorder(conn)
	facts := identity.NewStore(conn)
	service := sifu.NewService(cache, accounts, analytics, facts, answerEngine)
	warmer := sifu.NewWarmer(cache, analytics, answerEngine)

	sweepInterval := time.Duration(cfg.Sifu.SweepIntervalMinutes) * time.Minute
	sifu.NewCacheSweeper(cache, sweepInterval).Start(ctx)

	router := NewRouter(cfg, conn, service, cache, warmer, analytics)
	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case errServe := <-serveErr:
		if errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			return errServe
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
		log.WithError(errShutdown).Warn("http server shutdown")
		return errShutdown
	}
	log.Info("http server stopped")
	return nil
}
