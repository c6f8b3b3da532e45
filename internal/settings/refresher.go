package settings

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// defaultRefreshInterval paces the background settings reload.
const defaultRefreshInterval = 3 * time.Minute

// Refresher periodically reloads the settings snapshot from the database so
// operational changes take effect without a restart.
type Refresher struct {
	db       *gorm.DB
	interval time.Duration
}

// NewRefresher constructs a refresher. A non-positive interval selects the
// default.
func NewRefresher(db *gorm.DB, interval time.Duration) *Refresher {
	if db == nil {
		return nil
	}
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &Refresher{db: db, interval: interval}
}

// Start launches the refresh loop in a background goroutine.
func (r *Refresher) Start(ctx context.Context) {
	if r == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go r.run(ctx)
	log.Infof("settings refresher started (interval=%s)", r.interval)
}

func (r *Refresher) run(ctx context.Context) {
	timer := time.NewTimer(r.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if errRefresh := RefreshDBConfigSnapshot(ctx, r.db); errRefresh != nil {
			log.WithError(errRefresh).Warn("settings refresher: reload failed")
		}
		timer.Reset(r.interval)
	}
}
