package sifu

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// defaultSweepInterval paces the background expiry sweep.
const defaultSweepInterval = time.Hour

// CacheSweeper periodically deletes expired cache entries. Expiry is already
// advisory on the read path; the sweeper is what makes it authoritative.
type CacheSweeper struct {
	cache    *ResponseCache
	interval time.Duration
}

// NewCacheSweeper constructs a sweeper for the given cache. A non-positive
// interval selects the default.
func NewCacheSweeper(cache *ResponseCache, interval time.Duration) *CacheSweeper {
	if cache == nil {
		return nil
	}
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &CacheSweeper{cache: cache, interval: interval}
}

// Start launches the sweep loop in a background goroutine.
func (s *CacheSweeper) Start(ctx context.Context) {
	if s == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go s.run(ctx)
	log.Infof("cache sweeper started (interval=%s)", s.interval)
}

func (s *CacheSweeper) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		s.sweepOnce(ctx)
		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
		}
	}
}

func (s *CacheSweeper) sweepOnce(ctx context.Context) {
	removed, errSweep := s.cache.SweepExpired(ctx)
	if errSweep != nil {
		log.WithError(errSweep).Warn("cache sweeper: sweep failed")
		return
	}
	if removed > 0 {
		log.Infof("cache sweeper: removed %d expired entries", removed)
	}
}
