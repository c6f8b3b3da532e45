package sifu

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rlondon3/jingwufoundationbackend/internal/settings"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// warmWindowDays bounds how far back the warmer looks for candidates.
const warmWindowDays = 30

// Warmer pre-populates the response cache for frequently asked questions
// ahead of expected demand, with an extended TTL.
type Warmer struct {
	cache     *ResponseCache
	analytics *AnalyticsRecorder
	engine    AnswerEngine
}

// NewWarmer constructs a Warmer. The engine should carry its retry budget.
func NewWarmer(cache *ResponseCache, analytics *AnalyticsRecorder, engine AnswerEngine) *Warmer {
	return &Warmer{cache: cache, analytics: analytics, engine: engine}
}

// WarmReport summarizes one warming run.
type WarmReport struct {
	Candidates int `json:"candidates"`
	Warmed     int `json:"warmed"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// Run selects warming candidates from the question log and writes an answer
// for each through the regular cache upsert, just with the extended TTL.
// Candidates already live in the cache are skipped without touching the
// engine.
func (w *Warmer) Run(ctx context.Context) (*WarmReport, error) {
	if w == nil || w.cache == nil || w.analytics == nil || w.engine == nil {
		return nil, errors.New("sifu: warmer not wired")
	}

	minAsks := settings.IntValue(settings.WarmMinAsksKey, settings.DefaultWarmMinAsks)
	topN := settings.IntValue(settings.WarmTopNKey, settings.DefaultWarmTopN)
	ttlDays := WarmTTLDays()
	since := time.Now().UTC().AddDate(0, 0, -warmWindowDays)

	candidates, errCandidates := w.analytics.WarmCandidates(ctx, since, minAsks, topN)
	if errCandidates != nil {
		return nil, errCandidates
	}

	report := &WarmReport{Candidates: len(candidates)}
	for _, question := range candidates {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		cached, errContains := w.cache.Contains(ctx, question)
		if errContains != nil {
			log.WithError(errContains).Warn("cache warmer: lookup failed, skipping candidate")
			report.Failed++
			continue
		}
		if cached {
			report.Skipped++
			continue
		}

		answer, errGenerate := w.engine.Generate(ctx, question)
		if errGenerate != nil {
			log.WithError(errGenerate).Warnf("cache warmer: generation failed for %q", question)
			report.Failed++
			continue
		}
		payload, errEncode := json.Marshal(answer)
		if errEncode != nil {
			report.Failed++
			continue
		}
		if _, errPut := w.cache.Put(ctx, question, datatypes.JSON(payload), ttlDays); errPut != nil {
			log.WithError(errPut).Warn("cache warmer: cache write failed")
			report.Failed++
			continue
		}
		report.Warmed++
	}

	log.Infof("cache warmer: candidates=%d warmed=%d skipped=%d failed=%d", report.Candidates, report.Warmed, report.Skipped, report.Failed)
	return report, nil
}
