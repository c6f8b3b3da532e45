package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rlondon3/jingwufoundationbackend/internal/sifu"
	log "github.com/sirupsen/logrus"
)

// defaultReportWindowDays bounds report queries when no window is given.
const defaultReportWindowDays = 30

// ReportsHandler serves the read-side analytics aggregations.
type ReportsHandler struct {
	analytics *sifu.AnalyticsRecorder
}

// NewReportsHandler constructs a ReportsHandler.
func NewReportsHandler(analytics *sifu.AnalyticsRecorder) *ReportsHandler {
	return &ReportsHandler{analytics: analytics}
}

// Popular lists the most-asked questions in the window.
func (h *ReportsHandler) Popular(c *gin.Context) {
	since := sinceParam(c)
	minAsks := intParam(c, "min_asks", 2)
	limit := intParam(c, "limit", 50)

	rows, errQuery := h.analytics.PopularQuestions(c.Request.Context(), since, minAsks, limit)
	if errQuery != nil {
		log.WithError(errQuery).Warn("admin: popular questions query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": rows})
}

// Daily returns per-day volume, hits, and cost in the window.
func (h *ReportsHandler) Daily(c *gin.Context) {
	rows, errQuery := h.analytics.DailyRollups(c.Request.Context(), sinceParam(c))
	if errQuery != nil {
		log.WithError(errQuery).Warn("admin: daily rollup query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": rows})
}

// HitRate returns cache hit-rate statistics for the window.
func (h *ReportsHandler) HitRate(c *gin.Context) {
	stats, errQuery := h.analytics.HitRate(c.Request.Context(), sinceParam(c))
	if errQuery != nil {
		log.WithError(errQuery).Warn("admin: hit rate query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// sinceParam resolves the report window start from a "days" query parameter.
func sinceParam(c *gin.Context) time.Time {
	days := intParam(c, "days", defaultReportWindowDays)
	if days <= 0 {
		days = defaultReportWindowDays
	}
	return time.Now().UTC().AddDate(0, 0, -days)
}

func intParam(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	parsed, errParse := strconv.Atoi(raw)
	if errParse != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
