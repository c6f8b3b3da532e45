package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rlondon3/jingwufoundationbackend/internal/sifu"
	log "github.com/sirupsen/logrus"
)

// MaintenanceHandler exposes cache sweep and warming triggers.
type MaintenanceHandler struct {
	cache  *sifu.ResponseCache
	warmer *sifu.Warmer
}

// NewMaintenanceHandler constructs a MaintenanceHandler.
func NewMaintenanceHandler(cache *sifu.ResponseCache, warmer *sifu.Warmer) *MaintenanceHandler {
	return &MaintenanceHandler{cache: cache, warmer: warmer}
}

// Sweep deletes expired cache entries and reports how many were removed.
func (h *MaintenanceHandler) Sweep(c *gin.Context) {
	removed, errSweep := h.cache.SweepExpired(c.Request.Context())
	if errSweep != nil {
		log.WithError(errSweep).Warn("admin: cache sweep failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// Warm runs the cache-warming batch and reports the outcome.
func (h *MaintenanceHandler) Warm(c *gin.Context) {
	report, errWarm := h.warmer.Run(c.Request.Context())
	if errWarm != nil {
		log.WithError(errWarm).Warn("admin: cache warming failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache warming failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}
