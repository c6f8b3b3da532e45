package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rlondon3/jingwufoundationbackend/internal/sifu"
	log "github.com/sirupsen/logrus"
)

// UsageHandler serves the member's current quota standing.
type UsageHandler struct {
	service *sifu.Service
}

// NewUsageHandler constructs a UsageHandler.
func NewUsageHandler(service *sifu.Service) *UsageHandler {
	return &UsageHandler{service: service}
}

// Current returns the current period's usage summary.
func (h *UsageHandler) Current(c *gin.Context) {
	userID := memberID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	summary, errSummary := h.service.UsageSummary(c.Request.Context(), userID)
	if errSummary != nil {
		log.WithError(errSummary).Warn("usage: summary query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query usage failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
