package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rlondon3/jingwufoundationbackend/internal/sifu"
	log "github.com/sirupsen/logrus"
)

// maxQuestionLength caps the accepted question size.
const maxQuestionLength = 2000

// AskHandler handles AI Sifu question submission.
type AskHandler struct {
	service *sifu.Service
}

// NewAskHandler constructs an AskHandler.
func NewAskHandler(service *sifu.Service) *AskHandler {
	return &AskHandler{service: service}
}

// askRequest is the question submission payload.
type askRequest struct {
	QuestionText string  `json:"question_text"`
	CourseID     *uint64 `json:"course_id"`
}

// askResponse is the successful answer payload.
type askResponse struct {
	ResponseText        string   `json:"response_text"`
	TermsUsed           []string `json:"terms_used"`
	SectionsReferenced  []string `json:"sections_referenced"`
	ClassicalReferences []string `json:"classical_references"`
	Cached              bool     `json:"cached"`
	ResponseTimeMs      int64    `json:"response_time_ms"`
	CostCents           int64    `json:"cost_cents"`
}

// quotaDeniedResponse is the 403 payload for refused asks.
type quotaDeniedResponse struct {
	Reason   string  `json:"reason"`
	Limit    *int64  `json:"limit,omitempty"`
	Used     *int64  `json:"used,omitempty"`
	CourseID *uint64 `json:"course_id,omitempty"`
	Message  string  `json:"message"`
}

// Ask answers a member's question, enforcing the monthly quota.
func (h *AskHandler) Ask(c *gin.Context) {
	userID := memberID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req askRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.QuestionText = strings.TrimSpace(req.QuestionText)
	if req.QuestionText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question_text is required"})
		return
	}
	if len(req.QuestionText) > maxQuestionLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question_text too long"})
		return
	}
	if req.CourseID != nil && *req.CourseID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	result, errAsk := h.service.Ask(c.Request.Context(), userID, req.QuestionText, req.CourseID)
	if errAsk != nil {
		h.writeAskError(c, errAsk)
		return
	}

	c.JSON(http.StatusOK, askResponse{
		ResponseText:        result.Answer.ResponseText,
		TermsUsed:           emptyIfNil(result.Answer.TermsUsed),
		SectionsReferenced:  emptyIfNil(result.Answer.SectionsReferenced),
		ClassicalReferences: emptyIfNil(result.Answer.ClassicalReferences),
		Cached:              result.Cached,
		ResponseTimeMs:      result.ResponseTimeMs,
		CostCents:           result.CostCents,
	})
}

// writeAskError maps service errors onto the API's status codes.
func (h *AskHandler) writeAskError(c *gin.Context, errAsk error) {
	var denied *sifu.QuotaDeniedError
	if errors.As(errAsk, &denied) {
		resp := quotaDeniedResponse{
			Reason:   denied.Reason,
			CourseID: denied.CourseID,
			Message:  denied.Message(),
		}
		if denied.Reason != sifu.ReasonNoAccess {
			limit := denied.Limit
			used := denied.Used
			resp.Limit = &limit
			resp.Used = &used
		}
		c.JSON(http.StatusForbidden, resp)
		return
	}

	var generation *sifu.GenerationError
	if errors.As(errAsk, &generation) {
		log.WithError(generation).Warn("ask: answer generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "answer generation failed"})
		return
	}

	var accounting *sifu.AccountingError
	if errors.As(errAsk, &accounting) {
		log.WithError(accounting).Error("ask: usage accounting failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "usage accounting failed"})
		return
	}

	log.WithError(errAsk).Error("ask: unexpected failure")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
