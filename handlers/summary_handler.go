package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"panzoto-backend/service"
)

// SummaryHandler handles daily summary requests
type SummaryHandler struct {
	summaries *service.SummaryService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaries *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries}
}

type generateSummaryRequest struct {
	Date string `json:"date" binding:"required"`
}

// Generate handles POST /api/summaries/daily
func (h *SummaryHandler) Generate(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req generateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date is required")
		return
	}

	summary, err := h.summaries.GenerateDaily(c.Request.Context(), userID, req.Date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusCreated, summary)
}

// Get handles GET /api/summaries/:date
func (h *SummaryHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	summary, err := h.summaries.GetDaily(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, summary)
}

// List handles GET /api/summaries
func (h *SummaryHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	summaries, err := h.summaries.ListSummaries(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"summaries": summaries,
		"count":     len(summaries),
	})
}

// Send handles POST /api/summaries/:date/send
func (h *SummaryHandler) Send(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	date := c.Param("date")
	if err := h.summaries.SendDaily(c.Request.Context(), userID, date); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"sent": date})
}
