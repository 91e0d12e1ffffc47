package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"panzoto-backend/service"
)

const defaultListLimit = 50

// TranscriptHandler handles transcript requests
type TranscriptHandler struct {
	transcription *service.TranscriptionService
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(transcription *service.TranscriptionService) *TranscriptHandler {
	return &TranscriptHandler{transcription: transcription}
}

// List handles GET /api/transcripts
func (h *TranscriptHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	transcripts, err := h.transcription.ListTranscripts(
		c.Request.Context(), userID,
		c.Query("start_date"), c.Query("end_date"), queryLimit(c),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"transcripts": transcripts,
		"count":       len(transcripts),
	})
}

// queryLimit parses the optional limit query parameter
func queryLimit(c *gin.Context) int64 {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", ""), 10, 64)
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	return limit
}
