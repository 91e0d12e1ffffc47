package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"panzoto-backend/service"
)

// JobHandler handles processing job requests
type JobHandler struct {
	audio         *service.AudioService
	transcription *service.TranscriptionService
}

// NewJobHandler creates a new job handler
func NewJobHandler(audio *service.AudioService, transcription *service.TranscriptionService) *JobHandler {
	return &JobHandler{audio: audio, transcription: transcription}
}

// List handles GET /api/jobs
func (h *JobHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	jobs, err := h.audio.ListJobs(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// Get handles GET /api/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	job, err := h.transcription.GetJob(c.Request.Context(), userID, jobID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, job)
}

// Requeue handles POST /api/jobs/:id/requeue
func (h *JobHandler) Requeue(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	job, err := h.transcription.RequeueJob(c.Request.Context(), userID, jobID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, job)
}
