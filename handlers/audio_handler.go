package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"panzoto-backend/service"
)

// AudioHandler handles encrypted audio upload and record requests
type AudioHandler struct {
	audio         *service.AudioService
	transcription *service.TranscriptionService
	maxUploadSize int64
	logger        *slog.Logger
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(audio *service.AudioService, transcription *service.TranscriptionService, maxUploadSize int64, logger *slog.Logger) *AudioHandler {
	return &AudioHandler{
		audio:         audio,
		transcription: transcription,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Upload handles POST /api/audio
func (h *AudioHandler) Upload(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}

	if fileHeader.Size > h.maxUploadSize {
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
			fmt.Sprintf("File exceeds maximum size of %d bytes", h.maxUploadSize))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_FILE", "Failed to read uploaded file")
		return
	}
	defer src.Close()

	file, job, err := h.audio.Upload(c.Request.Context(), userID, fileHeader.Filename, fileHeader.Size, src)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Process in the background; the client polls the job
	go func() {
		bgCtx := context.Background()
		if err := h.transcription.ProcessJob(bgCtx, job.ID); err != nil {
			h.logger.Error("background processing error", "job_id", job.ID, "error", err)
		}
	}()

	// Accepted, not created: the transcript still has to be produced
	respondData(c, http.StatusAccepted, gin.H{
		"audio_file": file,
		"job":        job,
	})
}

// List handles GET /api/audio
func (h *AudioHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	files, err := h.audio.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"audio_files": files,
		"count":       len(files),
	})
}

// Get handles GET /api/audio/:id
func (h *AudioHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, err := h.audio.Get(c.Request.Context(), userID, fileID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, file)
}

// Delete handles DELETE /api/audio/:id
func (h *AudioHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	fileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.audio.Delete(c.Request.Context(), userID, fileID); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": fileID})
}
