// Package handlers exposes the services over HTTP.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"panzoto-backend/auth"
	"panzoto-backend/service"
)

// respondError writes the standard error envelope
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondData writes the standard success envelope
func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondServiceError maps the service error taxonomy onto HTTP status codes
// and envelope codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrAuth):
		respondError(c, http.StatusUnauthorized, "AUTH_ERROR", err.Error())
	case errors.Is(err, service.ErrValidation):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrAlreadyExists):
		respondError(c, http.StatusConflict, "ALREADY_EXISTS", err.Error())
	case errors.Is(err, service.ErrDecryption):
		respondError(c, http.StatusUnprocessableEntity, "DECRYPTION_ERROR", err.Error())
	case errors.Is(err, service.ErrConversion):
		respondError(c, http.StatusUnprocessableEntity, "CONVERSION_ERROR", err.Error())
	case errors.Is(err, service.ErrTranscription):
		respondError(c, http.StatusBadGateway, "TRANSCRIPTION_ERROR", err.Error())
	case errors.Is(err, service.ErrFormat):
		respondError(c, http.StatusBadGateway, "FORMAT_ERROR", err.Error())
	case errors.Is(err, service.ErrUpstream):
		respondError(c, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// callerID parses the authenticated user id out of the request context
func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(auth.UserID(c))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "AUTH_ERROR", "Invalid authentication context")
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses a uuid path parameter
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
