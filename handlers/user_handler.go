package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"panzoto-backend/models"
	"panzoto-backend/service"
)

// UserHandler handles notification preference requests
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetPreferences handles GET /api/users/preferences
func (h *UserHandler) GetPreferences(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	prefs, err := h.users.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, prefs)
}

type preferencesRequest struct {
	NotificationEnabled bool   `json:"notification_enabled"`
	NotificationEmail   string `json:"notification_email"`
	SummaryHour         int    `json:"summary_hour"`
	SummaryMinute       int    `json:"summary_minute"`
}

// UpdatePreferences handles PUT /api/users/preferences
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	prefs := &models.UserPreferences{
		UserID:              userID,
		NotificationEnabled: req.NotificationEnabled,
		NotificationEmail:   req.NotificationEmail,
		SummaryHour:         req.SummaryHour,
		SummaryMinute:       req.SummaryMinute,
	}
	if err := h.users.UpdatePreferences(c.Request.Context(), prefs); err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, prefs)
}
