package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"panzoto-backend/service"
)

// StoryHandler handles scraped story requests
type StoryHandler struct {
	stories *service.StoryService
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(stories *service.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

// Fetch handles GET /api/stories/fetch
func (h *StoryHandler) Fetch(c *gin.Context) {
	subreddit := c.DefaultQuery("subreddit", "stories")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	stories, err := h.stories.Fetch(c.Request.Context(), subreddit, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"stories": stories,
		"count":   len(stories),
	})
}

// FetchAndSave handles POST /api/stories/save
func (h *StoryHandler) FetchAndSave(c *gin.Context) {
	subreddit := c.DefaultQuery("subreddit", "stories")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	fetched, saved, err := h.stories.FetchAndSave(c.Request.Context(), subreddit, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"fetched": fetched,
		"saved":   saved,
	})
}

// List handles GET /api/stories
func (h *StoryHandler) List(c *gin.Context) {
	stories, err := h.stories.List(c.Request.Context(), queryLimit(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"stories": stories,
		"count":   len(stories),
	})
}
