package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"panzoto-backend/models"
	"panzoto-backend/scraper"
)

const (
	defaultStoryLimit = 25
	maxStoryLimit     = 100
)

var subredditPattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,21}$`)

// StoryService fetches discussion posts and archives them
type StoryService struct {
	scraper scraper.Scraper
	stories StoryStore
	logger  *slog.Logger
}

// NewStoryService creates a new story service
func NewStoryService(sc scraper.Scraper, stories StoryStore, logger *slog.Logger) *StoryService {
	return &StoryService{scraper: sc, stories: stories, logger: logger}
}

// Fetch retrieves the current top stories for a subreddit
func (s *StoryService) Fetch(ctx context.Context, subreddit string, limit int) ([]*models.Story, error) {
	if !subredditPattern.MatchString(subreddit) {
		return nil, fmt.Errorf("%w: invalid subreddit name", ErrValidation)
	}
	if limit <= 0 {
		limit = defaultStoryLimit
	}
	if limit > maxStoryLimit {
		limit = maxStoryLimit
	}

	stories, err := s.scraper.FetchStories(ctx, subreddit, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return stories, nil
}

// FetchAndSave fetches the current top stories and archives them, returning
// how many were fetched and how many were new.
func (s *StoryService) FetchAndSave(ctx context.Context, subreddit string, limit int) (fetched, saved int, err error) {
	stories, err := s.Fetch(ctx, subreddit, limit)
	if err != nil {
		return 0, 0, err
	}
	if len(stories) == 0 {
		return 0, 0, nil
	}

	saved, err = s.stories.SaveAll(ctx, stories)
	if err != nil {
		return len(stories), 0, err
	}

	s.logger.Info("stories archived",
		"subreddit", subreddit, "fetched", len(stories), "new", saved)
	return len(stories), saved, nil
}

// List retrieves archived stories, highest scored first
func (s *StoryService) List(ctx context.Context, limit int64) ([]*models.Story, error) {
	if limit <= 0 {
		limit = defaultStoryLimit
	}
	if limit > maxStoryLimit {
		limit = maxStoryLimit
	}
	return s.stories.List(ctx, limit)
}
