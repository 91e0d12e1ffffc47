// Package scraper fetches discussion posts from Reddit.
package scraper

import (
	"context"

	"panzoto-backend/models"
)

// Scraper fetches top stories from a discussion board.
type Scraper interface {
	FetchStories(ctx context.Context, subreddit string, limit int) ([]*models.Story, error)
}
