package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"panzoto-backend/models"
)

// RSSScraper fetches posts from a subreddit's public RSS feed. It needs no
// API credentials, so it serves as the fallback when none are configured.
// Score and comment counts are not present in the feed.
type RSSScraper struct {
	parser    *gofeed.Parser
	userAgent string
}

// NewRSSScraper creates an RSS-based scraper
func NewRSSScraper(userAgent string) *RSSScraper {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &RSSScraper{parser: parser, userAgent: userAgent}
}

// FetchStories retrieves up to limit posts from the subreddit feed
func (s *RSSScraper) FetchStories(ctx context.Context, subreddit string, limit int) ([]*models.Story, error) {
	feedURL := fmt.Sprintf("https://www.reddit.com/r/%s/top/.rss", url.PathEscape(subreddit))

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch subreddit feed: %w", err)
	}

	now := time.Now().UTC()

	var stories []*models.Story
	for _, item := range feed.Items {
		if limit > 0 && len(stories) >= limit {
			break
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}
		if cleaned, err := htmlToText(content); err == nil {
			content = cleaned
		}
		content = strings.TrimSpace(content)

		stories = append(stories, &models.Story{
			Title:     item.Title,
			Content:   content,
			URL:       item.Link,
			Source:    "reddit",
			FetchedAt: now,
		})
	}

	return stories, nil
}
