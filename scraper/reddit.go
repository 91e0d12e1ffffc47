package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"panzoto-backend/models"
)

const (
	tokenURL   = "https://www.reddit.com/api/v1/access_token"
	listingURL = "https://oauth.reddit.com/r/%s/top"
)

// RedditScraper fetches top posts through the Reddit OAuth API using
// client-credentials. Access tokens are cached until shortly before expiry.
type RedditScraper struct {
	clientID     string
	clientSecret string
	userAgent    string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewRedditScraper creates a Reddit API scraper
func NewRedditScraper(clientID, clientSecret, userAgent string) *RedditScraper {
	return &RedditScraper{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title        string `json:"title"`
				Selftext     string `json:"selftext"`
				SelftextHTML string `json:"selftext_html"`
				URL          string `json:"url"`
				Score        int    `json:"score"`
				NumComments  int    `json:"num_comments"`
				Stickied     bool   `json:"stickied"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchStories retrieves up to limit top posts from the subreddit, skipping
// stickied posts.
func (s *RedditScraper) FetchStories(ctx context.Context, subreddit string, limit int) ([]*models.Story, error) {
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf(listingURL, url.PathEscape(subreddit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("t", "day")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit listing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit API error: %d", resp.StatusCode)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode reddit listing: %w", err)
	}

	return storiesFromListing(&listing), nil
}

func storiesFromListing(listing *listingResponse) []*models.Story {
	now := time.Now().UTC()

	var stories []*models.Story
	for _, child := range listing.Data.Children {
		post := child.Data
		if post.Stickied {
			continue
		}

		content := post.Selftext
		if post.SelftextHTML != "" {
			if cleaned, err := htmlToText(post.SelftextHTML); err == nil {
				content = cleaned
			}
		}

		stories = append(stories, &models.Story{
			Title:     post.Title,
			Content:   content,
			URL:       post.URL,
			Score:     post.Score,
			Comments:  post.NumComments,
			Source:    "reddit",
			FetchedAt: now,
		})
	}

	return stories
}

// htmlToText strips markup from a post body. Reddit double-escapes
// selftext_html, so it is unescaped before parsing.
func htmlToText(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html.UnescapeString(rawHTML)))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(doc.Text()), nil
}

// token returns a cached client-credentials access token, refreshing it when
// less than a minute of validity remains.
func (s *RedditScraper) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Until(s.tokenExpiry) > time.Minute {
		return s.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reddit token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reddit token error: %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	s.accessToken = tokenResp.AccessToken
	s.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return s.accessToken, nil
}
