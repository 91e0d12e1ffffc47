package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panzoto-backend/models"
)

type stubScraper struct {
	stories []*models.Story
	err     error
}

func (s *stubScraper) FetchStories(_ context.Context, _ string, limit int) ([]*models.Story, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.stories) {
		return s.stories[:limit], nil
	}
	return s.stories, nil
}

func TestStoryService_FetchAndSave(t *testing.T) {
	ctx := context.Background()
	sc := &stubScraper{stories: []*models.Story{
		{Title: "First", URL: "https://reddit.com/1", Score: 10},
		{Title: "Second", URL: "https://reddit.com/2", Score: 5},
	}}
	store := newMemStoryStore()
	svc := NewStoryService(sc, store, testLogger())

	fetched, saved, err := svc.FetchAndSave(ctx, "stories", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched)
	assert.Equal(t, 2, saved)

	// same URLs again: nothing new
	fetched, saved, err = svc.FetchAndSave(ctx, "stories", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched)
	assert.Zero(t, saved)

	listed, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestStoryService_FetchValidation(t *testing.T) {
	svc := NewStoryService(&stubScraper{}, newMemStoryStore(), testLogger())

	_, err := svc.Fetch(context.Background(), "bad name!", 10)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Fetch(context.Background(), "", 10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStoryService_UpstreamFailure(t *testing.T) {
	svc := NewStoryService(&stubScraper{err: errors.New("rate limited")}, newMemStoryStore(), testLogger())

	_, err := svc.Fetch(context.Background(), "stories", 10)
	assert.ErrorIs(t, err, ErrUpstream)
}
