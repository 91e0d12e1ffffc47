package service

import (
	"context"
	"time"

	"panzoto-backend/models"

	"github.com/google/uuid"
)

// Store interfaces consumed by the services. The repository package provides
// the production implementations; tests substitute stubs.

// UserStore persists accounts and preferences
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error)
	UpdatePreferences(ctx context.Context, prefs *models.UserPreferences) error
	ListNotifiable(ctx context.Context) ([]*models.UserPreferences, error)
}

// AudioFileStore persists audio file records
type AudioFileStore interface {
	Create(ctx context.Context, file *models.AudioFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AudioFile, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.AudioFile, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// JobStore persists processing jobs
type JobStore interface {
	Create(ctx context.Context, job *models.ProcessingJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProcessingJob, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.ProcessingJob, error)
	ListPending(ctx context.Context, maxRetries int, backoff time.Duration, limit int) ([]*models.ProcessingJob, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error)
	Complete(ctx context.Context, id uuid.UUID) error
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) error
	Retry(ctx context.Context, id uuid.UUID, errorMessage string) error
	Requeue(ctx context.Context, id uuid.UUID) error
}

// TranscriptStore persists transcript documents
type TranscriptStore interface {
	Insert(ctx context.Context, transcript *models.Transcript) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]*models.Transcript, error)
	ListByUserBetween(ctx context.Context, userID string, start, end time.Time) ([]*models.Transcript, error)
}

// SummaryStore persists daily summary documents
type SummaryStore interface {
	Upsert(ctx context.Context, summary *models.DailySummary) error
	GetByDate(ctx context.Context, userID, date string) (*models.DailySummary, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]*models.DailySummary, error)
}

// StoryStore persists scraped stories
type StoryStore interface {
	SaveAll(ctx context.Context, stories []*models.Story) (int, error)
	List(ctx context.Context, limit int64) ([]*models.Story, error)
}

// Classifier buckets transcript text into the three summary lists
type Classifier interface {
	Classify(ctx context.Context, text string) (*models.SummaryContent, error)
}
