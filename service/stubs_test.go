package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"panzoto-backend/models"
	"panzoto-backend/repository"
	"panzoto-backend/storage"
	"panzoto-backend/transcribe"
)

// In-memory store implementations backing the service tests.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memUserStore struct {
	users map[uuid.UUID]*models.User
	prefs map[uuid.UUID]*models.UserPreferences
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		users: make(map[uuid.UUID]*models.User),
		prefs: make(map[uuid.UUID]*models.UserPreferences),
	}
}

func (s *memUserStore) Create(_ context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	s.prefs[user.ID] = &models.UserPreferences{
		UserID:            user.ID,
		NotificationEmail: user.Email,
	}
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *memUserStore) GetPreferences(_ context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	prefs, ok := s.prefs[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return prefs, nil
}

func (s *memUserStore) UpdatePreferences(_ context.Context, prefs *models.UserPreferences) error {
	s.prefs[prefs.UserID] = prefs
	return nil
}

func (s *memUserStore) ListNotifiable(_ context.Context) ([]*models.UserPreferences, error) {
	var out []*models.UserPreferences
	for _, p := range s.prefs {
		if p.NotificationEnabled {
			out = append(out, p)
		}
	}
	return out, nil
}

type memAudioStore struct {
	files map[uuid.UUID]*models.AudioFile
}

func newMemAudioStore() *memAudioStore {
	return &memAudioStore{files: make(map[uuid.UUID]*models.AudioFile)}
}

func (s *memAudioStore) Create(_ context.Context, file *models.AudioFile) error {
	file.UploadedAt = time.Now()
	s.files[file.ID] = file
	return nil
}

func (s *memAudioStore) GetByID(_ context.Context, id uuid.UUID) (*models.AudioFile, error) {
	file, ok := s.files[id]
	if !ok || file.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	return file, nil
}

func (s *memAudioStore) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.AudioFile, error) {
	var out []*models.AudioFile
	for _, f := range s.files {
		if f.UserID == userID && f.DeletedAt == nil {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *memAudioStore) SoftDelete(_ context.Context, id uuid.UUID) error {
	if file, ok := s.files[id]; ok {
		now := time.Now()
		file.DeletedAt = &now
	}
	return nil
}

type memJobStore struct {
	jobs map[uuid.UUID]*models.ProcessingJob
}

func newMemJobStore() *memJobStore {
	return &memJobStore{jobs: make(map[uuid.UUID]*models.ProcessingJob)}
}

func (s *memJobStore) Create(_ context.Context, job *models.ProcessingJob) error {
	for _, existing := range s.jobs {
		if existing.AudioFileID == job.AudioFileID {
			return repository.ErrDuplicateJob
		}
	}
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	s.jobs[job.ID] = job
	return nil
}

func (s *memJobStore) GetByID(_ context.Context, id uuid.UUID) (*models.ProcessingJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (s *memJobStore) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.ProcessingJob, error) {
	var out []*models.ProcessingJob
	for _, j := range s.jobs {
		if j.UserID == userID {
			copied := *j
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memJobStore) ListPending(_ context.Context, maxRetries int, _ time.Duration, limit int) ([]*models.ProcessingJob, error) {
	var out []*models.ProcessingJob
	for _, j := range s.jobs {
		if j.Status == models.JobStatusPending && j.RetryCount < maxRetries && len(out) < limit {
			copied := *j
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memJobStore) MarkProcessing(_ context.Context, id uuid.UUID) (bool, error) {
	job, ok := s.jobs[id]
	if !ok || job.Status != models.JobStatusPending {
		return false, nil
	}
	job.Status = models.JobStatusProcessing
	job.RetryCount++
	job.UpdatedAt = time.Now()
	return true, nil
}

func (s *memJobStore) Complete(_ context.Context, id uuid.UUID) error {
	job := s.jobs[id]
	now := time.Now()
	job.Status = models.JobStatusCompleted
	job.ErrorMessage = nil
	job.CompletedAt = &now
	job.UpdatedAt = now
	return nil
}

func (s *memJobStore) Fail(_ context.Context, id uuid.UUID, errorMessage string) error {
	job := s.jobs[id]
	now := time.Now()
	job.Status = models.JobStatusFailed
	job.ErrorMessage = &errorMessage
	job.CompletedAt = &now
	job.UpdatedAt = now
	return nil
}

func (s *memJobStore) Retry(_ context.Context, id uuid.UUID, errorMessage string) error {
	job := s.jobs[id]
	job.Status = models.JobStatusPending
	job.ErrorMessage = &errorMessage
	job.UpdatedAt = time.Now()
	return nil
}

func (s *memJobStore) Requeue(_ context.Context, id uuid.UUID) error {
	job := s.jobs[id]
	job.Status = models.JobStatusPending
	job.ErrorMessage = nil
	job.RetryCount = 0
	job.CompletedAt = nil
	job.UpdatedAt = time.Now()
	return nil
}

type memTranscriptStore struct {
	transcripts []*models.Transcript
}

func (s *memTranscriptStore) Insert(_ context.Context, t *models.Transcript) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.transcripts = append(s.transcripts, t)
	return nil
}

func (s *memTranscriptStore) ListByUser(_ context.Context, userID string, limit int64) ([]*models.Transcript, error) {
	var out []*models.Transcript
	for _, t := range s.transcripts {
		if t.UserID == userID && int64(len(out)) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTranscriptStore) ListByUserBetween(_ context.Context, userID string, start, end time.Time) ([]*models.Transcript, error) {
	var out []*models.Transcript
	for _, t := range s.transcripts {
		if t.UserID == userID && !t.CreatedAt.Before(start) && t.CreatedAt.Before(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

type memSummaryStore struct {
	summaries map[string]*models.DailySummary // keyed user_id|date
}

func newMemSummaryStore() *memSummaryStore {
	return &memSummaryStore{summaries: make(map[string]*models.DailySummary)}
}

func (s *memSummaryStore) Upsert(_ context.Context, summary *models.DailySummary) error {
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}
	s.summaries[summary.UserID+"|"+summary.Date] = summary
	return nil
}

func (s *memSummaryStore) GetByDate(_ context.Context, userID, date string) (*models.DailySummary, error) {
	return s.summaries[userID+"|"+date], nil
}

func (s *memSummaryStore) ListByUser(_ context.Context, userID string, limit int64) ([]*models.DailySummary, error) {
	var out []*models.DailySummary
	for _, summary := range s.summaries {
		if summary.UserID == userID && int64(len(out)) < limit {
			out = append(out, summary)
		}
	}
	return out, nil
}

type memStoryStore struct {
	stories map[string]*models.Story // keyed by URL
}

func newMemStoryStore() *memStoryStore {
	return &memStoryStore{stories: make(map[string]*models.Story)}
}

func (s *memStoryStore) SaveAll(_ context.Context, stories []*models.Story) (int, error) {
	inserted := 0
	for _, story := range stories {
		if _, ok := s.stories[story.URL]; !ok {
			inserted++
		}
		s.stories[story.URL] = story
	}
	return inserted, nil
}

func (s *memStoryStore) List(_ context.Context, limit int64) ([]*models.Story, error) {
	var out []*models.Story
	for _, story := range s.stories {
		if int64(len(out)) < limit {
			out = append(out, story)
		}
	}
	return out, nil
}

// memStorage is an in-memory blob store
type memStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{blobs: make(map[string][]byte)}
}

func (s *memStorage) Upload(_ context.Context, userID uuid.UUID, filename string, data io.Reader) (string, error) {
	blob, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("audio_upload/%s/%s", userID, filename)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = blob
	return key, nil
}

func (s *memStorage) Download(_ context.Context, storagePath string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.blobs[storagePath]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(blob)), nil
}

func (s *memStorage) Delete(_ context.Context, storagePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, storagePath)
	return nil
}

// stubTranscriber returns a canned transcript
type stubTranscriber struct {
	result *transcribe.Result
	err    error
	calls  int
}

func (t *stubTranscriber) Transcribe(_ context.Context, _ string) (*transcribe.Result, error) {
	t.calls++
	if t.err != nil {
		return nil, t.err
	}
	return t.result, nil
}

// stubClassifier returns a canned classification
type stubClassifier struct {
	content *models.SummaryContent
	err     error
	calls   int
}

func (c *stubClassifier) Classify(_ context.Context, _ string) (*models.SummaryContent, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.content, nil
}

// stubMailer records sent mail
type stubMailer struct {
	recipients []string
	subjects   []string
	bodies     []string
}

func (m *stubMailer) Send(_ context.Context, recipient, subject, htmlBody string) error {
	m.recipients = append(m.recipients, recipient)
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, htmlBody)
	return nil
}

// copyFile stands in for the ffmpeg step
func copyFile(_ context.Context, inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o600)
}
