package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"panzoto-backend/cryptox"
	"panzoto-backend/models"
	"panzoto-backend/storage"
	"panzoto-backend/transcribe"
)

// TranscriptionService runs uploaded recordings through the processing
// pipeline: fetch, decrypt, convert, transcribe, store.
type TranscriptionService struct {
	jobs         JobStore
	files        AudioFileStore
	users        UserStore
	transcripts  TranscriptStore
	storage      storage.Storage
	transcriber  transcribe.Transcriber
	masterSecret string
	maxRetries   int
	retryBackoff time.Duration
	logger       *slog.Logger

	// convertFn is swappable so tests can run the pipeline without ffmpeg
	convertFn func(ctx context.Context, inputPath, outputPath string) error
}

// batchSize caps how many jobs one queue pass claims
const batchSize = 20

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(
	jobs JobStore,
	files AudioFileStore,
	users UserStore,
	transcripts TranscriptStore,
	store storage.Storage,
	transcriber transcribe.Transcriber,
	masterSecret string,
	maxRetries int,
	retryBackoff time.Duration,
	logger *slog.Logger,
) *TranscriptionService {
	return &TranscriptionService{
		jobs:         jobs,
		files:        files,
		users:        users,
		transcripts:  transcripts,
		storage:      store,
		transcriber:  transcriber,
		masterSecret: masterSecret,
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
		logger:       logger,
		convertFn:    transcribe.ConvertToMP3,
	}
}

// GetJob retrieves one of the caller's processing jobs
func (s *TranscriptionService) GetJob(ctx context.Context, userID, jobID uuid.UUID) (*models.ProcessingJob, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if job.UserID != userID {
		return nil, ErrNotFound
	}

	return job, nil
}

// RequeueJob returns one of the caller's failed jobs to the queue
func (s *TranscriptionService) RequeueJob(ctx context.Context, userID, jobID uuid.UUID) (*models.ProcessingJob, error) {
	job, err := s.GetJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusFailed {
		return nil, fmt.Errorf("%w: only failed jobs can be requeued", ErrValidation)
	}

	if err := s.jobs.Requeue(ctx, job.ID); err != nil {
		return nil, err
	}
	return s.jobs.GetByID(ctx, job.ID)
}

// ListTranscripts retrieves the caller's transcripts, decrypted. A non-empty
// startDate/endDate pair (YYYY-MM-DD, inclusive) restricts the range.
func (s *TranscriptionService) ListTranscripts(ctx context.Context, userID uuid.UUID, startDate, endDate string, limit int64) ([]*models.Transcript, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var transcripts []*models.Transcript
	if startDate != "" || endDate != "" {
		start, end, err := parseDateRange(startDate, endDate)
		if err != nil {
			return nil, err
		}
		transcripts, err = s.transcripts.ListByUserBetween(ctx, userID.String(), start, end)
		if err != nil {
			return nil, err
		}
	} else {
		transcripts, err = s.transcripts.ListByUser(ctx, userID.String(), limit)
		if err != nil {
			return nil, err
		}
	}

	for _, t := range transcripts {
		text, err := openUserText(user, t.EncryptedText, s.masterSecret)
		if err != nil {
			return nil, fmt.Errorf("%w: transcript %s: %v", ErrDecryption, t.ID, err)
		}
		t.Text = text
	}
	return transcripts, nil
}

// parseDateRange converts an inclusive YYYY-MM-DD pair into [start, end)
// instants. Either side may be empty.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

	if startDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
		if err != nil {
			return start, end, fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrValidation)
		}
		start = parsed
	}
	if endDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
		if err != nil {
			return start, end, fmt.Errorf("%w: end date must be YYYY-MM-DD", ErrValidation)
		}
		end = parsed.AddDate(0, 0, 1)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("%w: end date precedes start date", ErrValidation)
	}

	return start, end, nil
}

// ProcessJob runs the pipeline for one job. Pipeline failures are recorded
// on the job record and are not returned as errors; only infrastructure
// problems (job lookup, database writes) surface to the caller.
func (s *TranscriptionService) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	claimed, err := s.jobs.MarkProcessing(ctx, job.ID)
	if err != nil {
		return err
	}
	if !claimed {
		s.logger.Debug("job not pending, skipping", "job_id", job.ID, "status", job.Status)
		return nil
	}
	job.RetryCount++

	file, err := s.files.GetByID(ctx, job.AudioFileID)
	if err != nil {
		return s.fail(ctx, job, true, fmt.Sprintf("audio record not found: %v", err))
	}

	user, err := s.users.GetByID(ctx, job.UserID)
	if err != nil {
		return s.fail(ctx, job, true, fmt.Sprintf("account not found: %v", err))
	}

	key, err := s.resolveKey(user, file)
	if err != nil {
		return s.fail(ctx, job, true, fmt.Sprintf("decryption failed: %v", err))
	}

	encrypted, err := s.download(ctx, file.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return s.fail(ctx, job, true, "audio file not found in storage")
		}
		return s.fail(ctx, job, false, fmt.Sprintf("storage fetch failed: %v", err))
	}

	audio, err := cryptox.DecryptBytes(encrypted, key)
	if err != nil {
		return s.fail(ctx, job, true, fmt.Sprintf("decryption failed: %v", err))
	}

	mp3Path, cleanup, err := s.convert(ctx, audio)
	if err != nil {
		return s.fail(ctx, job, false, fmt.Sprintf("conversion failed: %v", err))
	}
	defer cleanup()

	result, err := s.transcriber.Transcribe(ctx, mp3Path)
	if err != nil {
		return s.fail(ctx, job, false, fmt.Sprintf("transcription failed: %v", err))
	}

	encryptedText, err := cryptox.EncryptText(result.Text, key)
	if err != nil {
		return s.fail(ctx, job, true, fmt.Sprintf("transcript encryption failed: %v", err))
	}

	transcript := &models.Transcript{
		ID:            uuid.NewString(),
		UserID:        job.UserID.String(),
		AudioFileID:   job.AudioFileID.String(),
		JobID:         job.ID.String(),
		EncryptedText: encryptedText,
		LengthSeconds: result.LengthSeconds,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.transcripts.Insert(ctx, transcript); err != nil {
		return s.fail(ctx, job, false, fmt.Sprintf("transcript store failed: %v", err))
	}

	if err := s.jobs.Complete(ctx, job.ID); err != nil {
		return err
	}

	s.logger.Info("job completed",
		"job_id", job.ID,
		"audio_file_id", job.AudioFileID,
		"length_seconds", result.LengthSeconds)
	return nil
}

// ProcessPending drains the eligible portion of the queue once and reports
// how many jobs it attempted.
func (s *TranscriptionService) ProcessPending(ctx context.Context) (int, error) {
	jobs, err := s.jobs.ListPending(ctx, s.maxRetries, s.retryBackoff, batchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, job := range jobs {
		if err := s.ProcessJob(ctx, job.ID); err != nil {
			s.logger.Error("job processing error", "job_id", job.ID, "error", err)
			continue
		}
		processed++
	}
	return processed, nil
}

// resolveKey picks the decryption key for a blob based on how it was sealed
func (s *TranscriptionService) resolveKey(user *models.User, file *models.AudioFile) ([]byte, error) {
	switch file.EncryptionMode {
	case models.EncryptionModePassword:
		return cryptox.DeriveLegacyKey(s.masterSecret, user.KeySalt)
	default:
		return cryptox.DecodeKey(user.EncryptionKey)
	}
}

func (s *TranscriptionService) download(ctx context.Context, storagePath string) ([]byte, error) {
	rc, err := s.storage.Download(ctx, storagePath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// convert writes the decrypted audio to a scratch file and runs it through
// ffmpeg. The caller must invoke cleanup to remove both files.
func (s *TranscriptionService) convert(ctx context.Context, audio []byte) (string, func(), error) {
	dir, err := os.MkdirTemp("", "transcode-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	inputPath := filepath.Join(dir, "recording.3gp")
	if err := os.WriteFile(inputPath, audio, 0o600); err != nil {
		cleanup()
		return "", nil, err
	}

	outputPath := filepath.Join(dir, "recording.mp3")
	if err := s.convertFn(ctx, inputPath, outputPath); err != nil {
		cleanup()
		return "", nil, err
	}

	return outputPath, cleanup, nil
}

// fail records a pipeline failure. Transient failures with retry budget left
// go back to the queue; everything else is terminal.
func (s *TranscriptionService) fail(ctx context.Context, job *models.ProcessingJob, permanent bool, message string) error {
	if permanent || job.RetryCount >= s.maxRetries {
		s.logger.Warn("job failed", "job_id", job.ID, "error", message)
		return s.jobs.Fail(ctx, job.ID, message)
	}

	s.logger.Warn("job failed, will retry",
		"job_id", job.ID, "attempt", job.RetryCount, "error", message)
	return s.jobs.Retry(ctx, job.ID, message)
}
