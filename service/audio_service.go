package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"panzoto-backend/models"
	"panzoto-backend/repository"
	"panzoto-backend/storage"
)

// AudioService manages encrypted audio uploads and their records
type AudioService struct {
	files   AudioFileStore
	jobs    JobStore
	storage storage.Storage
	logger  *slog.Logger
}

// NewAudioService creates a new audio service
func NewAudioService(files AudioFileStore, jobs JobStore, store storage.Storage, logger *slog.Logger) *AudioService {
	return &AudioService{
		files:   files,
		jobs:    jobs,
		storage: store,
		logger:  logger,
	}
}

// Upload stores an encrypted blob, records it, and creates the processing
// job for it. The job insert is conditional on the audio file id, so a
// duplicate submission cannot double-book one record.
func (s *AudioService) Upload(ctx context.Context, userID uuid.UUID, filename string, size int64, data io.Reader) (*models.AudioFile, *models.ProcessingJob, error) {
	storagePath, err := s.storage.Upload(ctx, userID, filename, data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	file := &models.AudioFile{
		ID:             uuid.New(),
		UserID:         userID,
		StoragePath:    storagePath,
		Size:           size,
		EncryptionMode: models.EncryptionModeManaged,
	}
	if err := s.files.Create(ctx, file); err != nil {
		// Keep the store consistent with the ledger
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("orphaned blob after failed record insert",
				"storage_path", storagePath, "error", delErr)
		}
		return nil, nil, err
	}

	job := &models.ProcessingJob{
		ID:          uuid.New(),
		UserID:      userID,
		AudioFileID: file.ID,
		Status:      models.JobStatusPending,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		if errors.Is(err, repository.ErrDuplicateJob) {
			return nil, nil, fmt.Errorf("%w: processing job for audio file", ErrAlreadyExists)
		}
		return nil, nil, err
	}

	return file, job, nil
}

// List retrieves the caller's audio records
func (s *AudioService) List(ctx context.Context, userID uuid.UUID) ([]*models.AudioFile, error) {
	return s.files.ListByUserID(ctx, userID)
}

// Get retrieves one of the caller's audio records. A record owned by a
// different account is reported as absent, never as forbidden.
func (s *AudioService) Get(ctx context.Context, userID, fileID uuid.UUID) (*models.AudioFile, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if file.UserID != userID {
		return nil, ErrNotFound
	}

	return file, nil
}

// Delete soft-deletes a record and removes its blob
func (s *AudioService) Delete(ctx context.Context, userID, fileID uuid.UUID) error {
	file, err := s.Get(ctx, userID, fileID)
	if err != nil {
		return err
	}

	if err := s.files.SoftDelete(ctx, file.ID); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, file.StoragePath); err != nil {
		// Record is already gone; the blob can be swept later
		s.logger.Warn("failed to delete blob for removed record",
			"audio_file_id", file.ID, "error", err)
	}

	return nil
}

// ListJobs retrieves the caller's processing jobs
func (s *AudioService) ListJobs(ctx context.Context, userID uuid.UUID) ([]*models.ProcessingJob, error) {
	return s.jobs.ListByUserID(ctx, userID)
}
