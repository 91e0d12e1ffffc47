package repository

import (
	"context"
	"errors"
	"time"

	"panzoto-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateJob is returned when a job already exists for the audio file.
var ErrDuplicateJob = errors.New("processing job already exists for audio file")

// ProcessingJobRepository handles database operations for processing jobs
type ProcessingJobRepository struct {
	db *pgxpool.Pool
}

// NewProcessingJobRepository creates a new processing job repository
func NewProcessingJobRepository(db *pgxpool.Pool) *ProcessingJobRepository {
	return &ProcessingJobRepository{db: db}
}

// Create inserts a job for an audio file. The insert is conditional on the
// audio_file_id unique constraint, so two racing creations cannot double-book
// one audio file; the loser gets ErrDuplicateJob.
func (r *ProcessingJobRepository) Create(ctx context.Context, job *models.ProcessingJob) error {
	query := `
		INSERT INTO processing_jobs (
			id, user_id, audio_file_id, status
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (audio_file_id) DO NOTHING
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		job.ID,
		job.UserID,
		job.AudioFileID,
		job.Status,
	).Scan(&job.CreatedAt, &job.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicateJob
	}
	return err
}

// GetByID retrieves a processing job by ID
func (r *ProcessingJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProcessingJob, error) {
	job := &models.ProcessingJob{}
	query := `
		SELECT id, user_id, audio_file_id, status, error_message, retry_count,
			created_at, updated_at, completed_at
		FROM processing_jobs
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.UserID,
		&job.AudioFileID,
		&job.Status,
		&job.ErrorMessage,
		&job.RetryCount,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	return job, nil
}

// ListByUserID retrieves all processing jobs for a user
func (r *ProcessingJobRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.ProcessingJob, error) {
	query := `
		SELECT id, user_id, audio_file_id, status, error_message, retry_count,
			created_at, updated_at, completed_at
		FROM processing_jobs
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return r.queryJobs(ctx, query, userID)
}

// ListPending retrieves pending jobs eligible for processing: retry budget
// left, and for retries a last attempt older than the backoff window. Fresh
// jobs (no attempts yet) are picked up immediately.
func (r *ProcessingJobRepository) ListPending(ctx context.Context, maxRetries int, backoff time.Duration, limit int) ([]*models.ProcessingJob, error) {
	query := `
		SELECT id, user_id, audio_file_id, status, error_message, retry_count,
			created_at, updated_at, completed_at
		FROM processing_jobs
		WHERE status = 'pending'
			AND retry_count < $1
			AND (retry_count = 0 OR updated_at < NOW() - $2::interval)
		ORDER BY created_at
		LIMIT $3`

	interval := backoff.String()
	return r.queryJobs(ctx, query, maxRetries, interval, limit)
}

// MarkProcessing moves a pending job to processing, incrementing its retry
// count. Returns false if the job was not pending (another worker claimed it).
func (r *ProcessingJobRepository) MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE processing_jobs SET
			status = $2,
			retry_count = retry_count + 1,
			updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	tag, err := r.db.Exec(ctx, query, id, models.JobStatusProcessing)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Complete marks a processing job as completed
func (r *ProcessingJobRepository) Complete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE processing_jobs SET
			status = $2,
			error_message = NULL,
			completed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusCompleted)
	return err
}

// Fail marks a processing job as failed with a human-readable message
func (r *ProcessingJobRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE processing_jobs SET
			status = $2,
			error_message = $3,
			completed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusFailed, errorMessage)
	return err
}

// Retry returns a job to pending after a transient failure, keeping the
// error message visible. The retry count stays as MarkProcessing left it, so
// the budget in ListPending still applies.
func (r *ProcessingJobRepository) Retry(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE processing_jobs SET
			status = $2,
			error_message = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusPending, errorMessage)
	return err
}

// Requeue moves a failed job back to pending, for operator reprocessing
func (r *ProcessingJobRepository) Requeue(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE processing_jobs SET
			status = $2,
			error_message = NULL,
			retry_count = 0,
			completed_at = NULL,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusPending)
	return err
}

func (r *ProcessingJobRepository) queryJobs(ctx context.Context, query string, args ...any) ([]*models.ProcessingJob, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.ProcessingJob
	for rows.Next() {
		job := &models.ProcessingJob{}
		err := rows.Scan(
			&job.ID,
			&job.UserID,
			&job.AudioFileID,
			&job.Status,
			&job.ErrorMessage,
			&job.RetryCount,
			&job.CreatedAt,
			&job.UpdatedAt,
			&job.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}
