package repository

import (
	"context"

	"panzoto-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AudioFileRepository handles database operations for audio file records
type AudioFileRepository struct {
	db *pgxpool.Pool
}

// NewAudioFileRepository creates a new audio file repository
func NewAudioFileRepository(db *pgxpool.Pool) *AudioFileRepository {
	return &AudioFileRepository{db: db}
}

// Create creates a new audio file record
func (r *AudioFileRepository) Create(ctx context.Context, file *models.AudioFile) error {
	query := `
		INSERT INTO audio_files (
			id, user_id, storage_path, size, encryption_mode
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING uploaded_at`

	return r.db.QueryRow(
		ctx, query,
		file.ID,
		file.UserID,
		file.StoragePath,
		file.Size,
		file.EncryptionMode,
	).Scan(&file.UploadedAt)
}

// GetByID retrieves an audio file record by ID
func (r *AudioFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AudioFile, error) {
	file := &models.AudioFile{}
	query := `
		SELECT id, user_id, storage_path, size, encryption_mode, uploaded_at, deleted_at
		FROM audio_files
		WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.UserID,
		&file.StoragePath,
		&file.Size,
		&file.EncryptionMode,
		&file.UploadedAt,
		&file.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	return file, nil
}

// ListByUserID retrieves all audio file records for a user
func (r *AudioFileRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.AudioFile, error) {
	query := `
		SELECT id, user_id, storage_path, size, encryption_mode, uploaded_at, deleted_at
		FROM audio_files
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY uploaded_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*models.AudioFile
	for rows.Next() {
		file := &models.AudioFile{}
		err := rows.Scan(
			&file.ID,
			&file.UserID,
			&file.StoragePath,
			&file.Size,
			&file.EncryptionMode,
			&file.UploadedAt,
			&file.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

// SoftDelete marks an audio file record as deleted
func (r *AudioFileRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE audio_files SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
