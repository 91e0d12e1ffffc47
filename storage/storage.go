package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"panzoto-backend/config"
)

// ErrNotFound is returned when a blob's key was deleted or never written.
var ErrNotFound = errors.New("object not found")

// Storage interface for encrypted blob operations
type Storage interface {
	// Upload stores a blob and returns the storage path
	Upload(ctx context.Context, userID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves a blob by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a blob by storage path
	Delete(ctx context.Context, storagePath string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// New creates a storage instance from the process configuration.
func New(cfg *config.Config) (Storage, error) {
	switch StorageType(cfg.StorageType) {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.StorageLocalPath, cfg.AudioPrefix)

	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET is required for S3 storage")
		}
		return NewS3Storage(cfg)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.StorageType)
	}
}

// objectKey builds the per-user key: {prefix}/{user-id}/{generated-name}.
// A fresh uuid keeps uploads from colliding regardless of client filenames.
func objectKey(prefix string, userID uuid.UUID, filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("%s/%s/%s%s", prefix, userID, uuid.New(), ext)
}
