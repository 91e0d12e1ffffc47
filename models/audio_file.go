package models

import (
	"time"

	"github.com/google/uuid"
)

// EncryptionMode selects the key-derivation path for a stored blob
type EncryptionMode string

const (
	// EncryptionModeManaged uses the account's server-managed key
	EncryptionModeManaged EncryptionMode = "managed"
	// EncryptionModePassword is the legacy PBKDF2-derived key path
	EncryptionModePassword EncryptionMode = "password"
)

// AudioFile represents one uploaded encrypted audio blob
type AudioFile struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	StoragePath    string         `json:"storage_path"`
	Size           int64          `json:"size"`
	EncryptionMode EncryptionMode `json:"encryption_mode"`
	UploadedAt     time.Time      `json:"uploaded_at"`
	DeletedAt      *time.Time     `json:"-"`
}
