package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	// EncryptionKey is the server-managed AES-256 key, base64-encoded.
	// It never leaves the service.
	EncryptionKey string `json:"-"`
	// KeySalt feeds the legacy password-derived key path, base64-encoded.
	KeySalt   string     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// UserPreferences represents notification preferences for an account
type UserPreferences struct {
	UserID              uuid.UUID `json:"user_id"`
	NotificationEnabled bool      `json:"notification_enabled"`
	NotificationEmail   string    `json:"notification_email"`
	SummaryHour         int       `json:"summary_hour"`
	SummaryMinute       int       `json:"summary_minute"`
	UpdatedAt           time.Time `json:"updated_at"`
}
