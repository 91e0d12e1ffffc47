package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"panzoto-backend/auth"
	"panzoto-backend/cryptox"
	"panzoto-backend/models"
)

const minPasswordLength = 8

// UserService handles registration, login and preferences
type UserService struct {
	users         UserStore
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewUserService creates a new user service
func NewUserService(users UserStore, jwtSecret []byte, tokenValidity time.Duration) *UserService {
	return &UserService{
		users:         users,
		jwtSecret:     jwtSecret,
		tokenValidity: tokenValidity,
	}
}

// Register creates an account with a hashed password and a freshly generated
// server-managed encryption key.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrAlreadyExists)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	encryptionKey, err := cryptox.GenerateKey()
	if err != nil {
		return nil, err
	}
	keySalt, err := cryptox.GenerateSalt()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:         email,
		PasswordHash:  passwordHash,
		EncryptionKey: encryptionKey,
		KeySalt:       keySalt,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a bearer token
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, ErrAuth
		}
		return "", nil, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", nil, ErrAuth
	}

	token, err := auth.GenerateToken(user.ID.String(), s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// CurrentUser resolves a token-derived user id to the account, failing with
// ErrNotFound if the account was deleted after the token was issued.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetPreferences retrieves the caller's notification preferences
func (s *UserService) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	prefs, err := s.users.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return prefs, nil
}

// UpdatePreferences validates and stores the caller's notification preferences
func (s *UserService) UpdatePreferences(ctx context.Context, prefs *models.UserPreferences) error {
	if prefs.SummaryHour < 0 || prefs.SummaryHour > 23 {
		return fmt.Errorf("%w: summary_hour must be 0-23", ErrValidation)
	}
	if prefs.SummaryMinute < 0 || prefs.SummaryMinute > 59 {
		return fmt.Errorf("%w: summary_minute must be 0-59", ErrValidation)
	}
	if prefs.NotificationEnabled {
		if _, err := mail.ParseAddress(prefs.NotificationEmail); err != nil {
			return fmt.Errorf("%w: invalid notification email", ErrValidation)
		}
	}

	return s.users.UpdatePreferences(ctx, prefs)
}
