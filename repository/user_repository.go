package repository

import (
	"context"

	"panzoto-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users and their preferences
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user together with a default preferences row
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (
			email, password_hash, encryption_key, key_salt
		) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(
		ctx, query,
		user.Email,
		user.PasswordHash,
		user.EncryptionKey,
		user.KeySalt,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_preferences (user_id, notification_email)
		VALUES ($1, $2)`,
		user.ID, user.Email,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, encryption_key, key_salt,
			created_at, updated_at, deleted_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.EncryptionKey,
		&user.KeySalt,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, encryption_key, key_salt,
			created_at, updated_at, deleted_at
		FROM users
		WHERE email = $1 AND deleted_at IS NULL`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.EncryptionKey,
		&user.KeySalt,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetPreferences retrieves a user's notification preferences
func (r *UserRepository) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	prefs := &models.UserPreferences{}
	query := `
		SELECT user_id, notification_enabled, notification_email,
			summary_hour, summary_minute, updated_at
		FROM user_preferences
		WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID,
		&prefs.NotificationEnabled,
		&prefs.NotificationEmail,
		&prefs.SummaryHour,
		&prefs.SummaryMinute,
		&prefs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return prefs, nil
}

// UpdatePreferences updates a user's notification preferences
func (r *UserRepository) UpdatePreferences(ctx context.Context, prefs *models.UserPreferences) error {
	query := `
		UPDATE user_preferences SET
			notification_enabled = $2,
			notification_email = $3,
			summary_hour = $4,
			summary_minute = $5,
			updated_at = NOW()
		WHERE user_id = $1`

	_, err := r.db.Exec(ctx, query,
		prefs.UserID,
		prefs.NotificationEnabled,
		prefs.NotificationEmail,
		prefs.SummaryHour,
		prefs.SummaryMinute,
	)
	return err
}

// ListNotifiable retrieves preferences for all users with notifications
// enabled, for the summary scheduler.
func (r *UserRepository) ListNotifiable(ctx context.Context) ([]*models.UserPreferences, error) {
	query := `
		SELECT p.user_id, p.notification_enabled, p.notification_email,
			p.summary_hour, p.summary_minute, p.updated_at
		FROM user_preferences p
		JOIN users u ON u.id = p.user_id
		WHERE p.notification_enabled AND u.deleted_at IS NULL`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []*models.UserPreferences
	for rows.Next() {
		p := &models.UserPreferences{}
		err := rows.Scan(
			&p.UserID,
			&p.NotificationEnabled,
			&p.NotificationEmail,
			&p.SummaryHour,
			&p.SummaryMinute,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, p)
	}

	return prefs, rows.Err()
}
