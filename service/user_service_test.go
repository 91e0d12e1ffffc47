package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panzoto-backend/auth"
	"panzoto-backend/models"
)

func newTestUserService(store *memUserStore) *UserService {
	return NewUserService(store, []byte("test-secret"), 30*24*time.Hour)
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	store := newMemUserStore()
	svc := newTestUserService(store)

	user, err := svc.Register(ctx, "Alice@Example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.EncryptionKey)
	assert.NotEmpty(t, user.KeySalt)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)

	token, loggedIn, err := svc.Login(ctx, "alice@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	userID, err := auth.UserIDFromToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), userID)
}

func TestUserService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(newMemUserStore())

	_, err := svc.Register(ctx, "not-an-email", "long enough password")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "short@example.com", "short")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(newMemUserStore())

	_, err := svc.Register(ctx, "bob@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "BOB@example.com", "password456")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUserService_LoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestUserService(newMemUserStore())

	_, err := svc.Register(ctx, "carol@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "carol@example.com", "password124")
	assert.ErrorIs(t, err, ErrAuth)

	_, _, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuth)
}

func TestUserService_UpdatePreferencesValidation(t *testing.T) {
	ctx := context.Background()
	store := newMemUserStore()
	svc := newTestUserService(store)

	user, err := svc.Register(ctx, "dave@example.com", "password123")
	require.NoError(t, err)

	err = svc.UpdatePreferences(ctx, &models.UserPreferences{
		UserID: user.ID, SummaryHour: 24,
	})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.UpdatePreferences(ctx, &models.UserPreferences{
		UserID: user.ID, NotificationEnabled: true, NotificationEmail: "bogus",
	})
	assert.ErrorIs(t, err, ErrValidation)

	err = svc.UpdatePreferences(ctx, &models.UserPreferences{
		UserID:              user.ID,
		NotificationEnabled: true,
		NotificationEmail:   "dave@example.com",
		SummaryHour:         7,
		SummaryMinute:       30,
	})
	require.NoError(t, err)

	prefs, err := svc.GetPreferences(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, prefs.NotificationEnabled)
	assert.Equal(t, 7, prefs.SummaryHour)
}
