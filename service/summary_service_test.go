package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panzoto-backend/classify"
	"panzoto-backend/cryptox"
	"panzoto-backend/models"
)

type summaryFixture struct {
	users       *memUserStore
	transcripts *memTranscriptStore
	summaries   *memSummaryStore
	classifier  *stubClassifier
	mailer      *stubMailer
	svc         *SummaryService

	user *models.User
	key  []byte
}

func newSummaryFixture(t *testing.T) *summaryFixture {
	t.Helper()

	keyB64, err := cryptox.GenerateKey()
	require.NoError(t, err)
	key, err := cryptox.DecodeKey(keyB64)
	require.NoError(t, err)
	saltB64, err := cryptox.GenerateSalt()
	require.NoError(t, err)

	f := &summaryFixture{
		users:       newMemUserStore(),
		transcripts: &memTranscriptStore{},
		summaries:   newMemSummaryStore(),
		classifier: &stubClassifier{content: &models.SummaryContent{
			FamilyInfo:   []string{"Kid's recital is on Friday"},
			BusinessInfo: []string{"Invoice 42 is overdue"},
			MiscInfo:     []string{},
		}},
		mailer: &stubMailer{},
		key:    key,
	}

	f.user = &models.User{
		Email:         "frank@example.com",
		EncryptionKey: keyB64,
		KeySalt:       saltB64,
	}
	require.NoError(t, f.users.Create(context.Background(), f.user))

	f.svc = NewSummaryService(
		f.users, f.transcripts, f.summaries,
		f.classifier, f.mailer, "master-secret", testLogger(),
	)
	return f
}

// addTranscript stores an encrypted transcript timestamped within the day
func (f *summaryFixture) addTranscript(t *testing.T, userID uuid.UUID, text, date string) {
	t.Helper()

	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	require.NoError(t, err)
	encrypted, err := cryptox.EncryptText(text, f.key)
	require.NoError(t, err)

	f.transcripts.transcripts = append(f.transcripts.transcripts, &models.Transcript{
		ID:            uuid.NewString(),
		UserID:        userID.String(),
		EncryptedText: encrypted,
		CreatedAt:     day.Add(9 * time.Hour),
	})
}

func TestGenerateDaily_ClassifiesAndStoresEncrypted(t *testing.T) {
	ctx := context.Background()
	f := newSummaryFixture(t)
	f.addTranscript(t, f.user.ID, "the recital is friday", "2026-08-29")
	f.addTranscript(t, f.user.ID, "chase invoice 42", "2026-08-29")

	resp, err := f.svc.GenerateDaily(ctx, f.user.ID, "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, 1, f.classifier.calls)
	assert.Equal(t, []string{"Kid's recital is on Friday"}, resp.FamilyInfo)
	assert.Equal(t, []string{"Invoice 42 is overdue"}, resp.BusinessInfo)

	stored, err := f.summaries.GetByDate(ctx, f.user.ID.String(), "2026-08-29")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotContains(t, stored.EncryptedContent, "recital")

	// reads decrypt back to the same content
	got, err := f.svc.GetDaily(ctx, f.user.ID, "2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, resp.FamilyInfo, got.FamilyInfo)
	assert.Equal(t, resp.BusinessInfo, got.BusinessInfo)
}

func TestGenerateDaily_EmptyDaySkipsClassifier(t *testing.T) {
	ctx := context.Background()
	f := newSummaryFixture(t)

	resp, err := f.svc.GenerateDaily(ctx, f.user.ID, "2026-08-29")
	require.NoError(t, err)
	assert.Zero(t, f.classifier.calls)
	assert.Empty(t, resp.FamilyInfo)
	assert.Empty(t, resp.BusinessInfo)
	assert.Empty(t, resp.MiscInfo)

	stored, err := f.summaries.GetByDate(ctx, f.user.ID.String(), "2026-08-29")
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestGenerateDaily_MalformedReplyWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newSummaryFixture(t)
	f.classifier.err = classify.ErrBadFormat
	f.addTranscript(t, f.user.ID, "some note", "2026-08-29")

	_, err := f.svc.GenerateDaily(ctx, f.user.ID, "2026-08-29")
	assert.ErrorIs(t, err, ErrFormat)

	stored, err := f.summaries.GetByDate(ctx, f.user.ID.String(), "2026-08-29")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestGenerateDaily_IgnoresOtherAccounts(t *testing.T) {
	ctx := context.Background()
	f := newSummaryFixture(t)
	f.addTranscript(t, uuid.New(), "someone else's note", "2026-08-29")

	_, err := f.svc.GenerateDaily(ctx, f.user.ID, "2026-08-29")
	require.NoError(t, err)
	assert.Zero(t, f.classifier.calls)
}

func TestGenerateDaily_BadDate(t *testing.T) {
	f := newSummaryFixture(t)

	_, err := f.svc.GenerateDaily(context.Background(), f.user.ID, "08/29/2026")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetDaily_AbsentSummary(t *testing.T) {
	f := newSummaryFixture(t)

	_, err := f.svc.GetDaily(context.Background(), f.user.ID, "2026-08-29")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendDaily(t *testing.T) {
	ctx := context.Background()
	f := newSummaryFixture(t)
	f.addTranscript(t, f.user.ID, "the recital is friday", "2026-08-29")

	// notifications off: refuse
	err := f.svc.SendDaily(ctx, f.user.ID, "2026-08-29")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.mailer.recipients)

	prefs, err := f.users.GetPreferences(ctx, f.user.ID)
	require.NoError(t, err)
	prefs.NotificationEnabled = true
	require.NoError(t, f.users.UpdatePreferences(ctx, prefs))

	require.NoError(t, f.svc.SendDaily(ctx, f.user.ID, "2026-08-29"))
	require.Len(t, f.mailer.recipients, 1)
	assert.Equal(t, "frank@example.com", f.mailer.recipients[0])
	assert.Contains(t, f.mailer.subjects[0], "2026-08-29")
	assert.Contains(t, f.mailer.bodies[0], "<h2>Family</h2>")
	assert.Contains(t, f.mailer.bodies[0], "recital")
}

func TestJoinSentences(t *testing.T) {
	joined := joinSentences([]string{"first note", "second note.", "  ", "third?"})
	assert.Equal(t, "first note. second note. third?", joined)
}
