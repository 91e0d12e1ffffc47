package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"panzoto-backend/classify"
	"panzoto-backend/mailer"
	"panzoto-backend/models"
)

const dateLayout = "2006-01-02"

// SummaryService builds and delivers the classified daily digest of an
// account's transcripts.
type SummaryService struct {
	users        UserStore
	transcripts  TranscriptStore
	summaries    SummaryStore
	classifier   Classifier
	mailer       mailer.Mailer
	masterSecret string
	logger       *slog.Logger
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	users UserStore,
	transcripts TranscriptStore,
	summaries SummaryStore,
	classifier Classifier,
	m mailer.Mailer,
	masterSecret string,
	logger *slog.Logger,
) *SummaryService {
	return &SummaryService{
		users:        users,
		transcripts:  transcripts,
		summaries:    summaries,
		classifier:   classifier,
		mailer:       m,
		masterSecret: masterSecret,
		logger:       logger,
	}
}

// GenerateDaily classifies one day's transcripts into the three summary
// lists and stores the result, replacing any summary already stored for that
// day. A day with no transcripts yields an empty summary without consulting
// the classifier.
func (s *SummaryService) GenerateDaily(ctx context.Context, userID uuid.UUID, date string) (*models.DailySummaryResponse, error) {
	day, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	transcripts, err := s.transcripts.ListByUserBetween(ctx, userID.String(), day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	content := &models.SummaryContent{
		FamilyInfo:   []string{},
		BusinessInfo: []string{},
		MiscInfo:     []string{},
	}
	if len(transcripts) > 0 {
		texts := make([]string, 0, len(transcripts))
		for _, t := range transcripts {
			text, err := openUserText(user, t.EncryptedText, s.masterSecret)
			if err != nil {
				return nil, fmt.Errorf("%w: transcript %s: %v", ErrDecryption, t.ID, err)
			}
			texts = append(texts, text)
		}

		content, err = s.classifier.Classify(ctx, joinSentences(texts))
		if err != nil {
			if errors.Is(err, classify.ErrBadFormat) {
				return nil, fmt.Errorf("%w: %v", ErrFormat, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}

	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	encrypted, err := sealUserText(user, string(contentJSON))
	if err != nil {
		return nil, err
	}

	summary := &models.DailySummary{
		ID:               uuid.NewString(),
		UserID:           userID.String(),
		Date:             date,
		EncryptedContent: encrypted,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.summaries.Upsert(ctx, summary); err != nil {
		return nil, err
	}

	s.logger.Info("daily summary generated",
		"user_id", userID, "date", date, "transcripts", len(transcripts))

	return s.response(summary, content), nil
}

// GetDaily retrieves the stored summary for one day, decrypted
func (s *SummaryService) GetDaily(ctx context.Context, userID uuid.UUID, date string) (*models.DailySummaryResponse, error) {
	if _, err := time.ParseInLocation(dateLayout, date, time.UTC); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	summary, err := s.summaries.GetByDate(ctx, userID.String(), date)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, ErrNotFound
	}

	content, err := s.decryptContent(user, summary)
	if err != nil {
		return nil, err
	}
	return s.response(summary, content), nil
}

// ListSummaries retrieves the caller's stored summaries, decrypted
func (s *SummaryService) ListSummaries(ctx context.Context, userID uuid.UUID, limit int64) ([]*models.DailySummaryResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	summaries, err := s.summaries.ListByUser(ctx, userID.String(), limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.DailySummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		content, err := s.decryptContent(user, summary)
		if err != nil {
			return nil, err
		}
		responses = append(responses, s.response(summary, content))
	}
	return responses, nil
}

// SendDaily generates (or regenerates) a day's summary and emails it to the
// account's notification address.
func (s *SummaryService) SendDaily(ctx context.Context, userID uuid.UUID, date string) error {
	prefs, err := s.users.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !prefs.NotificationEnabled || prefs.NotificationEmail == "" {
		return fmt.Errorf("%w: notifications are not enabled for this account", ErrValidation)
	}

	summary, err := s.GenerateDaily(ctx, userID, date)
	if err != nil {
		return err
	}

	content := &models.SummaryContent{
		FamilyInfo:   summary.FamilyInfo,
		BusinessInfo: summary.BusinessInfo,
		MiscInfo:     summary.MiscInfo,
	}
	subject := fmt.Sprintf("Daily Summary - %s", date)
	body := mailer.FormatSummaryHTML(date, content)

	if err := s.mailer.Send(ctx, prefs.NotificationEmail, subject, body); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	s.logger.Info("daily summary sent", "user_id", userID, "date", date)
	return nil
}

func (s *SummaryService) decryptContent(user *models.User, summary *models.DailySummary) (*models.SummaryContent, error) {
	contentJSON, err := openUserText(user, summary.EncryptedContent, s.masterSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: summary %s: %v", ErrDecryption, summary.ID, err)
	}

	content := &models.SummaryContent{}
	if err := json.Unmarshal([]byte(contentJSON), content); err != nil {
		return nil, fmt.Errorf("%w: summary %s: %v", ErrFormat, summary.ID, err)
	}
	return content, nil
}

func (s *SummaryService) response(summary *models.DailySummary, content *models.SummaryContent) *models.DailySummaryResponse {
	return &models.DailySummaryResponse{
		ID:           summary.ID,
		Date:         summary.Date,
		FamilyInfo:   content.FamilyInfo,
		BusinessInfo: content.BusinessInfo,
		MiscInfo:     content.MiscInfo,
		CreatedAt:    summary.CreatedAt,
	}
}

// joinSentences concatenates transcript texts, adding a terminal period
// where a fragment lacks one so sentence boundaries survive the join.
func joinSentences(texts []string) string {
	parts := make([]string, 0, len(texts))
	for _, text := range texts {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		if !strings.HasSuffix(trimmed, ".") && !strings.HasSuffix(trimmed, "!") && !strings.HasSuffix(trimmed, "?") {
			trimmed += "."
		}
		parts = append(parts, trimmed)
	}
	return strings.Join(parts, " ")
}
