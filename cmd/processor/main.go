// The processor drains the transcription queue on an interval and sends
// each account's daily summary email at its preferred local time.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/option"

	"panzoto-backend/classify"
	"panzoto-backend/config"
	"panzoto-backend/mailer"
	"panzoto-backend/models"
	"panzoto-backend/repository"
	"panzoto-backend/service"
	"panzoto-backend/storage"
	"panzoto-backend/transcribe"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	mongoClient, err := repository.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer mongoClient.Disconnect(context.Background())
	mongoDB := mongoClient.Database(cfg.MongoDBName)

	store, err := storage.New(cfg)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		logger.Error("failed to initialize gemini client", "error", err)
		os.Exit(1)
	}
	defer genaiClient.Close()

	sesMailer, err := mailer.NewSESMailer(cfg)
	if err != nil {
		logger.Error("failed to initialize mailer", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(pool)
	audioRepo := repository.NewAudioFileRepository(pool)
	jobRepo := repository.NewProcessingJobRepository(pool)
	transcriptRepo := repository.NewTranscriptRepository(mongoDB.Collection(cfg.MongoTranscriptsCollection))
	summaryRepo := repository.NewSummaryRepository(mongoDB.Collection(cfg.MongoSummariesCollection))

	transcriptionSvc := service.NewTranscriptionService(
		jobRepo, audioRepo, userRepo, transcriptRepo,
		store, transcribe.NewWhisperTranscriber(cfg.OpenAIAPIKey),
		cfg.MasterSecret, cfg.MaxRetries, cfg.RetryBackoff, logger,
	)
	summarySvc := service.NewSummaryService(
		userRepo, transcriptRepo, summaryRepo,
		classify.NewGeminiClassifier(genaiClient, cfg.GeminiModel),
		sesMailer, cfg.MasterSecret, logger,
	)

	p := &processor{
		transcription: transcriptionSvc,
		summaries:     summarySvc,
		users:         userRepo,
		logger:        logger,
		lastSent:      make(map[string]string),
	}

	logger.Info("processor starting", "interval", cfg.ProcessInterval)
	ticker := time.NewTicker(cfg.ProcessInterval)
	defer ticker.Stop()

	for {
		p.tick(ctx)

		select {
		case <-ctx.Done():
			logger.Info("processor stopping")
			return
		case <-ticker.C:
		}
	}
}

type processor struct {
	transcription *service.TranscriptionService
	summaries     *service.SummaryService
	users         *repository.UserRepository
	logger        *slog.Logger

	// lastSent tracks the date of the last summary email per user so one
	// summary window cannot fire twice.
	lastSent map[string]string
}

func (p *processor) tick(ctx context.Context) {
	processed, err := p.transcription.ProcessPending(ctx)
	if err != nil {
		p.logger.Error("queue pass failed", "error", err)
	} else if processed > 0 {
		p.logger.Info("queue pass finished", "processed", processed)
	}

	p.dispatchSummaries(ctx)
}

// dispatchSummaries emails the previous day's digest to every account whose
// preferred delivery time has passed today.
func (p *processor) dispatchSummaries(ctx context.Context) {
	prefs, err := p.users.ListNotifiable(ctx)
	if err != nil {
		p.logger.Error("listing notifiable accounts failed", "error", err)
		return
	}

	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	for _, pref := range prefs {
		due := time.Date(now.Year(), now.Month(), now.Day(),
			pref.SummaryHour, pref.SummaryMinute, 0, 0, time.UTC)
		if now.Before(due) {
			continue
		}

		key := pref.UserID.String()
		if p.lastSent[key] == today {
			continue
		}

		if err := p.sendSummary(ctx, pref, yesterday); err != nil {
			p.logger.Error("summary dispatch failed",
				"user_id", pref.UserID, "date", yesterday, "error", err)
			continue
		}
		p.lastSent[key] = today
	}
}

func (p *processor) sendSummary(ctx context.Context, pref *models.UserPreferences, date string) error {
	err := p.summaries.SendDaily(ctx, pref.UserID, date)
	if err != nil {
		return err
	}
	p.logger.Info("summary dispatched", "user_id", pref.UserID, "date", date)
	return nil
}
