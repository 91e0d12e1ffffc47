package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/option"

	"panzoto-backend/auth"
	"panzoto-backend/classify"
	"panzoto-backend/config"
	"panzoto-backend/handlers"
	"panzoto-backend/mailer"
	"panzoto-backend/repository"
	"panzoto-backend/scraper"
	"panzoto-backend/service"
	"panzoto-backend/storage"
	"panzoto-backend/transcribe"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	ctx := context.Background()

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
	defer mongoClient.Disconnect(ctx)
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

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	audioRepo := repository.NewAudioFileRepository(pool)
	jobRepo := repository.NewProcessingJobRepository(pool)
	transcriptRepo := repository.NewTranscriptRepository(mongoDB.Collection(cfg.MongoTranscriptsCollection))
	summaryRepo := repository.NewSummaryRepository(mongoDB.Collection(cfg.MongoSummariesCollection))
	storyRepo := repository.NewStoryRepository(mongoDB.Collection(cfg.MongoStoriesCollection))

	// Collaborators
	transcriber := transcribe.NewWhisperTranscriber(cfg.OpenAIAPIKey)
	classifier := classify.NewGeminiClassifier(genaiClient, cfg.GeminiModel)
	sc := newScraper(cfg)

	// Services
	userSvc := service.NewUserService(userRepo, []byte(cfg.JWTSecret), cfg.TokenValidity)
	audioSvc := service.NewAudioService(audioRepo, jobRepo, store, logger)
	transcriptionSvc := service.NewTranscriptionService(
		jobRepo, audioRepo, userRepo, transcriptRepo,
		store, transcriber,
		cfg.MasterSecret, cfg.MaxRetries, cfg.RetryBackoff, logger,
	)
	summarySvc := service.NewSummaryService(
		userRepo, transcriptRepo, summaryRepo,
		classifier, sesMailer, cfg.MasterSecret, logger,
	)
	storySvc := service.NewStoryService(sc, storyRepo, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(userSvc)
	userHandler := handlers.NewUserHandler(userSvc)
	audioHandler := handlers.NewAudioHandler(audioSvc, transcriptionSvc, cfg.MaxUploadBytes, logger)
	jobHandler := handlers.NewJobHandler(audioSvc, transcriptionSvc)
	transcriptHandler := handlers.NewTranscriptHandler(transcriptionSvc)
	summaryHandler := handlers.NewSummaryHandler(summarySvc)
	storyHandler := handlers.NewStoryHandler(storySvc)

	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(auth.Middleware([]byte(cfg.JWTSecret)))
		{
			protected.GET("/auth/me", authHandler.Me)

			protected.GET("/users/preferences", userHandler.GetPreferences)
			protected.PUT("/users/preferences", userHandler.UpdatePreferences)

			protected.POST("/audio", audioHandler.Upload)
			protected.GET("/audio", audioHandler.List)
			protected.GET("/audio/:id", audioHandler.Get)
			protected.DELETE("/audio/:id", audioHandler.Delete)

			protected.GET("/jobs", jobHandler.List)
			protected.GET("/jobs/:id", jobHandler.Get)
			protected.POST("/jobs/:id/requeue", jobHandler.Requeue)

			protected.GET("/transcripts", transcriptHandler.List)

			protected.POST("/summaries/daily", summaryHandler.Generate)
			protected.GET("/summaries", summaryHandler.List)
			protected.GET("/summaries/:date", summaryHandler.Get)
			protected.POST("/summaries/:date/send", summaryHandler.Send)

			protected.GET("/stories", storyHandler.List)
			protected.GET("/stories/fetch", storyHandler.Fetch)
			protected.POST("/stories/save", storyHandler.FetchAndSave)
		}
	}

	logger.Info("server starting", "port", cfg.Port, "storage", cfg.StorageType)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newScraper prefers the OAuth API when credentials are configured and
// falls back to the public RSS feed otherwise.
func newScraper(cfg *config.Config) scraper.Scraper {
	if cfg.RedditClientID != "" && cfg.RedditClientSecret != "" {
		return scraper.NewRedditScraper(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent)
	}
	return scraper.NewRSSScraper(cfg.RedditUserAgent)
}
