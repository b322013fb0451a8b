package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"dailydose/internal/adapter"
	"dailydose/internal/adapter/cardgen"
	"dailydose/internal/adapter/embedding"
	"dailydose/internal/cache"
	"dailydose/internal/config"
	"dailydose/internal/database"
	"dailydose/internal/domain"
	"dailydose/internal/handler"
	"dailydose/internal/logger"
	"dailydose/internal/middleware"
	"dailydose/internal/repository"
	"dailydose/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// LLM client for card generation
	ollamaHTTPClient := &http.Client{Timeout: 120 * time.Second}
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.LLM.ServerURL),
		ollama.WithModel(cfg.LLM.Model),
		ollama.WithHTTPClient(ollamaHTTPClient),
	)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	cardGenService := cardgen.NewOllamaCardGenerator(llm, 90*time.Second)

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Oracle database")

	// Initialize repositories
	cardRepository := repository.NewCardDatabaseAdapter(db)
	batchRepository := repository.NewBatchDatabaseAdapter(db)
	pathwayRepository := repository.NewPathwayDatabaseAdapter(db)
	attemptRepository := repository.NewAttemptDatabaseAdapter(db)
	tagRepository := repository.NewTagDatabaseAdapter(db)
	templateRepository := repository.NewTemplateDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize Redis client and cache adapter
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Embedding service for near-duplicate filtering, cache-decorated
	var embeddingService domain.EmbeddingService
	if cfg.LLM.EmbeddingModel != "" {
		ollamaEmbedding, err := embedding.NewOllamaEmbeddingService(cfg.LLM.ServerURL, cfg.LLM.EmbeddingModel)
		if err != nil {
			appLogger.Fatal("Failed to create embedding service", zap.Error(err))
		}
		cachedEmbedding, err := embedding.NewCachedEmbeddingService(ollamaEmbedding, cacheAdapter, 0)
		if err != nil {
			appLogger.Fatal("Failed to create cached embedding service", zap.Error(err))
		}
		embeddingService = cachedEmbedding
		appLogger.Info("Embedding service initialized", zap.String("model", cfg.LLM.EmbeddingModel))
	} else {
		appLogger.Warn("No embedding model configured, near-duplicate filtering disabled")
	}

	// Initialize services
	sessionStore := service.NewSessionStore(cacheAdapter, cfg.Session.TTL)
	cardService := service.NewCardService(cardRepository)
	batchService := service.NewBatchService(batchRepository, cardRepository, templateRepository,
		cardGenService, embeddingService, txManager, cfg, appLogger)
	pathwayService := service.NewPathwayService(pathwayRepository, cardRepository, attemptRepository, cacheAdapter)
	sessionService := service.NewSessionService(cardRepository, batchRepository, pathwayRepository,
		attemptRepository, sessionStore, cfg)
	settingsService := service.NewSettingsService(tagRepository, templateRepository)

	// Initialize handlers
	editorialHandler := handler.NewEditorialHandler(cardService, batchService, settingsService, pathwayService)
	dailyDoseHandler := handler.NewDailyDoseHandler(pathwayService, sessionService)
	healthHandler := handler.NewHealthHandler(db, cacheAdapter)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/health", healthHandler.Health)

	apiGroup := app.Group("/api")

	// Editorial routes
	editorialGroup := apiGroup.Group("/editorial")
	editorialGroup.Get("/cards/review-due", editorialHandler.ListReviewDueCards)
	editorialGroup.Post("/cards/bulk-delete", editorialHandler.BulkDeleteCards)
	editorialGroup.Post("/cards", editorialHandler.CreateCard)
	editorialGroup.Get("/cards", editorialHandler.ListCards)
	editorialGroup.Get("/cards/:id", editorialHandler.GetCard)
	editorialGroup.Put("/cards/:id", editorialHandler.UpdateCard)
	editorialGroup.Delete("/cards/:id", editorialHandler.DeleteCard)
	editorialGroup.Get("/cards/:id/readiness", editorialHandler.GetReadiness)
	editorialGroup.Post("/cards/:id/approve", editorialHandler.ApproveCard)
	editorialGroup.Post("/cards/:id/publish", editorialHandler.PublishCard)
	editorialGroup.Post("/cards/:id/archive", editorialHandler.ArchiveCard)
	editorialGroup.Post("/cards/:id/clinician-approval", editorialHandler.RecordClinicianApproval)
	editorialGroup.Post("/batches", editorialHandler.GenerateBatch)
	editorialGroup.Get("/batches", editorialHandler.ListBatches)
	editorialGroup.Get("/batches/:id", editorialHandler.GetBatch)
	editorialGroup.Delete("/batches/:id/cards/:cardId", editorialHandler.DeleteCardFromBatch)
	editorialGroup.Put("/batches/:id/active-card/:cardId", editorialHandler.SetActiveCard)
	editorialGroup.Get("/settings/tags", editorialHandler.ListTags)
	editorialGroup.Post("/settings/tags", editorialHandler.CreateTag)
	editorialGroup.Delete("/settings/tags/:id", editorialHandler.DeleteTag)
	editorialGroup.Get("/settings/templates", editorialHandler.ListTemplates)
	editorialGroup.Post("/settings/templates", editorialHandler.CreateTemplate)
	editorialGroup.Get("/settings/templates/:id", editorialHandler.GetTemplate)
	editorialGroup.Put("/settings/templates/:id", editorialHandler.UpdateTemplate)
	editorialGroup.Delete("/settings/templates/:id", editorialHandler.DeleteTemplate)

	// Learner routes
	dailyDoseGroup := apiGroup.Group("/daily-dose")
	dailyDoseGroup.Get("/pathway", dailyDoseHandler.GetPathway)
	dailyDoseGroup.Post("/sessions", dailyDoseHandler.StartSession)
	dailyDoseGroup.Get("/sessions/:id", dailyDoseHandler.GetSession)
	dailyDoseGroup.Post("/sessions/:id/answers", dailyDoseHandler.AnswerStep)
	dailyDoseGroup.Post("/sessions/:id/seek", dailyDoseHandler.Seek)
	dailyDoseGroup.Post("/sessions/:id/submit", dailyDoseHandler.SubmitSession)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
