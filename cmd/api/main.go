package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/atlas/pkg/validator"

	_ "github.com/johnquangdev/atlas/docs"
	"github.com/johnquangdev/atlas/internal/adapter/handler"
	"github.com/johnquangdev/atlas/internal/adapter/repository"
	"github.com/johnquangdev/atlas/internal/infrastructure/cache"
	"github.com/johnquangdev/atlas/internal/infrastructure/database"
	"github.com/johnquangdev/atlas/internal/infrastructure/external/magiclink"
	"github.com/johnquangdev/atlas/internal/infrastructure/external/mailer"
	httpmw "github.com/johnquangdev/atlas/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/atlas/internal/infrastructure/lock"
	"github.com/johnquangdev/atlas/internal/infrastructure/storage"
	aiuse "github.com/johnquangdev/atlas/internal/usecase/ai"
	"github.com/johnquangdev/atlas/internal/usecase/auth"
	"github.com/johnquangdev/atlas/internal/usecase/chat"
	"github.com/johnquangdev/atlas/internal/usecase/dashboard"
	"github.com/johnquangdev/atlas/internal/usecase/document"
	"github.com/johnquangdev/atlas/internal/usecase/meeting"
	"github.com/johnquangdev/atlas/internal/usecase/note"
	"github.com/johnquangdev/atlas/internal/usecase/task"
	"github.com/johnquangdev/atlas/internal/usecase/webhook"
	pkgai "github.com/johnquangdev/atlas/pkg/ai"
	"github.com/johnquangdev/atlas/pkg/config"
	"github.com/johnquangdev/atlas/pkg/jwt"
)

const contextCacheSize = 256

// @title           Atlas API
// @version         1.0
// @description     Personal productivity backend: meetings, tasks, documents, notes and an assistant chat.

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler(logger)

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(httpmw.EchoMetrics())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Cookie"},
		AllowCredentials: true,
	}))

	checks := map[string]handler.HealthCheck{}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)
	checks["database"] = database.Ping(db)

	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			logger.Fatal("DB_AUTO_MIGRATE is not allowed in production; run cmd/migrate instead")
		}
		if err := database.AutoMigrate(db, logger); err != nil {
			logger.Fatal("Failed to run AutoMigrate", zap.Error(err))
		}
	}

	// Magic-link tokens and webhook locks live in Redis when it is enabled.
	var (
		tokenStore magiclink.Store
		locker     lock.Locker
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		tokenStore = cache.NewRedisStore(redisClient)
		locker = lock.NewRedisLocker(redisClient)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		logger.Warn("Redis disabled, using in-process token store and locks")
		memStore := cache.NewMemoryStore()
		defer memStore.Close()
		tokenStore = memStore
		locker = lock.NewLocalLocker()
	}

	var objectStore document.ObjectStore
	minioClient, err := storage.NewMinIOClient(context.Background(), &cfg.Storage)
	if err != nil {
		logger.Warn("Object storage unavailable, documents keep text content only", zap.Error(err))
	} else {
		objectStore = minioClient
		checks["storage"] = minioClient.Ping
	}

	contextCache, err := cache.NewContextCache(contextCacheSize, cfg.Assistant.ContextCacheTTL)
	if err != nil {
		logger.Fatal("Failed to create context cache", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	chatRepo := repository.NewChatRepository(db)

	var transcriber aiuse.Transcriber
	if cfg.Assembly.APIKey != "" {
		transcriber = pkgai.NewTranscriber(&cfg.Assembly, logger)
	}
	llmClient := pkgai.NewClient(&cfg.LLM, logger)
	aiService := aiuse.NewAIService(llmClient, transcriber, cfg.Assistant.OwnerName, cfg.LLM.MaxTokens, logger)

	jwtManager := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	authService := auth.NewService(
		userRepo,
		sessionRepo,
		magiclink.NewManager(tokenStore, cfg.Auth.MagicLinkTTL),
		mailer.New(&cfg.SMTP, logger),
		jwtManager,
		cfg.Server.AppBaseURL,
		cfg.Auth.AllowedEmails,
		logger,
	)

	meetingService := meeting.NewMeetingService(meetingRepo, taskRepo, aiService, contextCache, logger)
	taskService := task.NewService(taskRepo, meetingRepo, contextCache, logger)
	documentService := document.NewService(documentRepo, objectStore, contextCache, cfg.Storage.MaxUploadBytes, logger)
	noteService := note.NewService(noteRepo)
	chatService := chat.NewService(
		aiService,
		chat.NewContextBuilder(meetingRepo, taskRepo, documentRepo, logger),
		contextCache,
		chatRepo,
		logger,
	)
	dashboardService := dashboard.NewService(meetingRepo, taskRepo, logger)
	granolaService := webhook.NewGranolaService(userRepo, meetingService, aiService, locker, cfg.Webhook.UserEmail, logger)

	if cfg.Webhook.Secret == "" {
		logger.Warn("WEBHOOK_SECRET is empty, webhook endpoints accept unauthenticated requests")
	}

	router := handler.NewRouter(
		cfg,
		handler.Handlers{
			Auth:      handler.NewAuth(authService, logger, cfg),
			Meeting:   handler.NewMeetingHandler(meetingService, logger),
			Task:      handler.NewTaskHandler(taskService, logger),
			Document:  handler.NewDocumentHandler(documentService, logger),
			Note:      handler.NewNoteHandler(noteService, logger),
			Chat:      handler.NewChatHandler(chatService, logger),
			Dashboard: handler.NewDashboardHandler(dashboardService, logger),
			Webhook:   handler.NewWebhookHandler(granolaService, logger),
		},
		httpmw.EchoAuth(authService),
		httpmw.BearerSecret(cfg.Webhook.Secret),
		checks,
	)
	router.Setup(e)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("Server stopped gracefully")
}
