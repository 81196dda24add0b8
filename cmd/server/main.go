// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iyunix/go-kanoon/internal/auth"
	"github.com/iyunix/go-kanoon/internal/catalog"
	"github.com/iyunix/go-kanoon/internal/config"
	"github.com/iyunix/go-kanoon/internal/database"
	"github.com/iyunix/go-kanoon/internal/handlers"
	"github.com/iyunix/go-kanoon/internal/jobs"
	"github.com/iyunix/go-kanoon/internal/ratelimit"
	chatrepo "github.com/iyunix/go-kanoon/internal/repository/chat"
	connrepo "github.com/iyunix/go-kanoon/internal/repository/connection"
	docrepo "github.com/iyunix/go-kanoon/internal/repository/document"
	"github.com/iyunix/go-kanoon/internal/repository/message"
	"github.com/iyunix/go-kanoon/internal/repository/reset"
	userrepo "github.com/iyunix/go-kanoon/internal/repository/user"
	"github.com/iyunix/go-kanoon/internal/services"
	"github.com/iyunix/go-kanoon/internal/services/ai"
	"github.com/iyunix/go-kanoon/internal/services/chat"
	"github.com/iyunix/go-kanoon/internal/services/documents"
	"github.com/iyunix/go-kanoon/internal/services/email"
	"github.com/iyunix/go-kanoon/internal/services/kanoon"
	"github.com/iyunix/go-kanoon/internal/services/lawyers"
	"github.com/iyunix/go-kanoon/internal/services/user_services"
	"github.com/iyunix/go-kanoon/internal/storage"
	"github.com/iyunix/go-kanoon/web"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cfg := config.Load()

	logger := services.NewLogger("kanoon")
	defer func() { _ = logger.Sync() }()

	// --- Database ---
	startCtx, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	db, err := database.Open(startCtx, database.Options{
		Driver:      cfg.DBDriver,
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
		Debug:       cfg.LogLevel == "debug",
	})
	cancelStart()
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}
	defer sqlDB.Close()

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	resetRepo := reset.NewGormResetRepository(db)
	sessionRepo := chatrepo.NewSessionRepository(db)
	messageRepo := message.NewMessageRepository(db)
	documentRepo := docrepo.NewDocumentRepository(db)
	connectionRepo := connrepo.NewConnectionRepository(db)

	// --- Storage ---
	var store storage.Store
	switch cfg.StorageBackend {
	case "minio":
		store, err = storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	default:
		store, err = storage.NewLocalStore(cfg.UploadFolder)
	}
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize %s storage: %v", cfg.StorageBackend, err)
	}

	// --- Token revocation ---
	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.RedisAddr != "" {
		redisRevoker := auth.NewRedisRevoker(cfg.RedisAddr, cfg.RedisPassword)
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisRevoker.Ping(pingCtx); err != nil {
			logger.Warn("redis unavailable, falling back to in-memory token revocation", "addr", cfg.RedisAddr, "error", err)
			_ = redisRevoker.Close()
		} else {
			revoker = redisRevoker
			defer redisRevoker.Close()
		}
		cancelPing()
	}

	// --- AI + legal search ---
	aiCfg := ai.DefaultConfig()
	aiCfg.APIKey = cfg.LLMAPIKey
	aiCfg.BaseURL = cfg.LLMBaseURL
	aiCfg.Model = cfg.LLMModel
	aiCfg.Timeout = cfg.LLMTimeout
	llm, err := ai.NewOpenAIProvider(aiCfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI provider: %v", err)
	}

	kanoonCfg := kanoon.DefaultConfig()
	kanoonCfg.APIKey = cfg.KanoonAPIKey
	kanoonCfg.BaseURL = cfg.KanoonBaseURL
	kanoonClient, err := kanoon.NewClient(kanoonCfg, logger.With("component", "kanoon"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Indian Kanoon client: %v", err)
	}
	if !kanoonClient.Enabled() {
		logger.Warn("INDIAN_KANOON_API_KEY not set; chat answers will not cite search results")
	}

	// --- Services ---
	mailCfg := email.DefaultConfig()
	mailCfg.APIKey = cfg.SendGridAPIKey
	mailCfg.FromAddress = cfg.MailFrom
	mailCfg.FromName = cfg.MailFromName
	var mailProvider email.Provider
	if cfg.SendGridAPIKey != "" {
		sg, err := email.NewSendGridProvider(mailCfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize SendGrid: %v", err)
		}
		mailProvider = sg
	} else {
		logger.Warn("SENDGRID_API_KEY not set; password reset codes are written to the log")
		mailProvider = email.NewLogProvider(logger.With("component", "mail"))
	}
	mailer := email.NewService(mailProvider, mailCfg, logger.With("component", "mail"))

	userLogger := logger.With("component", "users")
	lockout := user_services.NewLockoutService(userLogger)
	authService := user_services.NewAuthService(userRepo, revoker, lockout, cfg.JWTSecretKey, cfg.JWTExpiry, userLogger)
	userService := user_services.NewUserService(userRepo, userLogger)
	resetService := user_services.NewPasswordResetService(userRepo, resetRepo, mailer, userLogger)

	chatCfg := chat.DefaultConfig()
	chatCfg.LLMTimeout = cfg.LLMTimeout
	chatService, err := chat.NewService(chatCfg, sessionRepo, messageRepo, llm, kanoonClient, logger.With("component", "chat"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	docCfg := documents.DefaultConfig()
	docCfg.MaxFileSize = int64(cfg.MaxFileSizeMB) << 20
	docCfg.AllowedExtensions = cfg.AllowedExtensions
	docLogger := logger.With("component", "documents")
	documentService := documents.NewService(docCfg, documentRepo, store, llm, docLogger)

	cat := catalog.MustLoad()
	lawyerService := lawyers.NewService(userRepo, connectionRepo, cat, logger.With("component", "lawyers"))

	// --- Background jobs ---
	scheduler, err := jobs.NewScheduler(documents.NewReaper(documentRepo, docLogger), resetService, logger.With("component", "jobs"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize scheduler: %v", err)
	}
	scheduler.Start()

	// --- Handlers ---
	handlerLogger := logger.With("component", "http")
	pageHandler, err := handlers.NewPageHandler(web.Templates)
	if err != nil {
		log.Fatalf("FATAL: Failed to parse templates: %v", err)
	}
	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	resetLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.StrictAuthConfig())
	secureCookie := cfg.IsProduction()
	trustedProxies, err := ratelimit.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("FATAL: Invalid TRUSTED_PROXIES: %v", err)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:           handlers.NewAuthHandler(authService, userService, resetService, secureCookie, handlerLogger),
		Chat:           handlers.NewChatHandler(chatService, cat, handlerLogger),
		Documents:      handlers.NewDocumentHandler(documentService, docCfg.MaxFileSize, handlerLogger),
		Lawyers:        handlers.NewLawyerHandler(lawyerService, handlerLogger),
		Health:         handlers.NewHealthHandler(sqlDB, handlerLogger),
		Log:            handlers.NewLogHandler(logger.With("component", "frontend")),
		Pages:          pageHandler,
		Authenticator:  authService,
		SecureCookie:   secureCookie,
		CORSOrigins:    cfg.CORSOrigins,
		AuthLimiter:    authLimiter,
		ResetLimiter:   resetLimiter,
		TrustedProxies: trustedProxies,
		Static:         web.Static(),
	})

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:              port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("==================================================")
	log.Printf("Kanoon Sahayak - Indian legal assistant v%s", handlers.Version)
	log.Printf("==================================================")
	log.Printf("Server starting on port %s (env=%s, db=%s, storage=%s)", port, cfg.Environment, cfg.DBDriver, cfg.StorageBackend)
	log.Printf("Local access: http://localhost%s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
	scheduler.Stop()
	authLimiter.Close()
	resetLimiter.Close()
	log.Println("Server stopped gracefully")
}
