package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"chatdesk/internal/config"
	"chatdesk/internal/domain/repositories"
	"chatdesk/internal/handler"
	"chatdesk/internal/llm"
	"chatdesk/internal/llm/anthropic"
	"chatdesk/internal/llm/scripted"
	"chatdesk/internal/middleware"
	"chatdesk/internal/prompts"
	"chatdesk/internal/repository/memory"
	"chatdesk/internal/repository/postgres"
	authsvc "chatdesk/internal/service/auth"
	chatsvc "chatdesk/internal/service/chat"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOut := os.Stdout
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Backing stores: postgres when configured, in-memory otherwise
	var (
		userRepo repositories.UserRepository
		docRepo  repositories.DocumentRepository
		convRepo repositories.ConversationRepository
	)
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.Migrate(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Info("database connected")

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		userRepo = postgres.NewUserRepository(repoConfig)
		docRepo = postgres.NewDocumentRepository(repoConfig)
		convRepo = postgres.NewConversationRepository(repoConfig)
	} else {
		if cfg.IsProduction() {
			log.Fatal("DATABASE_URL is required in production")
		}
		logger.Warn("no DATABASE_URL set, using in-memory stores (data is lost on restart)")
		store := memory.NewStore()
		userRepo, docRepo, convRepo = store, store, store
	}

	// Session tokens
	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			log.Fatal("JWT_SECRET is required in production")
		}
		logger.Warn("no JWT_SECRET set, using an insecure dev secret")
		secret = "chatdesk-dev-secret"
	}
	tokens, err := authsvc.NewTokenService(secret, config.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	// Completion provider: Anthropic when a key is present, scripted otherwise
	var provider llm.CompletionProvider
	if cfg.AnthropicAPIKey != "" {
		provider, err = anthropic.NewProvider(cfg.AnthropicAPIKey)
		if err != nil {
			log.Fatalf("Failed to create completion provider: %v", err)
		}
	} else {
		if cfg.IsProduction() {
			log.Fatal("ANTHROPIC_API_KEY is required in production")
		}
		logger.Warn("no ANTHROPIC_API_KEY set, using scripted replies")
		provider = scripted.NewProvider("(scripted reply - set ANTHROPIC_API_KEY for real completions)")
	}

	promptRegistry, err := prompts.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load prompt registry: %v", err)
	}

	// Services
	authService := authsvc.NewService(userRepo, tokens, logger)
	chatService := chatsvc.NewService(
		docRepo,
		convRepo,
		provider,
		promptRegistry,
		cfg.Model,
		cfg.ProviderTimeout,
		logger,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, config.SessionTTL, cfg.IsProduction(), logger)
	chatHandler := handler.NewChatHandler(chatService, logger)
	authMw := middleware.NewAuth(authService, logger)

	logger.Info("services initialized", "provider", provider.Name(), "model", cfg.Model)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("GET /api/auth/user", authMw.RequireAuth(http.HandlerFunc(authHandler.CurrentUser)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	// Chat routes
	mux.Handle("GET /api/chat", authMw.RequireAuth(http.HandlerFunc(chatHandler.History)))
	mux.Handle("POST /api/chat", authMw.RequireAuth(http.HandlerFunc(chatHandler.Send)))

	// Build middleware chain; CORS outermost to handle OPTIONS pre-flight
	var root http.Handler = mux
	root = middleware.Recovery(logger)(root)
	root = middleware.RequestLogger(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ProviderTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
