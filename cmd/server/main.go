// @title           Brand Studio Backend API
// @version         1.0.0
// @description     Backend API for conversational brand onboarding, versioned brand profiles, AI image, speech and video generation, and a per-user file archive.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	"brand-studio-backend/docs"
	"brand-studio-backend/internal/auth"
	"brand-studio-backend/internal/config"
	"brand-studio-backend/internal/database"
	"brand-studio-backend/internal/handlers"
	"brand-studio-backend/internal/kv"
	"brand-studio-backend/internal/logger"
	"brand-studio-backend/internal/middleware"
	"brand-studio-backend/internal/providers"
	"brand-studio-backend/internal/services"
	"brand-studio-backend/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Point Swagger at the public host
	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		appLog.Fatal("DATABASE_URL is required")
	}
	db, err := database.NewClient(ctx, cfg.DatabaseURL)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db, appLog).Run(ctx); err != nil {
		appLog.Fatal("migration failed", "error", err)
	}

	var store kv.Store
	if cfg.RedisAddr != "" {
		store, err = kv.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLog.Fatal("failed to connect to redis", "error", err)
		}
	} else {
		appLog.Warn("REDIS_ADDR not set, using in-memory key-value store")
		store = kv.NewMemory()
	}
	defer store.Close()
	sealer := kv.NewSealer(cfg.SessionSecret)

	// Object storage is optional; uploads and media caching are disabled without it
	var objects services.ObjectStorage
	if sbClient, err := supabase.NewClient(cfg); err != nil {
		appLog.Warn("file storage disabled", "reason", err)
	} else if storageClient, err := supabase.NewStorageClient(sbClient); err != nil {
		appLog.Warn("file storage disabled", "reason", err)
	} else {
		objects = storageClient
	}

	registry := providers.NewRegistry(
		providers.NewOpenAIVideo(cfg.OpenAIBaseURL),
		providers.NewWaveSpeed(cfg.WaveSpeedBaseURL),
	)
	openAIClients := services.OpenAIClients{BaseURL: cfg.OpenAIBaseURL, ChatModel: cfg.OpenAIChatModel}

	apiKeys := services.NewAPIKeyService(store, sealer, map[string]string{
		"openai":    cfg.OpenAIAPIKey,
		"wavespeed": cfg.WaveSpeedAPIKey,
	})
	users := services.NewUserService(db)
	brands := services.NewBrandService(db, appLog)
	archive := services.NewArchiveService(db, objects, appLog)
	onboarding := services.NewOnboardingService(brands, db, db, apiKeys, openAIClients, appLog)
	generations := services.NewGenerationService(db, db, archive, apiKeys, openAIClients, registry, appLog)
	poller := services.NewVideoPoller(generations, db, archive, apiKeys, registry, appLog)

	sessions := auth.NewSessionStore(store, cfg.SessionTTL)
	oauth := auth.NewOAuthService(store, sealer, db, sessions, auth.OAuthOptions{
		CallbackBase: cfg.OAuthRedirectBase,
		AppBase:      cfg.AppURL,
		Fallback: map[string]auth.Credentials{
			"github":  {ClientID: cfg.GitHubClientID, ClientSecret: cfg.GitHubClientSecret},
			"discord": {ClientID: cfg.DiscordClientID, ClientSecret: cfg.DiscordClientSecret},
		},
	}, appLog)

	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(cfg, oauth, sessions, users)
	brandsHandler := handlers.NewBrandsHandler(brands, generations)
	onboardingHandler := handlers.NewOnboardingHandler(onboarding)
	generationsHandler := handlers.NewGenerationsHandler(generations, poller)
	archiveHandler := handlers.NewArchiveHandler(archive)
	adminHandler := handlers.NewAdminHandler(users, apiKeys)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(appLog))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", healthHandler.Health)

	public := router.Group("/api/v1")
	public.GET("/health", healthHandler.Health)
	public.GET("/auth/:provider/login", authHandler.Login)
	public.GET("/auth/:provider/callback", authHandler.Callback)
	public.GET("/onboarding/steps", onboardingHandler.Steps)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg, sessions))

	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/me", authHandler.Me)
	api.POST("/me/token", authHandler.IssueToken)

	api.GET("/brands", brandsHandler.ListBrands)
	api.POST("/brands", brandsHandler.CreateBrand)
	api.GET("/brands/:id", brandsHandler.GetBrand)
	api.PATCH("/brands/:id", brandsHandler.UpdateBrand)
	api.POST("/brands/:id/archive", brandsHandler.ArchiveBrand)
	api.GET("/brands/:id/versions", brandsHandler.ListVersions)
	api.POST("/brands/:id/versions/:version_id/revert", brandsHandler.RevertVersion)
	api.GET("/brands/:id/generations", brandsHandler.ListBrandGenerations)

	api.POST("/onboarding/chat", onboardingHandler.Chat)
	api.GET("/onboarding/:profile_id/messages", onboardingHandler.Messages)
	api.POST("/onboarding/:profile_id/step", onboardingHandler.SetStep)

	api.GET("/generations/models", generationsHandler.Models)
	api.POST("/generations/image", generationsHandler.GenerateImage)
	api.POST("/generations/audio", generationsHandler.GenerateAudio)
	api.POST("/generations/video", generationsHandler.GenerateVideo)
	api.GET("/generations/:id", generationsHandler.GetGeneration)
	api.GET("/generations/:id/stream", generationsHandler.StreamGeneration)

	api.GET("/archive", archiveHandler.ListFiles)
	api.POST("/archive/upload", archiveHandler.UploadFile)
	api.GET("/archive/folders", archiveHandler.Folders)
	api.PATCH("/archive/:id", archiveHandler.UpdateFile)
	api.DELETE("/archive/:id", archiveHandler.DeleteFile)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(db))
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id/role", adminHandler.SetRole)
	admin.GET("/api-keys", adminHandler.ListAPIKeys)
	admin.PUT("/api-keys/:provider", adminHandler.PutAPIKey)
	admin.DELETE("/api-keys/:provider", adminHandler.DeleteAPIKey)
	admin.PUT("/oauth/:provider", authHandler.SetOAuthCredentials)

	// No write timeout: SSE responses stay open for the length of a video job.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLog.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		appLog.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		appLog.Error("server stopped", "error", err)
	}

	onboarding.Wait()
}
