// @title           Unreal Studio Site API
// @version         1.0.0
// @description     Backend for the Unreal Studio landing page, blog and back office. Content is read from the hosted data service and falls back to static copy when it is unavailable.

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
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"unreal-studio/internal/config"
	"unreal-studio/internal/database"
	"unreal-studio/internal/handlers"
	"unreal-studio/internal/middleware"
	"unreal-studio/internal/services"
	"unreal-studio/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, migrations will be skipped")
	} else {
		runMigrations(ctx, cfg.DatabaseURL, logger)
	}

	client, err := supabase.NewClient(cfg.ClientConfig(), supabase.WithLogger(logger))
	if err != nil {
		logger.Error("Failed to initialize Supabase client", slog.Any("error", err))
		os.Exit(1)
	}

	site, err := services.NewSiteService(client, logger)
	if err != nil {
		logger.Error("Failed to load fallback content", slog.Any("error", err))
		os.Exit(1)
	}
	siteHandler := handlers.NewSiteHandler(site)
	adminHandler := handlers.NewAdminHandler(services.NewAdminService(client, cfg.SupabaseStorageBucket))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api/v1")

	// Public pages
	api.GET("/landing/metrics", siteHandler.Metrics)
	api.GET("/landing/projects", siteHandler.Projects)
	api.GET("/blog/posts", siteHandler.BlogPosts)
	api.POST("/leads", siteHandler.SubmitLead)

	// Back office
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.GET("/leads", adminHandler.ListLeads)
	admin.DELETE("/leads/:id", adminHandler.DeleteLead)
	admin.PATCH("/projects/:id", adminHandler.SetProjectPublished)
	admin.POST("/images", adminHandler.UploadImage)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", slog.Any("error", err))
		}
	}()

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("environment", cfg.Environment))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to start server", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

// runMigrations applies pending schema migrations. Failures are logged and
// the server keeps running on whatever schema exists.
func runMigrations(ctx context.Context, dbURL string, logger *slog.Logger) {
	migrator, err := database.NewMigrator(ctx, dbURL, logger)
	if err != nil {
		logger.Warn("Failed to initialize migrator", slog.Any("error", err))
		return
	}
	defer migrator.Close()

	applied, err := migrator.Run(ctx)
	if err != nil {
		logger.Warn("Migration failed", slog.Any("error", err))
		return
	}
	logger.Info("Migrations completed", slog.Int("applied", len(applied)))
}
