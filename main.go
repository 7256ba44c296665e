package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/auth"
	"github.com/visakha-ai/visakha-admin/pkg/config"
	"github.com/visakha-ai/visakha-admin/pkg/database"
	"github.com/visakha-ai/visakha-admin/pkg/handlers"
	"github.com/visakha-ai/visakha-admin/pkg/middleware"
	"github.com/visakha-ai/visakha-admin/pkg/repositories"
	"github.com/visakha-ai/visakha-admin/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.Connect(ctx, cfg.Mongo, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(shutdownCtx); err != nil {
			logger.Error("Failed to close MongoDB connection", zap.Error(err))
		}
	}()

	// Repositories
	feedbackRepo := repositories.NewFeedbackRepository(db)
	knowledgeRepo := repositories.NewKnowledgeRepository(db)
	adminUserRepo := repositories.NewAdminUserRepository(db)
	collectionRepo := repositories.NewCollectionRepository(db)
	statsRepo := repositories.NewStatsRepository(db)

	// Services
	verifier := auth.NewGoogleVerifier(cfg.Auth.GoogleClientID)
	authService := auth.NewAuthService(cfg, verifier, adminUserRepo, logger)
	feedbackService := services.NewFeedbackService(feedbackRepo, logger)
	knowledgeService := services.NewKnowledgeService(knowledgeRepo, logger)
	teamService := services.NewTeamService(adminUserRepo, logger)
	statsService := services.NewStatsService(statsRepo, logger)
	exportService := services.NewExportService(feedbackRepo, logger)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureBootstrapAdmin(seedCtx); err != nil {
		cancel()
		logger.Fatal("Failed to seed bootstrap admin", zap.Error(err))
	}
	cancel()

	// HTTP surface
	authMiddleware := auth.NewMiddleware(authService, logger)
	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, logger).RegisterRoutes(mux)
	handlers.NewFeedbackHandler(feedbackService, cfg.Pagination, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewKnowledgeHandler(knowledgeService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewTeamHandler(teamService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewStatsHandler(statsService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewDBAdminHandler(collectionRepo, cfg.Pagination, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewExportHandler(exportService, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting visakha-admin",
		zap.String("addr", addr),
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
