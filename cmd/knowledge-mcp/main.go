// knowledge-mcp is a standalone stdio MCP process exposing the golden
// knowledge search tool over the synced rag_knowledge collection. It is
// configured purely by environment variables so MCP clients can spawn it
// without a config file in the working directory.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/visakha-ai/visakha-admin/pkg/config"
	"github.com/visakha-ai/visakha-admin/pkg/database"
	"github.com/visakha-ai/visakha-admin/pkg/mcp"
	"github.com/visakha-ai/visakha-admin/pkg/mcp/tools"
	"github.com/visakha-ai/visakha-admin/pkg/repositories"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.LoadEnv(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// stdout carries the MCP protocol; logs must go to stderr only.
	logger, err := newStderrLogger()
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
		_ = db.Close(shutdownCtx)
	}()

	srv := mcp.NewServer("visakha-knowledge", cfg.Version, logger)
	tools.RegisterKnowledgeTools(srv.MCP(), &tools.KnowledgeToolDeps{
		Repo:   repositories.NewKnowledgeRepository(db),
		Logger: logger,
	})

	if err := srv.ServeStdio(); err != nil {
		logger.Fatal("MCP server failed", zap.Error(err))
	}
}

func newStderrLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
