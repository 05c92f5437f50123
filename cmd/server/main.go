package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/React-ChatBotify/rag-api-sub000/internal/adapter/ai"
	"github.com/React-ChatBotify/rag-api-sub000/internal/adapter/store"
	"github.com/React-ChatBotify/rag-api-sub000/internal/adapter/vcs"
	"github.com/React-ChatBotify/rag-api-sub000/internal/chunker"
	"github.com/React-ChatBotify/rag-api-sub000/internal/handler"
	"github.com/React-ChatBotify/rag-api-sub000/internal/mcp"
	"github.com/React-ChatBotify/rag-api-sub000/internal/middleware"
	"github.com/React-ChatBotify/rag-api-sub000/internal/service"
	"github.com/React-ChatBotify/rag-api-sub000/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting RAG API",
		"port", cfg.Port,
		"ollama_embed", cfg.OllamaEmbedURL,
		"ollama_chat", cfg.OllamaChatURL,
		"mcp_enabled", cfg.MCPEnabled,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgStore.Init(initCtx, cfg.EmbeddingDimension); err != nil {
		cancel()
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	cancel()

	vectorStore := store.NewVectorStore(pgStore, cfg.EmbeddingDimension)

	// ── Adapters ─────────────────────────────────────────────────────────
	ollamaAI := ai.NewOllamaProvider(
		ai.OllamaEndpointConfig{
			BaseURL: cfg.OllamaEmbedURL,
			Model:   cfg.OllamaEmbedModel,
			Token:   cfg.OllamaEmbedToken,
		},
		ai.OllamaEndpointConfig{
			BaseURL: cfg.OllamaChatURL,
			Model:   cfg.OllamaChatModel,
			Token:   cfg.OllamaChatToken,
		},
	)

	// ── Services ─────────────────────────────────────────────────────────
	documentService := service.NewDocumentService(ollamaAI, vectorStore, pgStore, chunker.New())
	ragService := service.NewRAGService(ollamaAI, vectorStore, cfg.TopK)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-API-Key"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	// Audit middleware (logs all requests)
	app.Use(middleware.AuditMiddleware(pgStore))

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	// ── Protected Routes ─────────────────────────────────────────────────
	api := app.Group("/api/v1", middleware.APIKeyMiddleware(cfg.APIKeys))

	documentHandler := handler.NewDocumentHandler(documentService)
	documentHandler.Register(api)

	queryHandler := handler.NewQueryHandler(ragService, cfg.WindowSize)
	queryHandler.Register(api)

	auditHandler := handler.NewAuditHandler(pgStore)
	auditHandler.Register(api)

	// ── Git corpus sync ──────────────────────────────────────────────────
	if cfg.SyncRepoURL != "" {
		gitSource := vcs.NewGitSource(cfg.SyncRepoURL, cfg.SyncBranch, cfg.SyncBasePath)
		syncService := service.NewSyncService(gitSource, documentService)

		jobTracker := handler.NewJobTracker()
		syncHandler := handler.NewSyncHandler(syncService, jobTracker)
		syncHandler.Register(api)

		jobsHandler := handler.NewJobsHandler(jobTracker)
		jobsHandler.Register(api)

		if cfg.SyncInterval > 0 {
			interval := time.Duration(cfg.SyncInterval) * time.Minute
			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					jobID := syncHandler.Start()
					slog.Info("scheduled sync started", "job_id", jobID)
					<-ticker.C
				}
			}()
		}
	}

	// ── MCP Server (separate port) ───────────────────────────────────────
	if cfg.MCPEnabled {
		mcpServer := mcp.NewServer(ragService, documentService, cfg.MCPPort)
		go func() {
			if err := mcpServer.Start(); err != nil {
				slog.Error("MCP server failed", "error", err)
			}
		}()
	}

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
