package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/app"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/clipper"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/config"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/database"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/ghost"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/history"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/llm"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/logging"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/metrics"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/planner"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/recipe"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Missing telegram configuration: %v", err)
	}
	if err := cfg.RequireLLM(); err != nil {
		log.Fatalf("Missing LLM configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	catalog := recipe.NewRepository(db.SQL)
	historyStore := history.NewStore(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	var textGen llm.TextGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Fatal("failed to create Gemini client", zap.Error(err))
		}
		defer geminiClient.Close()
		textGen = geminiClient
	} else {
		textGen = llm.NewGroqClient(cfg.GroqAPIKey)
	}

	var ghostClient ghost.Client
	if err := cfg.RequireGhost(); err == nil {
		ghostClient = ghost.NewClient(cfg.GhostURL, cfg.GhostContentKey, cfg.GhostAdminKey)
	} else {
		logger.Warn("blog not configured, ingestion and publishing disabled", zap.Error(err))
	}

	application := app.New(cfg, logger, ghostClient, textGen, catalog, historyStore,
		planner.NewPlanner(nil), planRepo, metricsStore)
	recipeClipper := clipper.NewClipper(catalog, textGen, logger)

	bot, err := telegram.NewBot(cfg, logger, application, recipeClipper, planRepo, metricsStore)
	if err != nil {
		logger.Fatal("failed to initialize telegram bot", zap.Error(err))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		logger.Info("telegram bot server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
