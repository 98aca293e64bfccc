package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
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
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

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

	switch os.Args[1] {
	case "plan":
		runPlan(ctx, cfg, logger, catalog, historyStore, planRepo, metricsStore, os.Args[2:])
	case "ingest":
		runIngest(ctx, cfg, logger, catalog, historyStore, planRepo, metricsStore)
	case "clip":
		runClip(ctx, cfg, logger, catalog, os.Args[2:])
	case "history-cleanup":
		removed, err := historyStore.Cleanup(ctx)
		if err != nil {
			logger.Fatal("history cleanup failed", zap.Error(err))
		}
		fmt.Printf("Removed %d expired history entries.\n", removed)
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		removed, err := metricsStore.Cleanup(ctx, *days)
		if err != nil {
			logger.Fatal("metrics cleanup failed", zap.Error(err))
		}
		fmt.Printf("Removed %d old metric records.\n", removed)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runPlan(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	catalog *recipe.Repository,
	historyStore *history.Store,
	planRepo *planner.PlanRepository,
	metricsStore *metrics.Store,
	args []string,
) {
	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	breakfasts := planCmd.Int("breakfasts", 0, "Number of breakfasts to plan")
	lunches := planCmd.Int("lunches", 5, "Number of lunches to plan")
	dinners := planCmd.Int("dinners", 5, "Number of dinners to plan")
	weekOf := planCmd.String("week-of", "", "Week to plan for, YYYY-MM-DD (defaults to the current week)")
	user := planCmd.String("user", app.LocalUserID, "History key to plan against")
	publish := planCmd.Bool("publish", false, "Publish the plan to the blog")
	planCmd.Parse(args)

	req := planner.Request{Breakfasts: *breakfasts, Lunches: *lunches, Dinners: *dinners}
	if *weekOf != "" {
		t, err := time.Parse("2006-01-02", *weekOf)
		if err != nil {
			logger.Fatal("invalid -week-of value", zap.String("value", *weekOf), zap.Error(err))
		}
		req.WeekOf = t
	}

	var ghostClient ghost.Client
	if *publish {
		if err := cfg.RequireGhost(); err != nil {
			logger.Fatal("publishing requires blog credentials", zap.Error(err))
		}
		ghostClient = ghost.NewClient(cfg.GhostURL, cfg.GhostContentKey, cfg.GhostAdminKey)
	}

	application := app.New(cfg, logger, ghostClient, nil, catalog, historyStore,
		planner.NewPlanner(nil), planRepo, metricsStore)

	plan, err := application.GeneratePlan(ctx, *user, req)
	if err != nil {
		logger.Fatal("plan generation failed", zap.Error(err))
	}

	printPlan(plan)

	if *publish {
		post, err := application.PublishPlan(ctx, plan)
		if err != nil {
			logger.Fatal("failed to publish plan", zap.Error(err))
		}
		fmt.Printf("\nPublished: %s\n", post.URL)
	}
}

func runIngest(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	catalog *recipe.Repository,
	historyStore *history.Store,
	planRepo *planner.PlanRepository,
	metricsStore *metrics.Store,
) {
	if err := cfg.RequireGhost(); err != nil {
		logger.Fatal("ingestion requires blog credentials", zap.Error(err))
	}
	textGen, closeFn, err := newTextGenerator(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize text generator", zap.Error(err))
	}
	defer closeFn()

	ghostClient := ghost.NewClient(cfg.GhostURL, cfg.GhostContentKey, cfg.GhostAdminKey)
	application := app.New(cfg, logger, ghostClient, textGen, catalog, historyStore,
		planner.NewPlanner(nil), planRepo, metricsStore)

	if err := application.IngestRecipes(ctx); err != nil {
		logger.Fatal("ingestion failed", zap.Error(err))
	}
}

func runClip(ctx context.Context, cfg *config.Config, logger *zap.Logger, catalog *recipe.Repository, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: dinner-planner clip <url>")
		os.Exit(1)
	}
	textGen, closeFn, err := newTextGenerator(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize text generator", zap.Error(err))
	}
	defer closeFn()

	recipeClipper := clipper.NewClipper(catalog, textGen, logger)
	rec, err := recipeClipper.ClipURL(ctx, args[0])
	if err != nil {
		logger.Fatal("failed to clip recipe", zap.Error(err))
	}
	fmt.Printf("Saved %q (%s, %s).\n", rec.Title, rec.MealType, rec.Cuisine)
}

// newTextGenerator picks an LLM provider from the configured keys, preferring
// Gemini. The returned close func is a no-op for Groq.
func newTextGenerator(ctx context.Context, cfg *config.Config) (llm.TextGenerator, func(), error) {
	if err := cfg.RequireLLM(); err != nil {
		return nil, nil, err
	}
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil
	}
	return llm.NewGroqClient(cfg.GroqAPIKey), func() {}, nil
}

func printPlan(plan *planner.Plan) {
	fmt.Printf("Meal plan for the week of %s\n\n", plan.WeekStart.Format("January 2, 2006"))

	var lastType string
	for _, m := range plan.Meals {
		if string(m.MealType) != lastType {
			lastType = string(m.MealType)
			fmt.Printf("%s:\n", lastType)
		}
		fmt.Printf("  %-10s %s\n", m.Label, m.Recipe.Title)
	}

	fmt.Println("\nShopping list:")
	for _, item := range plan.ShoppingList {
		fmt.Printf("  %s\n", app.FormatLineItem(item))
	}
}

func printUsage() {
	fmt.Println("Usage: dinner-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan               Generate a weekly meal plan and shopping list")
	fmt.Println("  ingest             Fetch and normalize recipes from the blog")
	fmt.Println("  clip <url>         Extract a recipe from a web page into the catalog")
	fmt.Println("  history-cleanup    Remove expired usage history entries")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
