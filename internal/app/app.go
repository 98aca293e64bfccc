// Package app wires the collaborators around the planner core: catalog and
// history persistence, ingestion, publishing, and metrics.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/config"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/ghost"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/history"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/llm"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/metrics"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/planner"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/recipe"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/shopping"
)

// LocalUserID is the history key used by the CLI, which has no user accounts.
const LocalUserID = "local"

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	log          *zap.Logger
	ghostClient  ghost.Client
	textGen      llm.TextGenerator
	catalog      *recipe.Repository
	historyStore *history.Store
	planner      *planner.Planner
	planRepo     *planner.PlanRepository
	metricsStore *metrics.Store
}

// New creates and initializes a new App instance. ghostClient and textGen may
// be nil for commands that neither ingest nor publish.
func New(
	cfg *config.Config,
	log *zap.Logger,
	ghostClient ghost.Client,
	textGen llm.TextGenerator,
	catalog *recipe.Repository,
	historyStore *history.Store,
	mealPlanner *planner.Planner,
	planRepo *planner.PlanRepository,
	metricsStore *metrics.Store,
) *App {
	return &App{
		cfg:          cfg,
		log:          log,
		ghostClient:  ghostClient,
		textGen:      textGen,
		catalog:      catalog,
		historyStore: historyStore,
		planner:      mealPlanner,
		planRepo:     planRepo,
		metricsStore: metricsStore,
	}
}

// IngestRecipes fetches recipe posts from the blog, normalizes them with the
// LLM, and saves them to the catalog. Posts whose stored version is current
// are skipped.
func (a *App) IngestRecipes(ctx context.Context) error {
	posts, err := a.ghostClient.FetchRecipePosts()
	if err != nil {
		return fmt.Errorf("failed to fetch recipes from blog: %w", err)
	}
	a.log.Info("fetched recipe posts", zap.Int("count", len(posts)))

	for _, post := range posts {
		current, err := a.catalog.Exists(ctx, post.ID, post.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to check catalog for %s: %w", post.ID, err)
		}
		if current {
			a.log.Debug("recipe up to date, skipping", zap.String("title", post.Title))
			continue
		}

		start := time.Now()
		rec, err := recipe.NormalizeHTML(ctx, a.textGen, post)
		if err != nil {
			a.log.Warn("failed to normalize recipe", zap.String("title", post.Title), zap.Error(err))
			continue
		}
		_ = a.metricsStore.RecordLLM(ctx, metrics.LLMExecution{
			AgentName: "normalizer",
			Model:     "text-generator",
			LatencyMS: time.Since(start).Milliseconds(),
		})

		if err := a.catalog.Save(ctx, *rec); err != nil {
			a.log.Warn("failed to save recipe", zap.String("title", post.Title), zap.Error(err))
			continue
		}
		a.log.Info("ingested recipe",
			zap.String("id", rec.ID),
			zap.String("title", rec.Title),
			zap.String("meal_type", string(rec.MealType)))
	}

	count, err := a.catalog.Count(ctx)
	if err != nil {
		return err
	}
	a.log.Info("catalog ready", zap.Int("recipes", count))
	return nil
}

// GeneratePlan runs the planning pipeline for one user. On success the
// returned history snapshot and the plan are persisted; on failure nothing
// is persisted.
func (a *App) GeneratePlan(ctx context.Context, userID string, req planner.Request) (*planner.Plan, error) {
	start := time.Now()

	snap, err := a.historyStore.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	catalog, err := a.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := a.planner.Generate(req, catalog, snap)
	if err != nil {
		_ = a.metricsStore.RecordGeneration(ctx, metrics.PlanGeneration{
			UserID:     userID,
			Outcome:    outcomeForError(err),
			DurationMS: time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	if err := a.historyStore.Save(ctx, userID, plan.UpdatedHistory); err != nil {
		return nil, fmt.Errorf("failed to persist history: %w", err)
	}
	if err := a.planRepo.Save(ctx, userID, plan); err != nil {
		a.log.Warn("failed to save meal plan", zap.String("plan_id", plan.ID), zap.Error(err))
	}
	_ = a.metricsStore.RecordGeneration(ctx, metrics.PlanGeneration{
		UserID:     userID,
		Outcome:    "ok",
		DurationMS: time.Since(start).Milliseconds(),
	})

	a.log.Info("generated plan",
		zap.String("plan_id", plan.ID),
		zap.String("user_id", userID),
		zap.Int("meals", len(plan.Meals)),
		zap.Int("shopping_items", len(plan.ShoppingList)))
	return plan, nil
}

// PublishPlan formats the plan as HTML and publishes it to the blog.
func (a *App) PublishPlan(ctx context.Context, plan *planner.Plan) (*ghost.Post, error) {
	title := fmt.Sprintf("Meal plan for the week of %s", plan.WeekStart.Format("January 2, 2006"))
	post, err := a.ghostClient.PublishPost(title, FormatPlanHTML(plan))
	if err != nil {
		return nil, fmt.Errorf("failed to publish plan: %w", err)
	}
	a.log.Info("published plan", zap.String("post_id", post.ID), zap.String("title", post.Title))
	return post, nil
}

// FormatPlanHTML renders a plan and its shopping list as blog post HTML.
func FormatPlanHTML(plan *planner.Plan) string {
	var sb strings.Builder

	sb.WriteString("<h2>Meals</h2><ul>")
	for _, m := range plan.Meals {
		sb.WriteString(fmt.Sprintf("<li><strong>%s %s</strong>: ", m.Label, m.MealType))
		if m.Recipe.URL != "" {
			sb.WriteString(fmt.Sprintf("<a href=%q>%s</a>", m.Recipe.URL, m.Recipe.Title))
		} else {
			sb.WriteString(m.Recipe.Title)
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h2>Shopping List</h2><ul>")
	for _, item := range plan.ShoppingList {
		sb.WriteString("<li>")
		sb.WriteString(FormatLineItem(item))
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}

// FormatLineItem renders one shopping list entry for display.
func FormatLineItem(item shopping.LineItem) string {
	if item.Quantity == nil {
		return item.Name
	}
	qty := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", *item.Quantity), "0"), ".")
	if item.Unit != "" {
		return fmt.Sprintf("%s: %s %s", item.Name, qty, item.Unit)
	}
	return fmt.Sprintf("%s: %s", item.Name, qty)
}

// outcomeForError maps planner failures onto metric outcome tags.
func outcomeForError(err error) string {
	var icErr *planner.InsufficientCandidatesError
	switch {
	case errors.As(err, &icErr):
		return "insufficient_candidates"
	case errors.Is(err, planner.ErrNoRequiredCuisine):
		return "no_required_cuisine"
	default:
		return "error"
	}
}
