package telegram

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/app"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/clipper"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/config"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/metrics"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/planner"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/recipe"
)

// Bot wraps the Telegram API around the planner app and the clipper.
type Bot struct {
	api          *tgbotapi.BotAPI
	app          *app.App
	clipper      *clipper.Clipper
	planRepo     *planner.PlanRepository
	metricsStore *metrics.Store
	cfg          *config.Config
	log          *zap.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	log *zap.Logger,
	application *app.App,
	clip *clipper.Clipper,
	planRepo *planner.PlanRepository,
	metricsStore *metrics.Store,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Info("webhook set", zap.String("response", resp.Description))

	return &Bot{
		api:          api,
		app:          application,
		clipper:      clip,
		planRepo:     planRepo,
		metricsStore: metricsStore,
		cfg:          cfg,
		log:          log,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.log.Warn("failed to parse update", zap.Error(err))
		return
	}

	if update.CallbackQuery != nil {
		if b.isAllowed(update.CallbackQuery.From.ID) {
			b.handleCallbackQuery(update.CallbackQuery)
		}
		return
	}

	if update.Message == nil {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		b.log.Warn("unauthorized access attempt",
			zap.Int64("user_id", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName))
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) isAllowed(userID int64) bool {
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	if msg.Text == "/metrics" {
		b.handleMetricsRequest(msg)
		return
	}

	// URLs go to the clipper; everything else is a plan request.
	if strings.HasPrefix(msg.Text, "http://") || strings.HasPrefix(msg.Text, "https://") {
		b.handleClipperRequest(msg)
		return
	}

	b.handlePlannerRequest(msg)
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ *Access Denied*: Admin only."))
		return
	}
	b.handleMetricsCommand(msg.Chat.ID)
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	statusText := "✂️ *Clipping recipe...* \n(Extracting and saving to the catalog)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		b.log.Warn("failed to send initial reply", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	rec, err := b.clipper.ClipURL(ctx, msg.Text)
	var finalText string
	if err != nil {
		b.log.Warn("failed to clip recipe", zap.String("url", msg.Text), zap.Error(err))
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error clipping recipe:*\n```\n%v\n```", safeErr)
	} else {
		finalText = fmt.Sprintf("✅ *Recipe Saved!*\n\n*Title:* %s\n*Type:* %s\n*Cuisine:* %s",
			rec.Title, rec.MealType, rec.Cuisine)
	}
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handlePlannerRequest(msg *tgbotapi.Message) {
	statusText := "🧑‍🍳 *Thinking...* \n(Selecting recipes and building your plan)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		b.log.Warn("failed to send initial reply", zap.Error(err))
		return
	}

	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)
	nextMonday := planner.NextMonday(time.Now())

	exists, _ := b.planRepo.ExistsForWeek(ctx, userID, nextMonday)
	if exists {
		promptText := fmt.Sprintf("🗓️ A plan already exists for next week (starting *%s*).\nWhat would you like to do?", nextMonday.Format("2006-01-02"))

		// Callback data is capped at 64 bytes; keep only the counts.
		shortReq := msg.Text
		if len(shortReq) > 32 {
			shortReq = shortReq[:32]
		}

		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🔄 Redo Next Week", "redo|"+shortReq),
				tgbotapi.NewInlineKeyboardButtonData("⏭️ Plan Following Week", "next|"+shortReq),
			),
		)

		edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, promptText)
		edit.ParseMode = "Markdown"
		edit.ReplyMarkup = &keyboard
		b.api.Send(edit)
		return
	}

	b.generateAndSendPlan(ctx, userID, msg.Chat.ID, sentMsg.MessageID, msg.Text, nextMonday)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	userID := fmt.Sprintf("%d", query.From.ID)

	parts := strings.Split(query.Data, "|")
	if len(parts) < 2 {
		return
	}
	action, request := parts[0], parts[1]

	var targetWeek time.Time
	if action == "redo" {
		targetWeek = planner.NextMonday(time.Now())
	} else {
		targetWeek = planner.NextMonday(time.Now()).AddDate(0, 0, 7)
	}

	// Answer callback to remove the spinner.
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, "🧑‍🍳 *Thinking...*")
	edit.ParseMode = "Markdown"
	b.api.Send(edit)

	b.generateAndSendPlan(ctx, userID, query.Message.Chat.ID, query.Message.MessageID, request, targetWeek)
}

func (b *Bot) generateAndSendPlan(ctx context.Context, userID string, chatID int64, messageID int, request string, targetWeek time.Time) {
	req := ParseRequest(request)
	req.WeekOf = targetWeek

	plan, err := b.app.GeneratePlan(ctx, userID, req)
	if err != nil {
		b.log.Warn("failed to generate plan", zap.String("user_id", userID), zap.Error(err))
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText := fmt.Sprintf("❌ *Error generating plan:*\n```\n%v\n```", safeErr)
		edit := tgbotapi.NewEditMessageText(chatID, messageID, finalText)
		edit.ParseMode = "Markdown"
		b.api.Send(edit)
		return
	}

	planText, shoppingListText := formatPlanMarkdownParts(plan)

	edit := tgbotapi.NewEditMessageText(chatID, messageID, planText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)

	shoppingMsg := tgbotapi.NewMessage(chatID, shoppingListText)
	shoppingMsg.ParseMode = "Markdown"
	b.api.Send(shoppingMsg)
}

var countPattern = regexp.MustCompile(`(\d+)\s*(breakfast|lunch|dinner)`)

// ParseRequest extracts meal counts from a free-form message like
// "3 breakfasts, 5 lunches and 5 dinners". Messages that name no counts
// fall back to a standard work week of lunches and dinners.
func ParseRequest(text string) planner.Request {
	var req planner.Request
	matched := false
	for _, m := range countPattern.FindAllStringSubmatch(strings.ToLower(text), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		matched = true
		switch m[2] {
		case "breakfast":
			req.Breakfasts = n
		case "lunch":
			req.Lunches = n
		case "dinner":
			req.Dinners = n
		}
	}
	if !matched {
		req.Lunches = 5
		req.Dinners = 5
	}
	return req
}

func formatPlanMarkdownParts(plan *planner.Plan) (string, string) {
	var pb strings.Builder
	pb.WriteString(fmt.Sprintf("📅 *Meal Plan* for the week of %s\n", plan.WeekStart.Format("Jan 2")))

	var lastType string
	for _, m := range plan.Meals {
		if string(m.MealType) != lastType {
			lastType = string(m.MealType)
			pb.WriteString(fmt.Sprintf("\n*%s*\n", sectionHeading(m.MealType)))
		}
		pb.WriteString(fmt.Sprintf("• *%s*: %s\n", m.Label, m.Recipe.Title))
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")
	for _, item := range plan.ShoppingList {
		sb.WriteString(fmt.Sprintf("• %s\n", app.FormatLineItem(item)))
	}

	return pb.String(), sb.String()
}

func sectionHeading(mt recipe.MealType) string {
	switch mt {
	case recipe.MealBreakfast:
		return "Breakfasts"
	case recipe.MealLunch:
		return "Lunches"
	case recipe.MealDinner:
		return "Dinners"
	}
	return string(mt)
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	ctx := context.Background()

	daily, err := b.metricsStore.GetDailyGenerations(ctx, 7)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Error fetching metrics."))
		return
	}

	health := metrics.GetSysHealth("data")

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Plan Generations*\n")
	if len(daily) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range daily {
		sb.WriteString(fmt.Sprintf("• *%s*: %d ok / %d failed\n", d.Date, d.Succeeded, d.Failed))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}
