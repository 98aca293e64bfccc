package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the application. Everything is read from
// the environment; mains load a .env file first via godotenv.
type Config struct {
	DatabasePath string
	LogLevel     string

	// Recipe blog (ingestion source and plan publishing target)
	GhostURL        string
	GhostContentKey string
	GhostAdminKey   string

	// LLM providers for recipe normalization
	GeminiAPIKey string
	GroqAPIKey   string

	// Telegram
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables. Only the
// universally needed values are validated here; command-specific requirements
// are checked by the Require* helpers.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		DatabasePath:       os.Getenv("DATABASE_PATH"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		GhostURL:           os.Getenv("GHOST_API_URL"),
		GhostContentKey:    os.Getenv("GHOST_CONTENT_API_KEY"),
		GhostAdminKey:      os.Getenv("GHOST_ADMIN_API_KEY"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "data/planner.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.GhostAdminKey == "" {
		// Fallback to content key if only one is provided
		cfg.GhostAdminKey = cfg.GhostContentKey
	}

	if idsStr := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); idsStr != "" {
		for _, part := range strings.Split(idsStr, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
			}
			cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
		}
	}
	if adminStr := os.Getenv("ADMIN_TELEGRAM_ID"); adminStr != "" {
		id, err := strconv.ParseInt(adminStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID %q: %w", adminStr, err)
		}
		cfg.AdminTelegramID = id
	}

	return cfg, nil
}

// RequireGhost verifies the blog credentials needed for ingestion and
// publishing.
func (c *Config) RequireGhost() error {
	if c.GhostURL == "" {
		return fmt.Errorf("GHOST_API_URL environment variable not set")
	}
	if c.GhostContentKey == "" {
		return fmt.Errorf("GHOST_CONTENT_API_KEY environment variable not set")
	}
	return nil
}

// RequireLLM verifies that at least one normalization provider is configured.
func (c *Config) RequireLLM() error {
	if c.GeminiAPIKey == "" && c.GroqAPIKey == "" {
		return fmt.Errorf("neither GEMINI_API_KEY nor GROQ_API_KEY environment variable is set")
	}
	return nil
}

// RequireTelegram verifies the bot credentials.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}
