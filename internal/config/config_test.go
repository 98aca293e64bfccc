package config

import (
	"os"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		os.Unsetenv("DATABASE_PATH")
		os.Unsetenv("LOG_LEVEL")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/planner.db" {
			t.Errorf("Expected default DatabasePath 'data/planner.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Expected default LogLevel 'info', got '%s'", cfg.LogLevel)
		}
	})

	t.Run("AdminKeyFallsBackToContentKey", func(t *testing.T) {
		t.Setenv("GHOST_CONTENT_API_KEY", "content_key")
		os.Unsetenv("GHOST_ADMIN_API_KEY")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GhostAdminKey != "content_key" {
			t.Errorf("Expected GhostAdminKey to fall back to 'content_key', got '%s'", cfg.GhostAdminKey)
		}
	})

	t.Run("AllowedUserIDs", func(t *testing.T) {
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "123, 456,789")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(cfg.TelegramAllowedUserIDs) != 3 {
			t.Fatalf("Expected 3 allowed user IDs, got %d", len(cfg.TelegramAllowedUserIDs))
		}
		if cfg.TelegramAllowedUserIDs[1] != 456 {
			t.Errorf("Expected second allowed ID 456, got %d", cfg.TelegramAllowedUserIDs[1])
		}
	})

	t.Run("InvalidAllowedUserIDs", func(t *testing.T) {
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "123,abc")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid allowed user IDs, got nil")
		}
	})
}

func TestRequireHelpers(t *testing.T) {
	t.Run("MissingGhostURL", func(t *testing.T) {
		os.Unsetenv("GHOST_API_URL")
		t.Setenv("GHOST_CONTENT_API_KEY", "content_key")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := cfg.RequireGhost(); err == nil {
			t.Fatal("Expected an error for missing GHOST_API_URL, got nil")
		}
	})

	t.Run("LLMEitherProviderSuffices", func(t *testing.T) {
		os.Unsetenv("GEMINI_API_KEY")
		t.Setenv("GROQ_API_KEY", "groq_key")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := cfg.RequireLLM(); err != nil {
			t.Errorf("Expected RequireLLM to pass with only Groq configured, got %v", err)
		}
	})

	t.Run("LLMNoneConfigured", func(t *testing.T) {
		os.Unsetenv("GEMINI_API_KEY")
		os.Unsetenv("GROQ_API_KEY")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := cfg.RequireLLM(); err == nil {
			t.Fatal("Expected an error with no LLM provider configured, got nil")
		}
	})

	t.Run("MissingTelegramToken", func(t *testing.T) {
		os.Unsetenv("TELEGRAM_BOT_TOKEN")
		t.Setenv("TELEGRAM_WEBHOOK_URL", "https://bot.test/webhook")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := cfg.RequireTelegram(); err == nil {
			t.Fatal("Expected an error for missing TELEGRAM_BOT_TOKEN, got nil")
		}
	})
}
