package clipper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/recipe"
)

// --- Mocks ---

type mockCatalog struct {
	saved       []recipe.Recipe
	shouldError bool
}

func (m *mockCatalog) Save(ctx context.Context, rec recipe.Recipe) error {
	if m.shouldError {
		return fmt.Errorf("mock save error")
	}
	m.saved = append(m.saved, rec)
	return nil
}

type mockTextGenerator struct {
	response    string
	shouldError bool
	lastPrompt  string
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.shouldError {
		return "", fmt.Errorf("mock ai error")
	}
	return m.response, nil
}

func recipePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		html := `
		<html>
			<head><script>alert('bad');</script></head>
			<body>
				<h1>Gazpacho</h1>
				<div class="ads">Buy stuff!</div>
				<p>Blend tomatoes and cucumber.</p>
				<script>more_bad_stuff()</script>
				<footer>Copyright 2026</footer>
			</body>
		</html>`
		w.Write([]byte(html))
	}
}

// --- Tests ---

func TestFetchAndCleanHTML(t *testing.T) {
	ts := httptest.NewServer(recipePage())
	defer ts.Close()

	c := NewClipper(&mockCatalog{}, &mockTextGenerator{}, zap.NewNop())
	content, err := c.fetchAndCleanHTML(ts.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(content, "Gazpacho") {
		t.Errorf("Expected content to keep the heading, got: %s", content)
	}
	if !strings.Contains(content, "Blend tomatoes") {
		t.Errorf("Expected content to keep the body text, got: %s", content)
	}
	if strings.Contains(content, "alert") || strings.Contains(content, "more_bad_stuff") {
		t.Errorf("Expected scripts to be stripped, got: %s", content)
	}
	if strings.Contains(content, "Buy stuff") {
		t.Errorf("Expected ads to be stripped, got: %s", content)
	}
	if strings.Contains(content, "Copyright") {
		t.Errorf("Expected footer to be stripped, got: %s", content)
	}
}

func TestClipURL(t *testing.T) {
	ts := httptest.NewServer(recipePage())
	defer ts.Close()

	t.Run("Success", func(t *testing.T) {
		catalog := &mockCatalog{}
		gen := &mockTextGenerator{
			response: `{
				"title": "Gazpacho",
				"summary": "Cold tomato soup.",
				"meal_type": "Lunch",
				"cuisine": "Spanish",
				"protein": "none",
				"servings": 4,
				"ingredients": [{"name": "tomatoes", "quantity": 6, "unit": ""}]
			}`,
		}

		rec, err := NewClipper(catalog, gen, zap.NewNop()).ClipURL(context.Background(), ts.URL)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if rec.ID == "" {
			t.Error("Expected a generated recipe ID")
		}
		if rec.MealType != recipe.MealLunch {
			t.Errorf("Expected meal type lunch, got '%s'", rec.MealType)
		}
		if rec.Cuisine != "spanish" {
			t.Errorf("Expected cuisine 'spanish', got '%s'", rec.Cuisine)
		}
		if rec.URL != ts.URL {
			t.Errorf("Expected source URL '%s', got '%s'", ts.URL, rec.URL)
		}
		if len(catalog.saved) != 1 {
			t.Fatalf("Expected 1 saved recipe, got %d", len(catalog.saved))
		}
		if !strings.Contains(gen.lastPrompt, "Gazpacho") {
			t.Error("Expected the prompt to include the cleaned page text")
		}
	})

	t.Run("AIError", func(t *testing.T) {
		_, err := NewClipper(&mockCatalog{}, &mockTextGenerator{shouldError: true}, zap.NewNop()).
			ClipURL(context.Background(), ts.URL)
		if err == nil {
			t.Fatal("Expected an error from the AI client, got nil")
		}
	})

	t.Run("UnknownMealType", func(t *testing.T) {
		gen := &mockTextGenerator{
			response: `{"title": "Mystery", "meal_type": "snack", "cuisine": "other", "protein": "none", "ingredients": []}`,
		}
		_, err := NewClipper(&mockCatalog{}, gen, zap.NewNop()).ClipURL(context.Background(), ts.URL)
		if err == nil {
			t.Fatal("Expected an error for unknown meal type, got nil")
		}
	})

	t.Run("SaveError", func(t *testing.T) {
		gen := &mockTextGenerator{
			response: `{"title": "Gazpacho", "meal_type": "lunch", "cuisine": "spanish", "protein": "none", "ingredients": []}`,
		}
		_, err := NewClipper(&mockCatalog{shouldError: true}, gen, zap.NewNop()).ClipURL(context.Background(), ts.URL)
		if err == nil {
			t.Fatal("Expected a save error, got nil")
		}
	})

	t.Run("FetchError", func(t *testing.T) {
		errServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer errServer.Close()

		_, err := NewClipper(&mockCatalog{}, &mockTextGenerator{}, zap.NewNop()).
			ClipURL(context.Background(), errServer.URL)
		if err == nil {
			t.Fatal("Expected a fetch error, got nil")
		}
	})
}
