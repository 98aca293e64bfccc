package recipe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/ghost"
)

// mockTextGenerator is a mock implementation of the llm.TextGenerator interface.
type mockTextGenerator struct {
	response    string
	shouldError bool
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if m.shouldError {
		return "", errors.New("LLM error")
	}
	return m.response, nil
}

func TestNormalizeHTML(t *testing.T) {
	ctx := context.Background()
	post := ghost.Post{
		ID:        "abc123",
		Title:     "Huevos Rancheros",
		HTML:      "<h1>Huevos Rancheros</h1><p>Ingredients: ...</p>",
		URL:       "https://blog.test/huevos-rancheros",
		UpdatedAt: "2026-08-01T00:00:00Z",
	}

	t.Run("Success", func(t *testing.T) {
		mock := &mockTextGenerator{
			response: `{
				"title": "Huevos Rancheros",
				"summary": "Fried eggs over tortillas with salsa.",
				"meal_type": "Breakfast",
				"cuisine": "Mexican",
				"protein": "none",
				"servings": 2,
				"ingredients": [
					{"name": "eggs", "quantity": 4, "unit": ""},
					{"name": "corn tortillas", "quantity": 2, "unit": ""},
					{"name": "salt"}
				]
			}`,
		}

		rec, err := NormalizeHTML(ctx, mock, post)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if rec.ID != "abc123" {
			t.Errorf("Expected ID 'abc123', got '%s'", rec.ID)
		}
		if rec.MealType != MealBreakfast {
			t.Errorf("Expected meal type breakfast, got '%s'", rec.MealType)
		}
		if rec.Cuisine != "mexican" {
			t.Errorf("Expected cuisine 'mexican', got '%s'", rec.Cuisine)
		}
		if len(rec.Ingredients) != 3 {
			t.Errorf("Expected 3 ingredients, got %d", len(rec.Ingredients))
		}
		if rec.Ingredients[0].Quantity == nil || *rec.Ingredients[0].Quantity != 4 {
			t.Errorf("Expected eggs quantity 4, got %v", rec.Ingredients[0].Quantity)
		}
		if rec.Ingredients[2].Quantity != nil {
			t.Errorf("Expected salt to have no quantity, got %v", *rec.Ingredients[2].Quantity)
		}
		if rec.URL != post.URL {
			t.Errorf("Expected URL '%s', got '%s'", post.URL, rec.URL)
		}
	})

	t.Run("UnknownMealType", func(t *testing.T) {
		mock := &mockTextGenerator{
			response: `{"title": "Mystery", "meal_type": "brunch", "cuisine": "other", "protein": "none", "ingredients": []}`,
		}

		_, err := NormalizeHTML(ctx, mock, post)
		if err == nil {
			t.Fatal("Expected an error for unknown meal type, got nil")
		}
		if !strings.Contains(err.Error(), "unknown meal type") {
			t.Errorf("Expected an unknown meal type error, got: %v", err)
		}
	})

	t.Run("LLMError", func(t *testing.T) {
		mock := &mockTextGenerator{shouldError: true}

		_, err := NormalizeHTML(ctx, mock, post)
		if err == nil {
			t.Fatal("Expected an error from the LLM client, got nil")
		}
		if !strings.HasPrefix(err.Error(), "failed to get LLM response") {
			t.Errorf("Expected a wrapped LLM error, got: %v", err)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		mock := &mockTextGenerator{response: "this is not json"}

		_, err := NormalizeHTML(ctx, mock, post)
		if err == nil {
			t.Fatal("Expected an error for invalid JSON, got nil")
		}
		if !strings.HasPrefix(err.Error(), "failed to unmarshal LLM response") {
			t.Errorf("Expected a JSON unmarshaling error, got: %v", err)
		}
	})
}
