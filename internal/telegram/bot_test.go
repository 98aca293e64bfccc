package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/planner"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/recipe"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/shopping"
)

func TestFormatPlanMarkdownParts(t *testing.T) {
	qty := 2.0
	plan := &planner.Plan{
		WeekStart: time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
		Meals: []planner.Meal{
			{Day: 0, MealType: recipe.MealLunch, Label: "Mon Sep 7", Recipe: recipe.Recipe{Title: "Gazpacho"}},
			{Day: 0, MealType: recipe.MealDinner, Label: "Mon Sep 7", Recipe: recipe.Recipe{Title: "Chicken Tinga"}},
		},
		ShoppingList: []shopping.LineItem{
			{Name: "tomato", Quantity: &qty, Unit: "cup"},
			{Name: "salt"},
		},
	}

	planOutput, shoppingOutput := formatPlanMarkdownParts(plan)

	if !strings.Contains(planOutput, "week of Sep 7") {
		t.Error("Missing plan header week")
	}
	if !strings.Contains(planOutput, "*Lunches*") || !strings.Contains(planOutput, "*Dinners*") {
		t.Error("Missing meal type sections")
	}
	if !strings.Contains(planOutput, "*Mon Sep 7*: Gazpacho") {
		t.Error("Missing lunch entry")
	}
	if !strings.Contains(shoppingOutput, "🛒 *Shopping List*") {
		t.Error("Missing shopping list header")
	}
	if !strings.Contains(shoppingOutput, "• tomato: 2 cup") {
		t.Error("Missing quantified shopping item")
	}
	if !strings.Contains(shoppingOutput, "• salt") {
		t.Error("Missing unquantified shopping item")
	}
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name string
		text string
		want planner.Request
	}{
		{
			name: "all three counts",
			text: "3 breakfasts, 5 lunches and 4 dinners please",
			want: planner.Request{Breakfasts: 3, Lunches: 5, Dinners: 4},
		},
		{
			name: "dinners only",
			text: "plan 6 dinners",
			want: planner.Request{Dinners: 6},
		},
		{
			name: "no counts falls back to work week",
			text: "plan my week",
			want: planner.Request{Lunches: 5, Dinners: 5},
		},
		{
			name: "mixed case",
			text: "2 Breakfasts and 3 DINNERS",
			want: planner.Request{Breakfasts: 2, Dinners: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRequest(tt.text)
			got.WeekOf = time.Time{}
			if got != tt.want {
				t.Errorf("ParseRequest(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}
