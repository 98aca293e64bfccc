package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/ghost"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/llm"
)

// NormalizeHTML takes a recipe blog post and uses an LLM to normalize it into
// a structured Recipe the planner can filter on.
func NormalizeHTML(ctx context.Context, textGen llm.TextGenerator, post ghost.Post) (*Recipe, error) {
	prompt := fmt.Sprintf(`
You are a helpful assistant that extracts structured recipe information from HTML content.
Extract the recipe title, a one-sentence summary, the ingredient list with quantities,
and classify the recipe.

Return the output as a JSON object with the following structure:
{
	"title": "Recipe Name",
	"summary": "One sentence description",
	"meal_type": "breakfast" | "lunch" | "dinner",
	"cuisine": "lowercase cuisine tag, e.g. spanish, mexican, italian",
	"protein": "lowercase main protein, e.g. beef, chicken, fish, none",
	"servings": 4,
	"ingredients": [
		{"name": "ingredient name", "quantity": 1.5, "unit": "cup"},
		{"name": "salt"}
	]
}

Omit "quantity" and "unit" for ingredients with no measurable amount.
Ensure the output is valid JSON. Do not include any other text in your response.
Return ONLY the raw JSON string. Do not wrap the response in markdown code blocks.

HTML Content for "%s":
%s
`, post.Title, post.HTML)

	resp, err := textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to get LLM response: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(resp), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal LLM response into Recipe: %w. LLM Response: %s", err, resp)
	}

	rec.ID = post.ID
	rec.URL = post.URL
	rec.UpdatedAt = post.UpdatedAt
	rec.MealType = MealType(strings.ToLower(string(rec.MealType)))
	rec.Cuisine = strings.ToLower(rec.Cuisine)
	rec.Protein = strings.ToLower(rec.Protein)

	if !rec.MealType.Valid() {
		return nil, fmt.Errorf("LLM returned unknown meal type %q for post %s", rec.MealType, post.ID)
	}
	return &rec, nil
}
