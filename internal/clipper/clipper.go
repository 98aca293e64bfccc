// Package clipper imports recipes from arbitrary web pages into the catalog.
package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/llm"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/recipe"
)

// CatalogSaver is the part of the catalog repository the clipper needs.
type CatalogSaver interface {
	Save(ctx context.Context, rec recipe.Recipe) error
}

// Clipper fetches a URL, extracts a structured recipe with an LLM, and saves
// it to the catalog.
type Clipper struct {
	catalog CatalogSaver
	textGen llm.TextGenerator
	log     *zap.Logger
}

// NewClipper creates a new Clipper instance.
func NewClipper(catalog CatalogSaver, textGen llm.TextGenerator, log *zap.Logger) *Clipper {
	return &Clipper{catalog: catalog, textGen: textGen, log: log}
}

// ClipURL fetches the URL, extracts the recipe, and saves it to the catalog.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*recipe.Recipe, error) {
	content, err := c.fetchAndCleanHTML(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe from the following page text
and classify it for a weekly meal planner.

Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
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

Page text:
%s
`, content)

	llmResponse, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var rec recipe.Recipe
	if err := json.Unmarshal([]byte(llmResponse), &rec); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, llmResponse)
	}

	rec.ID = uuid.NewString()
	rec.URL = url
	rec.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	rec.MealType = recipe.MealType(strings.ToLower(string(rec.MealType)))
	rec.Cuisine = strings.ToLower(rec.Cuisine)
	rec.Protein = strings.ToLower(rec.Protein)
	if !rec.MealType.Valid() {
		return nil, fmt.Errorf("extracted recipe has unknown meal type %q", rec.MealType)
	}

	if err := c.catalog.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save clipped recipe: %w", err)
	}

	c.log.Info("clipped recipe",
		zap.String("id", rec.ID),
		zap.String("title", rec.Title),
		zap.String("meal_type", string(rec.MealType)))
	return &rec, nil
}

func (c *Clipper) fetchAndCleanHTML(url string) (string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
