package planner

import (
	"time"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/history"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/recipe"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/shopping"
)

// Meal binds a selected recipe to a day slot. Day is the 0-based position
// within the meal type's own selection, not a shared day counter.
type Meal struct {
	Day      int             `json:"day"`
	MealType recipe.MealType `json:"meal_type"`
	Recipe   recipe.Recipe   `json:"recipe"`
	Label    string          `json:"label"`
}

// Plan is the result of one generation: all breakfasts, then all lunches,
// then all dinners, each in selection order, plus the consolidated shopping
// list and the history snapshot the caller should persist.
type Plan struct {
	ID             string              `json:"id"`
	WeekStart      time.Time           `json:"week_start"`
	Meals          []Meal              `json:"meals"`
	ShoppingList   []shopping.LineItem `json:"shopping_list"`
	UpdatedHistory history.Snapshot    `json:"updated_history"`
}

// RecipeIDs lists the identifiers of every meal in plan order.
func (p *Plan) RecipeIDs() []string {
	ids := make([]string, 0, len(p.Meals))
	for _, m := range p.Meals {
		ids = append(ids, m.Recipe.ID)
	}
	return ids
}
