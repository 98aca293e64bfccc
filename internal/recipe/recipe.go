package recipe

// MealType classifies a recipe into one of the three planned meals.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// MealTypes lists all meal types in planning order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner}

// Valid reports whether the meal type is one of the known tags.
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

// ProteinBeef is the protein tag subject to the one-per-plan cap.
const ProteinBeef = "beef"

// Ingredient is a single ingredient line of a recipe. Quantity is nil when the
// recipe does not specify an amount ("salt to taste").
type Ingredient struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     string   `json:"unit,omitempty"`
}

// Recipe is one entry of the catalog. IDs are unique across the catalog.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Summary     string       `json:"summary,omitempty"`
	URL         string       `json:"url,omitempty"`
	MealType    MealType     `json:"meal_type"`
	Cuisine     string       `json:"cuisine"`
	Protein     string       `json:"protein"`
	Ingredients []Ingredient `json:"ingredients"`
	Servings    int          `json:"servings,omitempty"`
	UpdatedAt   string       `json:"updated_at,omitempty"`
}

// IsBeef reports whether the recipe counts against the protein cap.
func (r Recipe) IsBeef() bool {
	return r.Protein == ProteinBeef
}
