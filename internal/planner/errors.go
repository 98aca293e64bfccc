package planner

import (
	"errors"
	"fmt"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/recipe"
)

// ErrNoRequiredCuisine is returned when no substitution can bring a spanish or
// mexican recipe into the plan.
var ErrNoRequiredCuisine = errors.New("no spanish or mexican recipe available for any slot")

// InsufficientCandidatesError is returned when a meal type cannot be filled
// without repeating history, duplicating a chosen recipe, or exceeding the
// beef cap.
type InsufficientCandidatesError struct {
	MealType recipe.MealType
	Needed   int
	Found    int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("not enough %s recipes available: need %d, found %d", e.MealType, e.Needed, e.Found)
}
