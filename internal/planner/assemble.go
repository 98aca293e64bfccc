package planner

import (
	"time"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/recipe"
)

// minPlanDays pads the label sequence so short requests still read as a week.
const minPlanDays = 5

// WeekMonday returns the Monday of the week containing t, at midnight in t's
// location.
func WeekMonday(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// NextMonday returns the Monday of the week after the one containing t.
func NextMonday(t time.Time) time.Time {
	return WeekMonday(t).AddDate(0, 0, 7)
}

// assemble binds each meal type's selection to day labels. Labels run from
// weekStart for max(breakfasts, lunches, dinners, minPlanDays) consecutive
// days; each selection indexes the labels by its own 0-based position.
func assemble(req Request, weekStart time.Time, breakfasts, lunches, dinners []recipe.Recipe) []Meal {
	totalDays := minPlanDays
	for _, n := range []int{req.Breakfasts, req.Lunches, req.Dinners} {
		if n > totalDays {
			totalDays = n
		}
	}

	labels := make([]string, totalDays)
	for i := range labels {
		labels[i] = weekStart.AddDate(0, 0, i).Format("Mon Jan 2")
	}

	meals := make([]Meal, 0, len(breakfasts)+len(lunches)+len(dinners))
	appendMeals := func(mealType recipe.MealType, selection []recipe.Recipe) {
		for i, r := range selection {
			// Cannot exceed totalDays by construction, but clamp anyway.
			labelIdx := i
			if labelIdx >= len(labels) {
				labelIdx = len(labels) - 1
			}
			meals = append(meals, Meal{
				Day:      i,
				MealType: mealType,
				Recipe:   r,
				Label:    labels[labelIdx],
			})
		}
	}
	appendMeals(recipe.MealBreakfast, breakfasts)
	appendMeals(recipe.MealLunch, lunches)
	appendMeals(recipe.MealDinner, dinners)
	return meals
}
