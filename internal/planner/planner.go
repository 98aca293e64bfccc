// Package planner implements the weekly meal selection: per-meal-type slot
// filling with no-repeat history, a one-beef-per-plan protein cap, and a
// mandatory cuisine inclusion with a single-substitution repair pass.
package planner

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/history"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/recipe"
	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/shopping"
)

// requiredCuisines is the fixed set the final plan must represent.
var requiredCuisines = map[string]bool{
	"spanish": true,
	"mexican": true,
}

// Planner generates meal plans from a catalog snapshot. The random source is
// injectable so constraint properties can be asserted across seeds.
type Planner struct {
	rng *rand.Rand
	now func() time.Time
}

// NewPlanner creates a Planner. A nil rng gets a time-seeded source.
func NewPlanner(rng *rand.Rand) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Planner{rng: rng, now: time.Now}
}

// Generate runs the whole pipeline for one request: select per meal type,
// repair cuisine variety, assemble day labels, aggregate the shopping list.
// It fails as a whole; on error nothing should be persisted.
func (p *Planner) Generate(req Request, catalog []recipe.Recipe, hist history.Snapshot) (*Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan request: %w", err)
	}

	now := p.now()
	recent := hist.RecentIDs(now)
	chosen := make(map[string]struct{})
	beefUsed := false

	breakfasts, beefUsed, err := p.selectSlots(catalog, recipe.MealBreakfast, req.Breakfasts, recent, chosen, beefUsed)
	if err != nil {
		return nil, err
	}
	lunches, beefUsed, err := p.selectSlots(catalog, recipe.MealLunch, req.Lunches, recent, chosen, beefUsed)
	if err != nil {
		return nil, err
	}
	dinners, beefUsed, err := p.selectSlots(catalog, recipe.MealDinner, req.Dinners, recent, chosen, beefUsed)
	if err != nil {
		return nil, err
	}

	selection := make([]recipe.Recipe, 0, len(breakfasts)+len(lunches)+len(dinners))
	selection = append(selection, breakfasts...)
	selection = append(selection, lunches...)
	selection = append(selection, dinners...)

	selection, _, err = p.ensureRequiredCuisine(selection, catalog, recent, chosen, beefUsed)
	if err != nil {
		return nil, err
	}

	// The repair preserves positions, so the combined selection splits back
	// into the per-type runs it was built from.
	breakfasts = selection[:len(breakfasts)]
	lunches = selection[len(breakfasts) : len(breakfasts)+len(lunches)]
	dinners = selection[len(breakfasts)+len(lunches):]

	weekStart := req.WeekOf
	if weekStart.IsZero() {
		weekStart = WeekMonday(now)
	}

	plan := &Plan{
		ID:             uuid.NewString(),
		WeekStart:      weekStart,
		Meals:          assemble(req, weekStart, breakfasts, lunches, dinners),
		ShoppingList:   shopping.Aggregate(selection),
		UpdatedHistory: hist.Touch(recipeIDs(selection), now),
	}
	return plan, nil
}

// selectSlots draws count recipes of one meal type. Candidates in the recent
// set are filtered out up front; the rest are scanned in a uniformly random
// order, skipping already-chosen recipes and beef once the cap is spent. The
// chosen set is mutated so later meal types see earlier picks.
func (p *Planner) selectSlots(
	catalog []recipe.Recipe,
	mealType recipe.MealType,
	count int,
	recent map[string]struct{},
	chosen map[string]struct{},
	beefUsed bool,
) ([]recipe.Recipe, bool, error) {
	candidates := make([]recipe.Recipe, 0, len(catalog))
	for _, r := range catalog {
		if r.MealType != mealType {
			continue
		}
		if _, used := recent[r.ID]; used {
			continue
		}
		candidates = append(candidates, r)
	}

	p.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	var picked []recipe.Recipe
	for _, r := range candidates {
		if len(picked) == count {
			break
		}
		if _, taken := chosen[r.ID]; taken {
			continue
		}
		if beefUsed && r.IsBeef() {
			continue
		}
		picked = append(picked, r)
		chosen[r.ID] = struct{}{}
		if r.IsBeef() {
			beefUsed = true
		}
	}

	if len(picked) < count {
		return nil, beefUsed, &InsufficientCandidatesError{MealType: mealType, Needed: count, Found: len(picked)}
	}
	return picked, beefUsed, nil
}

// ensureRequiredCuisine guarantees at least one spanish or mexican recipe in
// the selection. At most one substitution is made: the first entry in
// selection order that admits a valid replacement is swapped in place and the
// search stops. This is a bounded repair heuristic, not an exhaustive search;
// when no entry admits a replacement the whole generation fails.
func (p *Planner) ensureRequiredCuisine(
	selection []recipe.Recipe,
	catalog []recipe.Recipe,
	recent map[string]struct{},
	chosen map[string]struct{},
	beefUsed bool,
) ([]recipe.Recipe, bool, error) {
	if len(selection) == 0 {
		return selection, beefUsed, nil
	}
	for _, r := range selection {
		if requiredCuisines[strings.ToLower(r.Cuisine)] {
			return selection, beefUsed, nil
		}
	}

	pool := make([]recipe.Recipe, len(catalog))
	for i, current := range selection {
		copy(pool, catalog)
		p.rng.Shuffle(len(pool), func(a, b int) {
			pool[a], pool[b] = pool[b], pool[a]
		})

		for _, cand := range pool {
			if cand.MealType != current.MealType {
				continue
			}
			if !requiredCuisines[strings.ToLower(cand.Cuisine)] {
				continue
			}
			if _, used := recent[cand.ID]; used {
				continue
			}
			if _, taken := chosen[cand.ID]; taken {
				continue
			}
			if beefUsed && cand.IsBeef() {
				continue
			}

			repaired := make([]recipe.Recipe, len(selection))
			copy(repaired, selection)
			repaired[i] = cand
			delete(chosen, current.ID)
			chosen[cand.ID] = struct{}{}
			if cand.IsBeef() {
				beefUsed = true
			}
			return repaired, beefUsed, nil
		}
	}
	return nil, beefUsed, ErrNoRequiredCuisine
}

func recipeIDs(recipes []recipe.Recipe) []string {
	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	return ids
}
