// Package shopping consolidates the ingredient lists of a selection of
// recipes into a single deduplicated shopping list.
package shopping

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/recipe"
)

// LineItem is one entry of the consolidated shopping list. Quantity is nil
// when no contributing ingredient carried an amount ("as needed").
type LineItem struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     string   `json:"unit,omitempty"`
}

// Aggregate merges the ingredient lists of the given recipes. Ingredients are
// the same item when their names match case-insensitively. Quantities are
// summed (rounded to 2 decimals); units are never converted, the earliest
// non-empty unit wins. The result is sorted by item name ascending, using a
// case-insensitive locale-aware comparison.
func Aggregate(recipes []recipe.Recipe) []LineItem {
	merged := make(map[string]*LineItem)

	for _, rec := range recipes {
		for _, ing := range rec.Ingredients {
			name := strings.TrimSpace(ing.Name)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)

			item, ok := merged[key]
			if !ok {
				item = &LineItem{Name: name, Unit: ing.Unit}
				if ing.Quantity != nil {
					q := round2(*ing.Quantity)
					item.Quantity = &q
				}
				merged[key] = item
				continue
			}

			switch {
			case item.Quantity != nil && ing.Quantity != nil:
				sum := round2(*item.Quantity + *ing.Quantity)
				item.Quantity = &sum
			case ing.Quantity != nil:
				q := round2(*ing.Quantity)
				item.Quantity = &q
			}
			if item.Unit == "" {
				item.Unit = ing.Unit
			}
		}
	}

	items := make([]LineItem, 0, len(merged))
	for _, item := range merged {
		items = append(items, *item)
	}

	c := collate.New(language.English, collate.Loose)
	sort.Slice(items, func(i, j int) bool {
		return c.CompareString(items[i].Name, items[j].Name) < 0
	})
	return items
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
