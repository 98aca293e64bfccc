package shopping

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasoncrawford-cyber/med-dinner-planner/internal/recipe"
)

func qty(v float64) *float64 { return &v }

func withIngredients(id string, ings ...recipe.Ingredient) recipe.Recipe {
	return recipe.Recipe{ID: id, Title: id, MealType: recipe.MealDinner, Ingredients: ings}
}

func TestAggregateSumsQuantities(t *testing.T) {
	recipes := []recipe.Recipe{
		withIngredients("a", recipe.Ingredient{Name: "tomato", Quantity: qty(1), Unit: "cup"}),
		withIngredients("b", recipe.Ingredient{Name: "tomato", Quantity: qty(2), Unit: "cup"}),
	}

	items := Aggregate(recipes)

	require.Len(t, items, 1)
	require.NotNil(t, items[0].Quantity)
	assert.Equal(t, "tomato", items[0].Name)
	assert.Equal(t, 3.0, *items[0].Quantity)
	assert.Equal(t, "cup", items[0].Unit)
}

func TestAggregateMergesCaseInsensitively(t *testing.T) {
	recipes := []recipe.Recipe{
		withIngredients("a", recipe.Ingredient{Name: "Tomato", Quantity: qty(1), Unit: "cup"}),
		withIngredients("b", recipe.Ingredient{Name: "tomato", Quantity: qty(0.5), Unit: "cup"}),
	}

	items := Aggregate(recipes)

	require.Len(t, items, 1)
	assert.Equal(t, 1.5, *items[0].Quantity)
}

func TestAggregateRoundsToTwoDecimals(t *testing.T) {
	recipes := []recipe.Recipe{
		withIngredients("a", recipe.Ingredient{Name: "flour", Quantity: qty(0.1), Unit: "kg"}),
		withIngredients("b", recipe.Ingredient{Name: "flour", Quantity: qty(0.2), Unit: "kg"}),
	}

	items := Aggregate(recipes)

	require.Len(t, items, 1)
	assert.Equal(t, 0.3, *items[0].Quantity)
}

func TestAggregateMissingQuantities(t *testing.T) {
	t.Run("OneSideCarriesQuantity", func(t *testing.T) {
		recipes := []recipe.Recipe{
			withIngredients("a", recipe.Ingredient{Name: "olive oil"}),
			withIngredients("b", recipe.Ingredient{Name: "olive oil", Quantity: qty(2), Unit: "tbsp"}),
		}

		items := Aggregate(recipes)

		require.Len(t, items, 1)
		require.NotNil(t, items[0].Quantity)
		assert.Equal(t, 2.0, *items[0].Quantity)
		assert.Equal(t, "tbsp", items[0].Unit)
	})

	t.Run("NeitherCarriesQuantity", func(t *testing.T) {
		recipes := []recipe.Recipe{
			withIngredients("a", recipe.Ingredient{Name: "salt"}),
			withIngredients("b", recipe.Ingredient{Name: "salt"}),
		}

		items := Aggregate(recipes)

		require.Len(t, items, 1)
		assert.Nil(t, items[0].Quantity, "'as needed' items keep no quantity")
	})
}

func TestAggregateEarliestUnitWins(t *testing.T) {
	recipes := []recipe.Recipe{
		withIngredients("a", recipe.Ingredient{Name: "milk", Quantity: qty(1), Unit: "cup"}),
		withIngredients("b", recipe.Ingredient{Name: "milk", Quantity: qty(200), Unit: "ml"}),
	}

	items := Aggregate(recipes)

	require.Len(t, items, 1)
	assert.Equal(t, "cup", items[0].Unit, "units are never converted; the first non-empty unit is kept")
}

func TestAggregateSortsCaseInsensitively(t *testing.T) {
	recipes := []recipe.Recipe{
		withIngredients("a",
			recipe.Ingredient{Name: "Zucchini", Quantity: qty(1)},
			recipe.Ingredient{Name: "apple", Quantity: qty(2)},
			recipe.Ingredient{Name: "Butter", Quantity: qty(3)},
		),
	}

	items := Aggregate(recipes)

	require.Len(t, items, 3)
	assert.Equal(t, "apple", items[0].Name)
	assert.Equal(t, "Butter", items[1].Name)
	assert.Equal(t, "Zucchini", items[2].Name)
}

func TestAggregateOrderIndependent(t *testing.T) {
	recipes := []recipe.Recipe{
		withIngredients("a",
			recipe.Ingredient{Name: "tomato", Quantity: qty(1), Unit: "cup"},
			recipe.Ingredient{Name: "onion", Quantity: qty(2)},
		),
		withIngredients("b", recipe.Ingredient{Name: "tomato", Quantity: qty(2), Unit: "cup"}),
		withIngredients("c", recipe.Ingredient{Name: "garlic"}),
		withIngredients("d", recipe.Ingredient{Name: "onion", Quantity: qty(1)}),
	}

	want := Aggregate(recipes)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]recipe.Recipe(nil), recipes...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		assert.Equal(t, want, Aggregate(shuffled))
	}
}

func TestAggregateEmptySelection(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}
