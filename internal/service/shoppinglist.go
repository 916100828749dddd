package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/FinalGun/foodgram/internal/models"
)

// ShoppingListItem is one aggregated ingredient of a shopping list:
// quantities are summed across every cart recipe sharing (name, unit).
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// ShoppingList collects the ingredient rows of every recipe in the user's
// cart, grouped by (name, unit) with summed amounts and ordered by name,
// together with the distinct recipes contributing to the cart.
func (s *RecipeService) ShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, []models.Recipe, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, nil, err
	}

	var recipes []models.Recipe
	err = s.db.WithContext(ctx).Model(&models.Recipe{}).
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipes.id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Order("recipes.name").
		Find(&recipes).Error
	if err != nil {
		return nil, nil, err
	}
	return items, recipes, nil
}

// RenderShoppingList produces the plain-text report: a dated header, the
// aggregated products with 1-based positions, then the contributing recipes.
func RenderShoppingList(items []ShoppingListItem, recipes []models.Recipe, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list. %s\n", today.Format("2006-01-02"))
	b.WriteString("Products:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s - %d, %s\n", i+1, capitalize(item.Name), item.Total, item.MeasurementUnit)
	}
	b.WriteString("Recipes:\n")
	for i, recipe := range recipes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, capitalize(recipe.Name))
	}
	return b.String()
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
