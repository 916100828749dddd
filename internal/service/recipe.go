package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/FinalGun/foodgram/internal/models"
)

// IngredientAmount is one (ingredient id, quantity) pair of a recipe write.
type IngredientAmount struct {
	ID     uuid.UUID
	Amount int
}

// RecipeInput is the write-shape of a recipe. Image carries an
// already-stored path; decoding happens at the API boundary.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	Ingredients []IngredientAmount
	TagIDs      []uuid.UUID
}

// RecipeDetail is the read-shape of a recipe: the row with its associations
// plus the fields computed against the viewer at assembly time.
type RecipeDetail struct {
	models.Recipe
	Favorited        bool
	InShoppingCart   bool
	AuthorSubscribed bool
}

// RecipeFilter narrows a recipe listing.
type RecipeFilter struct {
	AuthorID       *uuid.UUID
	TagSlugs       []string
	Favorited      bool
	InShoppingCart bool
	Limit          int
	Offset         int
}

// RecipeService handles recipe writes, reads and membership toggles.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe persists the recipe row, its tag associations and its
// ingredient junction rows in one transaction, then re-reads the result
// through the read-shape.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, in *RecipeInput) (*RecipeDetail, error) {
	if err := validateRecipeSets(in); err != nil {
		return nil, err
	}

	var recipeID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := loadTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, in.Ingredients); err != nil {
			return err
		}

		recipe := models.Recipe{
			Name:        in.Name,
			Text:        in.Text,
			Image:       in.Image,
			CookingTime: in.CookingTime,
			AuthorID:    authorID,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := createIngredientRows(tx, recipe.ID, in.Ingredients); err != nil {
			return err
		}
		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipeID, &authorID)
}

// UpdateRecipe refreshes the scalar fields and replaces the tag and
// ingredient sets wholesale. Only the author may update a recipe.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, recipeID uuid.UUID, in *RecipeInput) (*RecipeDetail, error) {
	if err := validateRecipeSets(in); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if recipe.AuthorID != userID {
			return ErrForbidden
		}

		tags, err := loadTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		if err := checkIngredientsExist(tx, in.Ingredients); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
		}
		if in.Image != "" {
			updates["image"] = in.Image
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		// Clear existing junction rows, then bulk-insert the new set.
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return createIngredientRows(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipeID, &userID)
}

// GetRecipe loads a recipe with its associations and the viewer-computed
// flags. A nil viewer yields false flags.
func (s *RecipeService) GetRecipe(ctx context.Context, recipeID uuid.UUID, viewer *uuid.UUID) (*RecipeDetail, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	details, err := s.annotate(ctx, []models.Recipe{recipe}, viewer)
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// RecipeExists reports whether a recipe id is stored; used by the
// short-link redirect.
func (s *RecipeService) RecipeExists(ctx context.Context, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error
	return count > 0, err
}

// ListRecipes lists recipes ordered by name, narrowed by the filter. The
// membership filters require a viewer and are ignored without one.
func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeFilter, viewer *uuid.UUID) ([]RecipeDetail, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient")

	if filter.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		q = q.Distinct("recipes.*").
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
	}
	if filter.Favorited && viewer != nil {
		q = q.Joins("JOIN favorites ON favorites.recipe_id = recipes.id AND favorites.user_id = ?", *viewer)
	}
	if filter.InShoppingCart && viewer != nil {
		q = q.Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipes.id AND shopping_cart_entries.user_id = ?", *viewer)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := q.Order("recipes.name").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return s.annotate(ctx, recipes, viewer)
}

// DeleteRecipe removes a recipe and all its dependent rows. Only the author
// may delete; the cascade is explicit so every dialect behaves the same.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if recipe.AuthorID != userID {
			return ErrForbidden
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.ShoppingCartEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// FavoriteRecipe adds the recipe to the user's favorites, returning the
// short read-shape. Duplicate adds conflict.
func (s *RecipeService) FavoriteRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.shortRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := addMembership[models.Favorite](s.db.WithContext(ctx), userID, recipeID); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) UnfavoriteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.shortRecipe(ctx, recipeID); err != nil {
		return err
	}
	return removeMembership[models.Favorite](s.db.WithContext(ctx), userID, recipeID)
}

// AddToShoppingCart adds the recipe to the user's shopping cart, returning
// the short read-shape. Duplicate adds conflict.
func (s *RecipeService) AddToShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.shortRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := addMembership[models.ShoppingCartEntry](s.db.WithContext(ctx), userID, recipeID); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.shortRecipe(ctx, recipeID); err != nil {
		return err
	}
	return removeMembership[models.ShoppingCartEntry](s.db.WithContext(ctx), userID, recipeID)
}

func (s *RecipeService) shortRecipe(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// annotate computes the per-viewer fields for a batch of recipes with one
// query per relation instead of one per recipe.
func (s *RecipeService) annotate(ctx context.Context, recipes []models.Recipe, viewer *uuid.UUID) ([]RecipeDetail, error) {
	details := make([]RecipeDetail, len(recipes))
	for i := range recipes {
		details[i].Recipe = recipes[i]
	}
	if viewer == nil || len(recipes) == 0 {
		return details, nil
	}

	ids := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	db := s.db.WithContext(ctx)
	var favorited []uuid.UUID
	if err := db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", *viewer, ids).
		Pluck("recipe_id", &favorited).Error; err != nil {
		return nil, err
	}
	var inCart []uuid.UUID
	if err := db.Model(&models.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id IN ?", *viewer, ids).
		Pluck("recipe_id", &inCart).Error; err != nil {
		return nil, err
	}
	var followed []uuid.UUID
	if err := db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id IN ?", *viewer, authorIDs).
		Pluck("following_id", &followed).Error; err != nil {
		return nil, err
	}

	favoritedSet := toSet(favorited)
	inCartSet := toSet(inCart)
	followedSet := toSet(followed)
	for i := range details {
		details[i].Favorited = favoritedSet[details[i].ID]
		details[i].InShoppingCart = inCartSet[details[i].ID]
		details[i].AuthorSubscribed = followedSet[details[i].AuthorID]
	}
	return details, nil
}

func toSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// validateRecipeSets rejects empty ingredient/tag sets and sets with
// repeated identifiers, naming the duplicated ids.
func validateRecipeSets(in *RecipeInput) error {
	ingredientIDs := make([]uuid.UUID, len(in.Ingredients))
	for i, ing := range in.Ingredients {
		ingredientIDs[i] = ing.ID
	}
	if err := validateDistinct("ingredients", ingredientIDs); err != nil {
		return err
	}
	return validateDistinct("tags", in.TagIDs)
}

func validateDistinct(field string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	counts := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		counts[id]++
	}
	if len(counts) == len(ids) {
		return nil
	}
	var duplicated []string
	for id, n := range counts {
		if n > 1 {
			duplicated = append(duplicated, id.String())
		}
	}
	sort.Strings(duplicated)
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must not repeat: %s", strings.Join(duplicated, ", ")),
	}
}

// loadTags resolves the tag id set, failing with ErrNotFound when any id is
// absent. The error names the missing ids, distinct from the duplicate and
// empty-set errors.
func loadTags(tx *gorm.DB, tagIDs []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, fmt.Errorf("tags %s: %w", missingIDs(tagIDs, tagIDsOf(tags)), ErrNotFound)
	}
	return tags, nil
}

func checkIngredientsExist(tx *gorm.DB, ingredients []IngredientAmount) error {
	ids := make([]uuid.UUID, len(ingredients))
	for i, ing := range ingredients {
		ids[i] = ing.ID
	}
	var stored []uuid.UUID
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &stored).Error; err != nil {
		return err
	}
	if len(stored) != len(ids) {
		return fmt.Errorf("ingredients %s: %w", missingIDs(ids, stored), ErrNotFound)
	}
	return nil
}

func createIngredientRows(tx *gorm.DB, recipeID uuid.UUID, ingredients []IngredientAmount) error {
	rows := make([]models.RecipeIngredient, len(ingredients))
	for i, ing := range ingredients {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ing.ID,
			Amount:       ing.Amount,
		}
	}
	return tx.Create(&rows).Error
}

func tagIDsOf(tags []models.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

func missingIDs(wanted, stored []uuid.UUID) string {
	storedSet := toSet(stored)
	var missing []string
	for _, id := range wanted {
		if !storedSet[id] {
			missing = append(missing, id.String())
		}
	}
	sort.Strings(missing)
	return strings.Join(missing, ", ")
}
